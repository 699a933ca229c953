package key

// Class partitions events into the shapes mode dispatch cares about.
// Every event maps to exactly one class.
type Class uint8

const (
	// ClassNone is an event the editor ignores.
	ClassNone Class = iota

	// ClassText is a printable character without Ctrl or Alt.
	ClassText

	// ClassControl is a Ctrl- or Alt-modified chord.
	ClassControl

	// ClassMotion is a cursor movement key.
	ClassMotion

	// ClassEscape is the Escape key.
	ClassEscape

	// ClassEnter is the Enter key.
	ClassEnter

	// ClassBackspace deletes backward.
	ClassBackspace

	// ClassDelete deletes forward.
	ClassDelete
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassText:
		return "text"
	case ClassControl:
		return "control"
	case ClassMotion:
		return "motion"
	case ClassEscape:
		return "escape"
	case ClassEnter:
		return "enter"
	case ClassBackspace:
		return "backspace"
	case ClassDelete:
		return "delete"
	default:
		return "none"
	}
}

// Classify returns the event's class.
func (e Event) Classify() Class {
	if e.Modifiers&(ModCtrl|ModAlt) != 0 {
		return ClassControl
	}
	switch e.Key {
	case KeyRune:
		if e.IsChar() {
			return ClassText
		}
		return ClassNone
	case KeyTab:
		return ClassText
	case KeyEscape:
		return ClassEscape
	case KeyEnter:
		return ClassEnter
	case KeyBackspace:
		return ClassBackspace
	case KeyDelete:
		return ClassDelete
	case KeyUp, KeyDown, KeyLeft, KeyRight, KeyHome, KeyEnd, KeyPgUp, KeyPgDn:
		return ClassMotion
	default:
		return ClassNone
	}
}
