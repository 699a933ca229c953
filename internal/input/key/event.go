package key

import (
	"time"
	"unicode"
)

// Event is a single normalized key press.
type Event struct {
	Key       Key
	Rune      rune // set for KeyRune events
	Modifiers Modifier
	Timestamp time.Time
}

// NewRuneEvent creates an event for a typed character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewSpecialEvent creates an event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods, Timestamp: time.Now()}
}

// IsChar returns true for a printable character without Ctrl or Alt.
// Shift alone is part of the character itself.
func (e Event) IsChar() bool {
	return e.Key == KeyRune &&
		e.Modifiers&(ModCtrl|ModAlt) == 0 &&
		unicode.IsPrint(e.Rune)
}

// String returns a canonical representation, e.g. "a", "C-z", "Esc".
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	}
	return e.Modifiers.String() + name
}
