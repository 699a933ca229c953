package mode

// Mode is one of the editor's three input modes. Exactly one is active
// at a time for the session's buffer view.
type Mode uint8

const (
	// ModeEdit routes keystrokes to text insertion and deletion.
	// It is the initial mode.
	ModeEdit Mode = iota

	// ModeCommand buffers a command line for the command dispatcher.
	ModeCommand

	// ModeSelect extends the active cursor's anchor through motions.
	ModeSelect
)

// String returns the mode name used in logs and the status line.
func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeCommand:
		return "command"
	case ModeSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Motion is a cursor movement request passed to the editing core.
type Motion uint8

const (
	MotionLeft Motion = iota
	MotionRight
	MotionUp
	MotionDown
	MotionLineStart
	MotionLineEnd
	MotionPageUp
	MotionPageDown
	MotionWordLeft
	MotionWordRight
)

// String returns the motion name.
func (m Motion) String() string {
	switch m {
	case MotionLeft:
		return "left"
	case MotionRight:
		return "right"
	case MotionUp:
		return "up"
	case MotionDown:
		return "down"
	case MotionLineStart:
		return "line-start"
	case MotionLineEnd:
		return "line-end"
	case MotionPageUp:
		return "page-up"
	case MotionPageDown:
		return "page-down"
	case MotionWordLeft:
		return "word-left"
	case MotionWordRight:
		return "word-right"
	default:
		return "unknown"
	}
}
