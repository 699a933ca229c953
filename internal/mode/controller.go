package mode

import (
	"sync"

	"github.com/makoedit/mako/internal/input/key"
)

// Actions is the editing surface the controller drives. The session
// implements it; the controller never touches the buffer directly.
type Actions interface {
	// InsertText inserts text at every cursor, replacing selections.
	InsertText(text string) error

	// DeleteBackward deletes one rune before each cursor.
	DeleteBackward() error

	// DeleteForward deletes one rune after each cursor.
	DeleteForward() error

	// InsertNewline inserts a line break, carrying the current line's
	// leading indentation onto the new line.
	InsertNewline() error

	// DeleteWordBackward deletes from each cursor back to the previous
	// word start.
	DeleteWordBackward() error

	// DeleteWordForward deletes from each cursor to the next word start.
	DeleteWordForward() error

	// DeleteToLineStart deletes from each cursor to its line start.
	DeleteToLineStart() error

	// DeleteToLineEnd deletes from each cursor to its line end.
	DeleteToLineEnd() error

	// Move applies a motion to every cursor. With extend set the anchor
	// stays put and only the head moves.
	Move(m Motion, extend bool) error

	// Undo reverses the last undo entry. Empty history is a no-op.
	Undo() error

	// Redo reapplies the last undone entry. Empty redo is a no-op.
	Redo() error

	// ExecuteCommand runs a completed command line.
	ExecuteCommand(line string) error
}

// ChangeCallback is notified after a committed mode transition.
type ChangeCallback func(from, to Mode)

// handler processes one (mode, class) table cell.
type handler func(c *Controller, ev key.Event, acts Actions) error

type dispatchKey struct {
	mode  Mode
	class key.Class
}

// Controller is the modal state machine. It owns the current mode, the
// command-line buffer, and the dispatch table. It runs for the lifetime
// of the session; there is no terminal state.
type Controller struct {
	mu sync.RWMutex

	current Mode
	cmdline []rune

	table     map[dispatchKey]handler
	callbacks []ChangeCallback
}

// NewController creates a controller in Edit mode.
func NewController() *Controller {
	c := &Controller{current: ModeEdit}
	c.table = buildDispatch()
	return c
}

// buildDispatch lays out the full (mode, class) table. Cells absent
// from the table ignore their input.
func buildDispatch() map[dispatchKey]handler {
	return map[dispatchKey]handler{
		// Edit: keystrokes mutate the buffer.
		{ModeEdit, key.ClassText}:      editInsert,
		{ModeEdit, key.ClassEnter}:     editNewline,
		{ModeEdit, key.ClassBackspace}: editDeleteBackward,
		{ModeEdit, key.ClassDelete}:    editDeleteForward,
		{ModeEdit, key.ClassMotion}:    moveCollapse,
		{ModeEdit, key.ClassEscape}:    switchToCommand,
		{ModeEdit, key.ClassControl}:   editControl,

		// Command: input builds the command line, never the buffer.
		{ModeCommand, key.ClassText}:      commandType,
		{ModeCommand, key.ClassBackspace}: commandErase,
		{ModeCommand, key.ClassEnter}:     commandExecute,
		{ModeCommand, key.ClassEscape}:    switchToEdit,
		{ModeCommand, key.ClassControl}:   commandControl,

		// Select: motions extend the anchor.
		{ModeSelect, key.ClassMotion}:  moveExtend,
		{ModeSelect, key.ClassEscape}:  switchToCommand,
		{ModeSelect, key.ClassControl}: selectControl,
	}
}

// Current returns the active mode.
func (c *Controller) Current() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// CommandLine returns the pending command-line text.
func (c *Controller) CommandLine() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return string(c.cmdline)
}

// OnChange registers a callback notified after each mode transition.
func (c *Controller) OnChange(cb ChangeCallback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// HandleEvent dispatches one key event through the table. Events with
// no table cell are ignored. Errors come from the Actions surface and
// never change the mode.
func (c *Controller) HandleEvent(ev key.Event, acts Actions) error {
	c.mu.RLock()
	h := c.table[dispatchKey{c.current, ev.Classify()}]
	c.mu.RUnlock()

	if h == nil {
		return nil
	}
	return h(c, ev, acts)
}

// switchTo commits a mode transition. Switching to the current mode is
// a no-op, so redundant transitions never fire callbacks.
func (c *Controller) switchTo(to Mode) {
	c.mu.Lock()
	from := c.current
	if from == to {
		c.mu.Unlock()
		return
	}
	c.current = to
	if to != ModeCommand {
		c.cmdline = c.cmdline[:0]
	}
	callbacks := make([]ChangeCallback, len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb(from, to)
	}
}

// Edit mode handlers.

func editInsert(_ *Controller, ev key.Event, acts Actions) error {
	text := string(ev.Rune)
	if ev.Key == key.KeyTab {
		text = "\t"
	}
	return acts.InsertText(text)
}

func editNewline(_ *Controller, _ key.Event, acts Actions) error {
	return acts.InsertNewline()
}

func editDeleteBackward(_ *Controller, _ key.Event, acts Actions) error {
	return acts.DeleteBackward()
}

func editDeleteForward(_ *Controller, _ key.Event, acts Actions) error {
	return acts.DeleteForward()
}

func editControl(_ *Controller, ev key.Event, acts Actions) error {
	if !ev.Modifiers.HasCtrl() {
		return nil
	}
	switch ev.Key {
	case key.KeyLeft:
		return acts.Move(MotionWordLeft, false)
	case key.KeyRight:
		return acts.Move(MotionWordRight, false)
	case key.KeyBackspace:
		return acts.DeleteWordBackward()
	case key.KeyDelete:
		return acts.DeleteWordForward()
	}
	switch ev.Rune {
	case 'z':
		return acts.Undo()
	case 'y':
		return acts.Redo()
	case 'w':
		return acts.DeleteWordBackward()
	case 'u':
		return acts.DeleteToLineStart()
	case 'k':
		return acts.DeleteToLineEnd()
	}
	return nil
}

// Command mode handlers.

func commandType(c *Controller, ev key.Event, _ Actions) error {
	c.mu.Lock()
	c.cmdline = append(c.cmdline, ev.Rune)
	c.mu.Unlock()
	return nil
}

func commandErase(c *Controller, _ key.Event, _ Actions) error {
	c.mu.Lock()
	if len(c.cmdline) > 0 {
		c.cmdline = c.cmdline[:len(c.cmdline)-1]
	}
	c.mu.Unlock()
	return nil
}

func commandExecute(c *Controller, _ key.Event, acts Actions) error {
	c.mu.Lock()
	line := string(c.cmdline)
	c.cmdline = c.cmdline[:0]
	c.mu.Unlock()

	c.switchTo(ModeEdit)
	if line == "" {
		return nil
	}
	return acts.ExecuteCommand(line)
}

func commandControl(c *Controller, ev key.Event, _ Actions) error {
	// C-v enters Select; everything else is ignored.
	if ev.Modifiers.HasCtrl() && ev.Rune == 'v' {
		c.switchTo(ModeSelect)
	}
	return nil
}

// Select mode handlers.

func selectControl(_ *Controller, ev key.Event, acts Actions) error {
	if !ev.Modifiers.HasCtrl() {
		return nil
	}
	switch ev.Key {
	case key.KeyLeft:
		return acts.Move(MotionWordLeft, true)
	case key.KeyRight:
		return acts.Move(MotionWordRight, true)
	}
	return nil
}

// Shared motion and transition handlers.

func moveCollapse(_ *Controller, ev key.Event, acts Actions) error {
	return acts.Move(motionFor(ev.Key), false)
}

func moveExtend(_ *Controller, ev key.Event, acts Actions) error {
	return acts.Move(motionFor(ev.Key), true)
}

func switchToCommand(c *Controller, _ key.Event, _ Actions) error {
	c.switchTo(ModeCommand)
	return nil
}

func switchToEdit(c *Controller, _ key.Event, _ Actions) error {
	c.switchTo(ModeEdit)
	return nil
}

func motionFor(k key.Key) Motion {
	switch k {
	case key.KeyUp:
		return MotionUp
	case key.KeyDown:
		return MotionDown
	case key.KeyRight:
		return MotionRight
	case key.KeyHome:
		return MotionLineStart
	case key.KeyEnd:
		return MotionLineEnd
	case key.KeyPgUp:
		return MotionPageUp
	case key.KeyPgDn:
		return MotionPageDown
	default:
		return MotionLeft
	}
}
