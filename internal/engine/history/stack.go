package history

import (
	"errors"
	"sync"
	"time"

	"github.com/makoedit/mako/internal/engine/buffer"
	"github.com/makoedit/mako/internal/engine/cursor"
)

// Common errors for history operations. Callers treat both as no-ops.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// DefaultCoalesceWindow is the idle gap that ends a coalescing run.
const DefaultCoalesceWindow = 750 * time.Millisecond

// Observer is notified after each group an undo or redo replays
// against the buffer. pre and post bracket that single apply.
type Observer func(pre, post *buffer.Snapshot, group buffer.EditGroup)

// Stack manages linear undo/redo state for a buffer.
type Stack struct {
	mu sync.Mutex

	undo []*Entry
	redo []*Entry

	maxEntries     int
	coalesceWindow time.Duration
	observer       Observer

	// now is swappable for tests.
	now func() time.Time
}

// Option configures a Stack.
type Option func(*Stack)

// WithMaxEntries bounds the number of undo entries kept.
func WithMaxEntries(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithCoalesceWindow sets the idle window bounding a coalescing run.
// Zero disables the time bound (runs end only on mode or cursor
// boundaries).
func WithCoalesceWindow(d time.Duration) Option {
	return func(s *Stack) {
		s.coalesceWindow = d
	}
}

// WithObserver registers a callback for replayed groups. Undo and redo
// bypass the normal commit path, so downstream consumers (highlighting,
// language servers) hook in here.
func WithObserver(fn Observer) Option {
	return func(s *Stack) {
		s.observer = fn
	}
}

// NewStack creates a new undo stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{
		maxEntries:     DefaultMaxEntries,
		coalesceWindow: DefaultCoalesceWindow,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push records a committed edit group. Consecutive coalescible records
// are absorbed into the previous entry; anything else opens a new one.
// Pushing always discards the redo tail.
func (s *Stack) Push(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.redo = nil

	if n := len(s.undo); n > 0 && s.undo[n-1].canAbsorb(rec, now, s.coalesceWindow) {
		s.undo[n-1].absorb(rec, now)
		return
	}

	s.undo = append(s.undo, newEntry(rec, now))
	if len(s.undo) > s.maxEntries {
		excess := len(s.undo) - s.maxEntries
		s.undo = s.undo[excess:]
	}
}

// Seal ends the current coalescing run. Call it on mode switches and
// explicit cursor motion so the next keystroke opens a fresh entry.
func (s *Stack) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.undo); n > 0 {
		s.undo[n-1].sealed = true
	}
}

// Undo reverses the most recent entry against the buffer and cursor
// set. Returns ErrNothingToUndo on an empty stack; the buffer is
// untouched in that case.
func (s *Stack) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	s.mu.Lock()
	if len(s.undo) == 0 {
		s.mu.Unlock()
		return ErrNothingToUndo
	}
	entry := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.mu.Unlock()

	if err := entry.undo(buf, cursors, s.observer); err != nil {
		s.mu.Lock()
		s.undo = append(s.undo, entry)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	entry.sealed = true
	s.redo = append(s.redo, entry)
	s.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone entry.
// Returns ErrNothingToRedo if there is nothing to redo.
func (s *Stack) Redo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	s.mu.Lock()
	if len(s.redo) == 0 {
		s.mu.Unlock()
		return ErrNothingToRedo
	}
	entry := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.mu.Unlock()

	if err := entry.redo(buf, cursors, s.observer); err != nil {
		s.mu.Lock()
		s.redo = append(s.redo, entry)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.undo = append(s.undo, entry)
	s.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// UndoCount returns the number of undo entries available.
func (s *Stack) UndoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// RedoCount returns the number of redo entries available.
func (s *Stack) RedoCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo)
}

// Clear removes all undo/redo history.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
}
