package history

import (
	"time"

	"github.com/makoedit/mako/internal/engine/buffer"
	"github.com/makoedit/mako/internal/engine/cursor"
)

// Selection is an alias for cursor.Selection for convenience.
type Selection = cursor.Selection

// Kind categorizes a record for coalescing decisions.
type Kind uint8

const (
	// KindOther never coalesces.
	KindOther Kind = iota
	// KindInsert is a plain text insertion.
	KindInsert
	// KindDelete is a plain text deletion.
	KindDelete
)

// Record describes one committed edit group as the editing core saw it.
type Record struct {
	Group   buffer.EditGroup // The committed group (pre-apply coordinates)
	Inverse buffer.EditGroup // Inverse group from buffer.Apply

	Before []Selection // Cursor state before the commit
	After  []Selection // Cursor state after the commit

	VersionBefore buffer.Version
	VersionAfter  buffer.Version

	Kind Kind
	Mode string // Active mode name at commit time

	// RuneCount is the number of runes each cursor inserted or deleted.
	// Only RuneCount==1 records are candidates for coalescing.
	RuneCount int
}

// step is one committed group inside an entry. Coalesced entries hold
// several steps; undo replays their inverses in reverse order, so no
// group composition is ever needed.
type step struct {
	group   buffer.EditGroup
	inverse buffer.EditGroup
}

// Entry is a single undo unit: one or more coalesced steps plus the
// cursor state bracketing them.
type Entry struct {
	steps []step

	before []Selection
	after  []Selection

	versionBefore buffer.Version
	versionAfter  buffer.Version

	kind     Kind
	mode     string
	touched  time.Time
	sealed   bool // No further coalescing once set
}

func newEntry(rec Record, now time.Time) *Entry {
	return &Entry{
		steps:         []step{{group: rec.Group, inverse: rec.Inverse}},
		before:        append([]Selection(nil), rec.Before...),
		after:         append([]Selection(nil), rec.After...),
		versionBefore: rec.VersionBefore,
		versionAfter:  rec.VersionAfter,
		kind:          rec.Kind,
		mode:          rec.Mode,
		touched:       now,
	}
}

// absorb extends the entry with a further coalesced record.
func (e *Entry) absorb(rec Record, now time.Time) {
	e.steps = append(e.steps, step{group: rec.Group, inverse: rec.Inverse})
	e.after = append(e.after[:0], rec.After...)
	e.versionAfter = rec.VersionAfter
	e.touched = now
}

// canAbsorb reports whether rec continues this entry's coalescing run:
// same single-rune kind, same mode, cursors exactly where the previous
// step left them, and within the idle window.
func (e *Entry) canAbsorb(rec Record, now time.Time, window time.Duration) bool {
	if e.sealed {
		return false
	}
	if rec.Kind != e.kind || (rec.Kind != KindInsert && rec.Kind != KindDelete) {
		return false
	}
	if rec.RuneCount != 1 {
		return false
	}
	if rec.Mode != e.mode {
		return false
	}
	if rec.VersionBefore != e.versionAfter {
		return false
	}
	if !selectionsEqual(rec.Before, e.after) {
		return false
	}
	if window > 0 && now.Sub(e.touched) > window {
		return false
	}
	return true
}

// undo reverses every step of the entry and restores the pre-entry
// cursor state.
func (e *Entry) undo(buf *buffer.Buffer, cursors *cursor.CursorSet, obs Observer) error {
	for i := len(e.steps) - 1; i >= 0; i-- {
		if err := replay(buf, e.steps[i].inverse, obs); err != nil {
			return err
		}
	}
	cursors.SetAll(e.before)
	return nil
}

// redo reapplies every step of the entry and restores the post-entry
// cursor state.
func (e *Entry) redo(buf *buffer.Buffer, cursors *cursor.CursorSet, obs Observer) error {
	for i := range e.steps {
		if err := replay(buf, e.steps[i].group, obs); err != nil {
			return err
		}
	}
	cursors.SetAll(e.after)
	return nil
}

func replay(buf *buffer.Buffer, group buffer.EditGroup, obs Observer) error {
	var pre *buffer.Snapshot
	if obs != nil {
		pre = buf.Snapshot()
	}
	if _, err := buf.Apply(group); err != nil {
		return err
	}
	if obs != nil {
		obs(pre, buf.Snapshot(), group)
	}
	return nil
}

// Steps returns the number of coalesced steps in the entry.
func (e *Entry) Steps() int {
	return len(e.steps)
}

func selectionsEqual(a, b []Selection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
