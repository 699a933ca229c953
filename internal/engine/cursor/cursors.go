package cursor

import "sort"

// CursorSet manages multiple cursors/selections.
// Selections are kept sorted by position and non-overlapping; the set
// order doubles as the insertion order used for edit tie-breaks.
// The first selection is the "primary" selection.
type CursorSet struct {
	selections []Selection
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{selections: []Selection{initial}}
}

// NewCursorSetAt creates a cursor set with a single cursor at the given offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return NewCursorSet(At(offset))
}

// NewCursorSetFrom creates a cursor set from a slice of selections,
// normalized (sorted and merged). An empty slice yields a cursor at 0.
func NewCursorSetFrom(selections []Selection) *CursorSet {
	if len(selections) == 0 {
		return NewCursorSetAt(0)
	}
	cs := &CursorSet{selections: append([]Selection(nil), selections...)}
	cs.normalize()
	return cs
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	if len(cs.selections) == 0 {
		return Selection{}
	}
	return cs.selections[0]
}

// All returns a copy of all selections, safe to modify.
func (cs *CursorSet) All() []Selection {
	out := make([]Selection, len(cs.selections))
	copy(out, cs.selections)
	return out
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// Get returns the selection at the given index, or a zero selection if
// the index is out of range.
func (cs *CursorSet) Get(index int) Selection {
	if index < 0 || index >= len(cs.selections) {
		return Selection{}
	}
	return cs.selections[index]
}

// Add adds a new selection, merging with overlapping ones.
// A cursor at an already-occupied position is deduplicated.
func (cs *CursorSet) Add(sel Selection) {
	cs.selections = append(cs.selections, sel)
	cs.normalize()
}

// Set replaces all selections with a single selection.
func (cs *CursorSet) Set(sel Selection) {
	cs.selections = cs.selections[:0]
	cs.selections = append(cs.selections, sel)
}

// SetAll replaces all selections.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.Set(At(0))
		return
	}
	cs.selections = append(cs.selections[:0], sels...)
	cs.normalize()
}

// Clear removes all selections except the primary.
func (cs *CursorSet) Clear() {
	if len(cs.selections) > 1 {
		cs.selections = cs.selections[:1]
	}
}

// CollapseAll collapses all selections to cursors at their heads.
func (cs *CursorSet) CollapseAll() {
	for i, sel := range cs.selections {
		cs.selections[i] = sel.Collapse()
	}
	cs.normalize()
}

// HasSelection returns true if any selection is non-empty.
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Clamp clamps all selections to the valid range [0, maxOffset].
// No cursor may point past end-of-buffer.
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	for i, sel := range cs.selections {
		cs.selections[i] = sel.Clamp(maxOffset)
	}
	cs.normalize()
}

// Clone returns a deep copy of the cursor set.
func (cs *CursorSet) Clone() *CursorSet {
	return &CursorSet{selections: cs.All()}
}

// Equals returns true if two cursor sets have the same selections.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil || cs.Count() != other.Count() {
		return false
	}
	for i, sel := range cs.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}

// normalize sorts selections by position and merges any that share an
// overlapping range or coincide, leaving the union range. Cursor order
// after normalize is position order, which is also the insertion order
// the edit tie-break relies on.
func (cs *CursorSet) normalize() {
	if len(cs.selections) <= 1 {
		return
	}

	sort.SliceStable(cs.selections, func(i, j int) bool {
		si, sj := cs.selections[i].Start(), cs.selections[j].Start()
		if si != sj {
			return si < sj
		}
		return cs.selections[i].End() > cs.selections[j].End()
	})

	merged := cs.selections[:1]
	for _, sel := range cs.selections[1:] {
		last := &merged[len(merged)-1]
		switch {
		case sel.IsEmpty() && last.IsEmpty():
			if sel.Head != last.Head {
				merged = append(merged, sel)
			}
			// Identical cursors collapse into one.
		case sel.Overlaps(*last) || sel.Range() == last.Range():
			*last = last.Merge(sel)
		case sel.IsEmpty() && last.Range().Contains(sel.Head):
			// Cursor inside a selection disappears into it.
		default:
			merged = append(merged, sel)
		}
	}
	cs.selections = merged
}
