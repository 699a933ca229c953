package buffer

import (
	"fmt"
	"sort"
)

// Edit represents a single text edit operation: replace the bytes in
// Range with NewText. An empty range is an insertion, empty NewText a
// deletion.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{
		Range:   Range{Start: start, End: end},
		NewText: "",
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsInsert returns true if this is a pure insertion (empty range).
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// IsDelete returns true if this is a pure deletion (empty replacement).
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// EditGroup is an ordered set of edits applied atomically as one
// committed group. Edits are kept sorted descending by start offset so
// earlier (lower) offsets remain valid while later edits apply.
type EditGroup []Edit

// NewGroup builds an EditGroup from the given edits, sorting them into
// descending start order.
func NewGroup(edits ...Edit) EditGroup {
	g := make(EditGroup, len(edits))
	copy(g, edits)
	g.SortDescending()
	return g
}

// SortDescending sorts the group by descending start offset.
// Equal starts keep their relative order.
func (g EditGroup) SortDescending() {
	sort.SliceStable(g, func(i, j int) bool {
		return g[i].Range.Start > g[j].Range.Start
	})
}

// InDescendingOrder returns true if the group is sorted descending and
// non-overlapping: every edit must end at or before the previous edit's
// start.
func (g EditGroup) InDescendingOrder() bool {
	for i := 1; i < len(g); i++ {
		if g[i].Range.End > g[i-1].Range.Start {
			return false
		}
	}
	return true
}

// Delta returns the total change in buffer length caused by the group.
func (g EditGroup) Delta() ByteOffset {
	var total ByteOffset
	for _, e := range g {
		total += e.Delta()
	}
	return total
}

// IsNoOp returns true if no edit in the group changes anything.
func (g EditGroup) IsNoOp() bool {
	for _, e := range g {
		if !e.IsNoOp() {
			return false
		}
	}
	return true
}

// Ascending returns the edits in ascending start order without
// modifying the group.
func (g EditGroup) Ascending() []Edit {
	out := make([]Edit, len(g))
	for i, e := range g {
		out[len(g)-1-i] = e
	}
	return out
}

// ApplyResult describes a committed edit group.
type ApplyResult struct {
	// Inverse is the edit group that exactly reverses the committed
	// group. Its ranges are expressed in post-apply coordinates and it
	// is sorted descending, ready to be applied as-is.
	Inverse EditGroup

	// Delta is the total change in buffer length.
	Delta ByteOffset

	// Version is the buffer version after the commit.
	Version Version
}
