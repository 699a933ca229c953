package cursor

import "github.com/makoedit/mako/internal/engine/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// EditGroup is an alias for buffer.EditGroup for convenience.
type EditGroup = buffer.EditGroup

// TransformOffset maps an offset through an edit group whose ranges are
// expressed in pre-apply coordinates, as if edits at lower offsets were
// applied before the offset is read back.
//
// Rules per edit:
//   - edit entirely before the offset (including an insertion exactly
//     at it): shift by the edit's delta, so a cursor at an insertion
//     point lands after the inserted text
//   - edit spanning the offset: collapse to the end of the replacement
//   - edit after the offset: no effect
func TransformOffset(offset ByteOffset, group EditGroup) ByteOffset {
	var shift ByteOffset
	for _, e := range group.Ascending() {
		switch {
		case e.Range.End <= offset:
			shift += e.Delta()
		case e.Range.Start < offset:
			return e.Range.Start + shift + ByteOffset(len(e.NewText))
		default:
			return offset + shift
		}
	}
	return offset + shift
}

// TransformSelection maps a selection through an edit group.
// Anchor and head are transformed independently.
func TransformSelection(sel Selection, group EditGroup) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, group),
		Head:   TransformOffset(sel.Head, group),
	}
}

// ApplyToSelections transforms every selection in the set through a
// committed edit group and re-merges cursors that now coincide.
func (cs *CursorSet) ApplyToSelections(group EditGroup) {
	for i, sel := range cs.selections {
		cs.selections[i] = TransformSelection(sel, group)
	}
	cs.normalize()
}
