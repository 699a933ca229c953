package cursor

import "github.com/makoedit/mako/internal/engine/buffer"

// The planning methods implement the multi-cursor edit protocol: every
// selection proposes one edit, and the set assembles the proposals into
// a single descending-ordered group for buffer.Apply. Proposals are
// gathered in set order (ascending position, which is insertion order);
// when two proposals collide at the same start offset, or a later
// proposal overlaps an earlier one, the earlier cursor wins and the
// shadowed proposal is silently dropped. The shadowed cursor itself is
// not removed here; after the group commits, ApplyToSelections
// transforms it onto the surviving cursor and normalize merges them.

// PlanInsert proposes inserting text at every cursor. Selections with
// extent propose replacing their range with the text instead.
func (cs *CursorSet) PlanInsert(text string) EditGroup {
	return cs.plan(func(sel Selection) (Edit, bool) {
		if sel.IsEmpty() {
			return buffer.NewInsert(sel.Head, text), text != ""
		}
		return buffer.NewEdit(sel.Range(), text), true
	})
}

// PlanReplace proposes replacing every selection with caller-derived
// text, so each cursor can receive different text. Empty selections
// insert at the head; empty text on an empty selection proposes
// nothing.
func (cs *CursorSet) PlanReplace(textFor func(Selection) string) EditGroup {
	return cs.plan(func(sel Selection) (Edit, bool) {
		text := textFor(sel)
		if sel.IsEmpty() {
			return buffer.NewInsert(sel.Head, text), text != ""
		}
		return buffer.NewEdit(sel.Range(), text), true
	})
}

// PlanDeleteBackward proposes deleting the sizeBefore(head) bytes
// before every cursor. Selections with extent propose deleting their
// range instead. sizeBefore lets the caller supply rune-aware widths.
func (cs *CursorSet) PlanDeleteBackward(sizeBefore func(ByteOffset) ByteOffset) EditGroup {
	return cs.plan(func(sel Selection) (Edit, bool) {
		if !sel.IsEmpty() {
			return buffer.NewDelete(sel.Start(), sel.End()), true
		}
		n := sizeBefore(sel.Head)
		if n <= 0 || sel.Head-n < 0 {
			return Edit{}, false
		}
		return buffer.NewDelete(sel.Head-n, sel.Head), true
	})
}

// PlanDeleteForward proposes deleting the sizeAfter(head) bytes after
// every cursor. Selections with extent propose deleting their range.
func (cs *CursorSet) PlanDeleteForward(sizeAfter func(ByteOffset) ByteOffset) EditGroup {
	return cs.plan(func(sel Selection) (Edit, bool) {
		if !sel.IsEmpty() {
			return buffer.NewDelete(sel.Start(), sel.End()), true
		}
		n := sizeAfter(sel.Head)
		if n <= 0 {
			return Edit{}, false
		}
		return buffer.NewDelete(sel.Head, sel.Head+n), true
	})
}

// plan gathers one proposal per selection and resolves collisions.
func (cs *CursorSet) plan(propose func(Selection) (Edit, bool)) EditGroup {
	accepted := make([]Edit, 0, len(cs.selections))
	for _, sel := range cs.selections {
		edit, ok := propose(sel)
		if !ok {
			continue
		}
		if n := len(accepted); n > 0 {
			prev := accepted[n-1]
			if edit.Range.Start == prev.Range.Start || edit.Range.Start < prev.Range.End {
				continue // Shadowed by an earlier cursor's proposal
			}
		}
		accepted = append(accepted, edit)
	}

	group := make(EditGroup, len(accepted))
	for i, e := range accepted {
		group[len(accepted)-1-i] = e
	}
	return group
}
