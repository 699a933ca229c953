package cursor

import (
	"strings"
	"testing"

	"github.com/makoedit/mako/internal/engine/buffer"
)

func TestCursorSetNormalize(t *testing.T) {
	cs := NewCursorSetFrom([]Selection{
		At(10),
		At(2),
		At(10), // Duplicate position
		NewSelection(4, 8),
		NewSelection(6, 12), // Overlaps previous
	})

	want := []Selection{
		At(2),
		{Anchor: 4, Head: 12}, // Union of overlapping ranges
	}

	got := cs.All()
	if len(got) != len(want) {
		t.Fatalf("expected %d selections, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equals(want[i]) {
			t.Errorf("selection %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestCursorSetAddDeduplicates(t *testing.T) {
	cs := NewCursorSetAt(5)
	cs.Add(At(5))

	if cs.Count() != 1 {
		t.Errorf("expected 1 cursor after duplicate add, got %d", cs.Count())
	}
}

func TestCursorSetClamp(t *testing.T) {
	cs := NewCursorSetFrom([]Selection{At(3), At(50)})
	cs.Clamp(10)

	got := cs.All()
	if len(got) != 2 {
		t.Fatalf("expected 2 cursors, got %d", len(got))
	}
	if got[1].Head != 10 {
		t.Errorf("expected clamp to 10, got %d", got[1].Head)
	}
}

func TestMultiCursorInsertScenario(t *testing.T) {
	// Buffer "hello", cursors at offsets 0 and 5, typing "X" must yield
	// "XhelloX" with cursor A at 1 and cursor B at 7.
	buf := buffer.NewBufferFromString("hello")
	cs := NewCursorSetFrom([]Selection{At(0), At(5)})

	group := cs.PlanInsert("X")
	if len(group) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(group))
	}

	if _, err := buf.Apply(group); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cs.ApplyToSelections(group)

	if buf.Text() != "XhelloX" {
		t.Errorf("expected 'XhelloX', got %q", buf.Text())
	}

	got := cs.All()
	if got[0].Head != 1 {
		t.Errorf("cursor A: expected offset 1, got %d", got[0].Head)
	}
	if got[1].Head != 7 {
		t.Errorf("cursor B: expected offset 7, got %d", got[1].Head)
	}
}

func TestMultiCursorInsertGrowth(t *testing.T) {
	// Inserting T at N cursors grows the buffer by exactly N*len(T),
	// and each cursor ends just past its own copy.
	text := strings.Repeat("abcd\n", 10)
	buf := buffer.NewBufferFromString(text)

	sels := []Selection{At(0), At(7), At(13), At(26), At(44)}
	cs := NewCursorSetFrom(sels)

	const insert = "<<>>"
	group := cs.PlanInsert(insert)

	before := buf.Len()
	if _, err := buf.Apply(group); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cs.ApplyToSelections(group)

	wantLen := before + int64(len(sels)*len(insert))
	if buf.Len() != wantLen {
		t.Errorf("expected length %d, got %d", wantLen, buf.Len())
	}

	for i, sel := range cs.All() {
		head := sel.Head
		start := head - int64(len(insert))
		if got := buf.TextRange(start, head); got != insert {
			t.Errorf("cursor %d at %d: text before head is %q, want %q", i, head, got, insert)
		}
	}
}

func TestPlanInsertReplacesSelections(t *testing.T) {
	buf := buffer.NewBufferFromString("alpha beta gamma")
	cs := NewCursorSetFrom([]Selection{
		NewSelection(0, 5),   // "alpha"
		NewSelection(11, 16), // "gamma"
	})

	group := cs.PlanInsert("X")
	if _, err := buf.Apply(group); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cs.ApplyToSelections(group)

	if buf.Text() != "X beta X" {
		t.Errorf("expected 'X beta X', got %q", buf.Text())
	}
}

func TestPlanDeleteBackward(t *testing.T) {
	buf := buffer.NewBufferFromString("aXbXc")
	cs := NewCursorSetFrom([]Selection{At(2), At(4)})

	group := cs.PlanDeleteBackward(func(ByteOffset) ByteOffset { return 1 })
	if _, err := buf.Apply(group); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cs.ApplyToSelections(group)

	if buf.Text() != "abc" {
		t.Errorf("expected 'abc', got %q", buf.Text())
	}

	got := cs.All()
	if len(got) != 2 || got[0].Head != 1 || got[1].Head != 2 {
		t.Errorf("unexpected cursors %v", got)
	}
}

func TestPlanDeleteBackwardAtBufferStart(t *testing.T) {
	cs := NewCursorSetAt(0)

	group := cs.PlanDeleteBackward(func(ByteOffset) ByteOffset { return 1 })
	if len(group) != 0 {
		t.Errorf("expected empty group at buffer start, got %v", group)
	}
}

func TestPlanShadowedProposalDropped(t *testing.T) {
	// A cursor and a selection ending at the same start offset would
	// both edit at offset 0; the earlier cursor in set order wins and
	// the shadowed proposal is dropped without error.
	cs := NewCursorSetFrom([]Selection{At(0), NewSelection(0, 3)})

	// Normalization already absorbed the cursor into the selection.
	if cs.Count() != 1 {
		t.Fatalf("expected 1 selection after normalize, got %d", cs.Count())
	}

	// Overlapping delete proposals: cursors 1 byte apart, each deleting
	// 2 bytes backward. The second proposal overlaps the first and is
	// shadowed.
	cs = NewCursorSetFrom([]Selection{At(2), At(3)})
	group := cs.PlanDeleteBackward(func(ByteOffset) ByteOffset { return 2 })
	if len(group) != 1 {
		t.Fatalf("expected 1 surviving proposal, got %d", len(group))
	}
	if group[0].Range != (Range{Start: 0, End: 2}) {
		t.Errorf("expected first cursor's proposal to survive, got %v", group[0].Range)
	}
}

func TestTransformOffsetThroughGroup(t *testing.T) {
	group := buffer.NewGroup(
		buffer.NewInsert(2, "xx"),   // +2 at 2
		buffer.NewDelete(5, 8),      // -3 at 5
		buffer.NewInsert(10, "yyy"), // +3 at 10
	)

	tests := []struct {
		offset int64
		want   int64
	}{
		{0, 0},
		{2, 4},  // At insertion point: lands after inserted text
		{5, 7},  // Shifted by first insert only
		{6, 7},  // Inside deleted range: collapses to its start
		{8, 7},  // End of deleted range
		{9, 8},  // +2 -3
		{10, 12}, // +2 -3 +3
		{12, 14},
	}

	for _, tt := range tests {
		if got := TransformOffset(tt.offset, group); got != tt.want {
			t.Errorf("TransformOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestApplyToSelectionsMergesCoincident(t *testing.T) {
	// Deleting the text between two cursors makes them coincide; the
	// set must merge them into one.
	buf := buffer.NewBufferFromString("ab--cd")
	cs := NewCursorSetFrom([]Selection{At(2), At(4)})

	group := buffer.EditGroup{buffer.NewDelete(2, 4)}
	if _, err := buf.Apply(group); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	cs.ApplyToSelections(group)

	if cs.Count() != 1 {
		t.Fatalf("expected merged cursor, got %d", cs.Count())
	}
	if cs.Primary().Head != 2 {
		t.Errorf("expected merged cursor at 2, got %d", cs.Primary().Head)
	}
}

func TestCursorSetCloneIndependent(t *testing.T) {
	cs := NewCursorSetFrom([]Selection{At(1), At(5)})
	clone := cs.Clone()

	cs.Set(At(9))

	if clone.Count() != 2 {
		t.Errorf("clone mutated with original: %v", clone.All())
	}
	if !clone.Equals(NewCursorSetFrom([]Selection{At(1), At(5)})) {
		t.Errorf("clone selections changed: %v", clone.All())
	}
}
