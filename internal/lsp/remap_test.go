package lsp

import (
	"testing"

	"github.com/makoedit/mako/internal/engine/buffer"
)

func TestRemapThroughGroup(t *testing.T) {
	tests := []struct {
		name   string
		group  buffer.EditGroup
		offset buffer.ByteOffset
		want   buffer.ByteOffset
		stale  bool
	}{
		{
			name:   "insert before shifts right",
			group:  buffer.EditGroup{buffer.NewInsert(2, "abcd")},
			offset: 10,
			want:   14,
		},
		{
			name:   "insert at position shifts right",
			group:  buffer.EditGroup{buffer.NewInsert(10, "xx")},
			offset: 10,
			want:   12,
		},
		{
			name:   "insert after is ignored",
			group:  buffer.EditGroup{buffer.NewInsert(11, "xx")},
			offset: 10,
			want:   10,
		},
		{
			name:   "delete before shifts left",
			group:  buffer.EditGroup{buffer.NewDelete(0, 4)},
			offset: 10,
			want:   6,
		},
		{
			name:   "delete containing is stale",
			group:  buffer.EditGroup{buffer.NewDelete(8, 12)},
			offset: 10,
			stale:  true,
		},
		{
			name:   "delete ending at position survives",
			group:  buffer.EditGroup{buffer.NewDelete(6, 10)},
			offset: 10,
			want:   6,
		},
		{
			name:   "replacement containing is stale",
			group:  buffer.EditGroup{buffer.NewEdit(buffer.Range{Start: 9, End: 11}, "zzz")},
			offset: 10,
			stale:  true,
		},
		{
			name: "multi-edit group accumulates shifts",
			group: buffer.NewGroup(
				buffer.NewInsert(0, "aa"),
				buffer.NewDelete(4, 6),
			),
			offset: 10,
			want:   10,
		},
	}

	for _, tt := range tests {
		got, ok := remapThroughGroup(tt.offset, tt.group)
		if tt.stale {
			if ok {
				t.Errorf("%s: expected stale, got %d", tt.name, got)
			}
			continue
		}
		if !ok {
			t.Errorf("%s: unexpectedly stale", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: remap = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRemapOffsetSkipsOldVersions(t *testing.T) {
	log := []committedGroup{
		{version: 2, group: buffer.EditGroup{buffer.NewInsert(0, "aa")}},
		{version: 3, group: buffer.EditGroup{buffer.NewInsert(0, "bb")}},
		{version: 4, group: buffer.EditGroup{buffer.NewInsert(0, "cc")}},
	}

	// From version 3 only the v4 group applies.
	got, ok := remapOffset(10, log, 3)
	if !ok || got != 12 {
		t.Errorf("remap from v3 = %d/%v, want 12/true", got, ok)
	}

	// From version 1 all three apply.
	got, ok = remapOffset(10, log, 1)
	if !ok || got != 16 {
		t.Errorf("remap from v1 = %d/%v, want 16/true", got, ok)
	}
}

func TestRemapRangeStaleness(t *testing.T) {
	log := []committedGroup{
		{version: 1, group: buffer.EditGroup{buffer.NewDelete(5, 8)}},
	}

	if _, ok := remapRange(buffer.Range{Start: 6, End: 10}, log, 0); ok {
		t.Error("range starting inside deletion must be stale")
	}
	r, ok := remapRange(buffer.Range{Start: 8, End: 10}, log, 0)
	if !ok || r.Start != 5 || r.End != 7 {
		t.Errorf("expected [5,7), got %v/%v", r, ok)
	}
}
