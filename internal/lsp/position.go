package lsp

import (
	"github.com/makoedit/mako/internal/engine/buffer"
)

// Position conversion between buffer byte offsets and protocol
// (line, UTF-16 column) pairs. Both directions go through a snapshot
// so a conversion is always against one consistent document state.

// ToPosition converts a byte offset to a protocol position.
func ToPosition(snap *buffer.Snapshot, offset buffer.ByteOffset) Position {
	p := snap.OffsetToPointUTF16(offset)
	return Position{Line: p.Line, Character: p.Column}
}

// FromPosition converts a protocol position to a byte offset.
func FromPosition(snap *buffer.Snapshot, pos Position) buffer.ByteOffset {
	return snap.PointUTF16ToOffset(buffer.PointUTF16{Line: pos.Line, Column: pos.Character})
}

// ChangesForGroup translates a committed edit group into incremental
// content changes. snap must be the pre-apply snapshot: the group's
// ranges are pre-apply coordinates, and because the group is ordered
// highest-offset first, each change's range is still valid when the
// server applies the changes sequentially.
func ChangesForGroup(snap *buffer.Snapshot, group buffer.EditGroup) []TextDocumentContentChangeEvent {
	changes := make([]TextDocumentContentChangeEvent, 0, len(group))
	for _, e := range group {
		r := Range{
			Start: ToPosition(snap, e.Range.Start),
			End:   ToPosition(snap, e.Range.End),
		}
		changes = append(changes, TextDocumentContentChangeEvent{Range: &r, Text: e.NewText})
	}
	return changes
}
