// Package buffer implements the editable text buffer at the heart of
// the editing core.
//
// A Buffer stores document content as a contiguous byte slice paired
// with a line-start index, giving O(log n) conversion between byte
// offsets and line/column points. Edits are described as Edit values
// ([start,end) range plus replacement text) and applied in groups:
// a group is validated as a whole, applied atomically in descending
// offset order, and bumps the buffer Version exactly once.
//
// The line-start index is maintained incrementally. An edit splices
// only the line starts covered by its range and delta-shifts the tail
// of the index; the document is never rescanned for an ordinary edit.
//
// Buffers hand out immutable Snapshots for consumers (such as the LSP
// bridge) that need a stable view of the text while the buffer keeps
// mutating.
package buffer
