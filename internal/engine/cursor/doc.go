// Package cursor implements selections and multi-cursor editing.
//
// A Selection is an anchor/head pair of byte offsets; when they are
// equal the selection is just a cursor. A CursorSet is an ordered,
// normalized collection of selections: sorted by position, overlapping
// ranges merged into their union, with the first selection acting as
// the primary cursor.
//
// The multi-cursor edit protocol lives here too. Each selection
// proposes its own edit for an editing intent (insert, delete,
// replace); the set assembles them into one descending-ordered edit
// group for buffer.Apply, dropping shadowed proposals at duplicate
// offsets, and afterwards transforms every selection as if edits at
// lower offsets had been applied first.
package cursor
