// Package session wires the editing core together: one buffer, its
// cursors, undo history, the mode controller, syntax highlighting and
// an optional language server bridge. Every keystroke enters through
// HandleKey and every buffer mutation flows through the same commit
// pipeline, so downstream consumers always observe a consistent
// version sequence.
package session
