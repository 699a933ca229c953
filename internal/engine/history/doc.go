// Package history implements linear undo/redo over committed edit
// groups.
//
// Each undo entry captures the committed group, its inverse (both come
// from buffer.Apply), and the full cursor state before and after, so
// undo restores the exact prior buffer content and CursorSet. History
// is strictly linear: pushing after an undo discards the redo tail.
//
// Consecutive single-rune insertions or deletions made in the same
// mode with no intervening cursor motion coalesce into one entry,
// bounded by a configurable idle window, so typing a word is one undo
// step rather than one per keystroke.
package history
