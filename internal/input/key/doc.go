// Package key defines terminal key events and their classification.
//
// Events arrive from the terminal layer (tcell) and are normalized into
// a small Event value. Each event belongs to exactly one Class; mode
// dispatch is keyed on (mode, class) rather than on raw key codes, so
// the set of input shapes the editor reacts to stays closed and
// auditable.
package key
