// Package highlight implements incremental syntax highlighting.
//
// The token tree is an arena of nodes addressed by index: one root, one
// node per line, token leaves under each line. Parent and child links
// are indices, never pointers, so replacing a line's subtree is a local
// arena edit rather than a pointer-surgery rebuild.
//
// An edit invalidates the minimal span of lines covering the changed
// byte range. Those lines are re-lexed, plus trailing lines for as long
// as the carried lexer state (an open block comment or raw string)
// disagrees with what a following line last saw. Propagation is capped
// by a configurable line budget; blowing the budget falls back to a
// full-document re-lex, which is the accepted worst case rather than an
// error.
package highlight
