package session

import (
	"unicode"
	"unicode/utf8"

	"github.com/makoedit/mako/internal/engine/buffer"
)

// A word start is a word rune whose preceding rune is not a word rune.
// Word runes are letters, digits, and underscore.

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordLeft returns the last word start strictly before off, or the
// start of the buffer when no word begins before it.
func (s *Session) wordLeft(off buffer.ByteOffset) buffer.ByteOffset {
	text := s.buf.TextRange(0, off)
	var (
		best    buffer.ByteOffset
		pos     buffer.ByteOffset
		prev    rune
		prevSet bool
	)
	for _, r := range text {
		if prevSet && isWordRune(r) && !isWordRune(prev) {
			best = pos
		}
		pos += buffer.ByteOffset(utf8.RuneLen(r))
		prev, prevSet = r, true
	}
	return best
}

// wordRight returns the next word start strictly after off, or the end
// of the buffer when no further word begins.
func (s *Session) wordRight(off buffer.ByteOffset) buffer.ByteOffset {
	text := s.buf.TextRange(off, s.buf.Len())
	pos := off
	var (
		prev    rune
		prevSet bool
	)
	for _, r := range text {
		if prevSet && isWordRune(r) && !isWordRune(prev) {
			return pos
		}
		pos += buffer.ByteOffset(utf8.RuneLen(r))
		prev, prevSet = r, true
	}
	return s.buf.Len()
}

// leadingIndent returns the run of spaces and tabs opening text.
func leadingIndent(text string) string {
	end := 0
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[:end]
}
