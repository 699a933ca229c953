package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/makoedit/mako/internal/engine/buffer"
)

// lexState is the state carried across line boundaries. Only
// constructs that can span lines live here; single-line strings that
// reach end of line simply terminate.
type lexState uint8

const (
	stateCode lexState = iota
	stateBlockComment
	stateRawString
)

// lexLine tokenizes one line (without its trailing newline). base is
// the line's start offset in the buffer; the returned state is what the
// next line starts in.
func lexLine(lang *Language, line string, base buffer.ByteOffset, state lexState) ([]Token, lexState) {
	var tokens []Token
	emit := func(kind Kind, start, end int) {
		if end > start {
			tokens = append(tokens, Token{
				Kind:  kind,
				Range: buffer.Range{Start: base + buffer.ByteOffset(start), End: base + buffer.ByteOffset(end)},
			})
		}
	}

	i := 0
	for i < len(line) {
		switch state {
		case stateBlockComment:
			if idx := strings.Index(line[i:], lang.BlockCommentClose); lang.BlockCommentClose != "" && idx >= 0 {
				end := i + idx + len(lang.BlockCommentClose)
				emit(KindComment, i, end)
				i = end
				state = stateCode
			} else {
				emit(KindComment, i, len(line))
				i = len(line)
			}

		case stateRawString:
			if idx := strings.IndexRune(line[i:], lang.RawStringDelim); idx >= 0 {
				end := i + idx + utf8.RuneLen(lang.RawStringDelim)
				emit(KindString, i, end)
				i = end
				state = stateCode
			} else {
				emit(KindString, i, len(line))
				i = len(line)
			}

		default:
			var advanced bool
			i, state, advanced = lexCode(lang, line, i, emit)
			if !advanced {
				// Unknown byte; skip it so the loop always makes progress.
				_, size := utf8.DecodeRuneInString(line[i:])
				i += size
			}
		}
	}
	return tokens, state
}

// lexCode consumes one token starting at i in normal code state.
// Returns the new position, the new state, and whether anything was
// consumed.
func lexCode(lang *Language, line string, i int, emit func(Kind, int, int)) (int, lexState, bool) {
	r, size := utf8.DecodeRuneInString(line[i:])

	switch {
	case unicode.IsSpace(r):
		return i + size, stateCode, true

	case lang.LineComment != "" && strings.HasPrefix(line[i:], lang.LineComment):
		emit(KindComment, i, len(line))
		return len(line), stateCode, true

	case lang.BlockCommentOpen != "" && strings.HasPrefix(line[i:], lang.BlockCommentOpen):
		start := i
		i += len(lang.BlockCommentOpen)
		if idx := strings.Index(line[i:], lang.BlockCommentClose); idx >= 0 {
			i += idx + len(lang.BlockCommentClose)
			emit(KindComment, start, i)
			return i, stateCode, true
		}
		emit(KindComment, start, len(line))
		return len(line), stateBlockComment, true

	case lang.RawStringDelim != 0 && r == lang.RawStringDelim:
		start := i
		i += size
		if idx := strings.IndexRune(line[i:], lang.RawStringDelim); idx >= 0 {
			i += idx + utf8.RuneLen(lang.RawStringDelim)
			emit(KindString, start, i)
			return i, stateCode, true
		}
		emit(KindString, start, len(line))
		return len(line), stateRawString, true

	case isQuote(lang, r):
		start := i
		i += size
		for i < len(line) {
			if line[i] == '\\' && i+1 < len(line) {
				i += 2
				continue
			}
			r2, s2 := utf8.DecodeRuneInString(line[i:])
			i += s2
			if r2 == r {
				break
			}
		}
		// An unterminated quote runs to end of line; plain strings do
		// not continue onto the next line.
		emit(KindString, start, i)
		return i, stateCode, true

	case r == '_' || unicode.IsLetter(r):
		start := i
		i += size
		for i < len(line) {
			r2, s2 := utf8.DecodeRuneInString(line[i:])
			if r2 != '_' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
				break
			}
			i += s2
		}
		word := line[start:i]
		if lang.IsKeyword(word) {
			emit(KindKeyword, start, i)
		} else {
			emit(KindIdent, start, i)
		}
		return i, stateCode, true

	case unicode.IsDigit(r):
		start := i
		i += size
		for i < len(line) {
			r2, s2 := utf8.DecodeRuneInString(line[i:])
			if r2 != '.' && r2 != '_' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
				break
			}
			i += s2
		}
		emit(KindNumber, start, i)
		return i, stateCode, true

	case unicode.IsPrint(r):
		emit(KindPunct, i, i+size)
		return i + size, stateCode, true
	}

	return i, stateCode, false
}

func isQuote(lang *Language, r rune) bool {
	for _, q := range lang.StringQuotes {
		if q == r {
			return true
		}
	}
	return false
}
