package highlight

import (
	"path/filepath"
	"strings"
)

// Language describes the lexical shape of a source language.
type Language struct {
	Name string

	// Keywords highlighted as KindKeyword.
	Keywords map[string]struct{}

	// LineComment starts a comment running to end of line ("//", "#").
	LineComment string

	// BlockCommentOpen/Close delimit multi-line comments. Empty means
	// the language has none.
	BlockCommentOpen  string
	BlockCommentClose string

	// StringQuotes are single-line string delimiters with backslash
	// escapes.
	StringQuotes []rune

	// RawStringDelim delimits multi-line raw strings (0 disables).
	RawStringDelim rune
}

// IsKeyword reports whether word is a keyword of the language.
func (l *Language) IsKeyword(word string) bool {
	_, ok := l.Keywords[word]
	return ok
}

func keywordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// LangGo is the Go lexical profile.
func LangGo() *Language {
	return &Language{
		Name: "go",
		Keywords: keywordSet(
			"break", "case", "chan", "const", "continue", "default",
			"defer", "else", "fallthrough", "for", "func", "go", "goto",
			"if", "import", "interface", "map", "package", "range",
			"return", "select", "struct", "switch", "type", "var",
		),
		LineComment:       "//",
		BlockCommentOpen:  "/*",
		BlockCommentClose: "*/",
		StringQuotes:      []rune{'"', '\''},
		RawStringDelim:    '`',
	}
}

// LangPython is the Python lexical profile.
func LangPython() *Language {
	return &Language{
		Name: "python",
		Keywords: keywordSet(
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield",
		),
		LineComment:  "#",
		StringQuotes: []rune{'"', '\''},
	}
}

// LangPlain highlights nothing beyond plain text.
func LangPlain() *Language {
	return &Language{Name: "plain"}
}

// Detect picks a language from a file path. Unknown extensions get the
// plain profile.
func Detect(path string) *Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return LangGo()
	case ".py":
		return LangPython()
	default:
		return LangPlain()
	}
}
