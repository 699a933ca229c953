package highlight

import "github.com/makoedit/mako/internal/engine/buffer"

// Kind classifies a token for styling.
type Kind uint8

const (
	KindText Kind = iota
	KindKeyword
	KindIdent
	KindNumber
	KindString
	KindComment
	KindPunct
)

// String returns the kind name used in themes and logs.
func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindIdent:
		return "ident"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindComment:
		return "comment"
	case KindPunct:
		return "punct"
	default:
		return "text"
	}
}

// Token is one highlighted span in buffer offsets.
type Token struct {
	Kind  Kind
	Range buffer.Range
}
