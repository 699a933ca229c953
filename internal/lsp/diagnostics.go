package lsp

import (
	"github.com/makoedit/mako/internal/engine/buffer"
)

// Severity mirrors protocol diagnostic severities.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is a server diagnostic translated into buffer offsets.
type Diagnostic struct {
	Range    buffer.Range
	Severity Severity
	Source   string
	Message  string
}

// diagSet holds one publish batch pinned to the buffer version its
// offsets were computed against. Reads remap forward from here; a
// fresh push replaces the whole set.
type diagSet struct {
	version buffer.Version
	items   []Diagnostic
}
