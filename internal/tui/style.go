package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/makoedit/mako/internal/highlight"
	"github.com/makoedit/mako/internal/lsp"
)

var (
	styleDefault   = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleStatus    = tcell.StyleDefault.Reverse(true).Bold(true)
	styleNotice    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// styleFor maps a token kind to its terminal style.
func styleFor(kind highlight.Kind) tcell.Style {
	switch kind {
	case highlight.KindKeyword:
		return tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	case highlight.KindString:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case highlight.KindNumber:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua)
	case highlight.KindComment:
		return tcell.StyleDefault.Foreground(tcell.ColorGray).Italic(true)
	case highlight.KindPunct:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	default:
		return styleDefault
	}
}

// severityStyle decorates a span carrying a diagnostic.
func severityStyle(base tcell.Style, sev lsp.Severity) tcell.Style {
	switch sev {
	case lsp.SeverityError:
		return base.Underline(true).Foreground(tcell.ColorRed)
	case lsp.SeverityWarning:
		return base.Underline(true).Foreground(tcell.ColorYellow)
	default:
		return base.Underline(true)
	}
}
