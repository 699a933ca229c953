package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/makoedit/mako/internal/engine/buffer"
	"github.com/makoedit/mako/internal/engine/cursor"
	"github.com/makoedit/mako/internal/highlight"
	"github.com/makoedit/mako/internal/input/key"
	"github.com/makoedit/mako/internal/lsp"
	"github.com/makoedit/mako/internal/mode"
	"github.com/makoedit/mako/internal/session"
)

// completionTimeout bounds one completion round trip.
const completionTimeout = 2 * time.Second

// UI owns the terminal screen for one session.
type UI struct {
	screen  tcell.Screen
	sess    *session.Session
	logger  *zap.Logger
	topLine int
	notice  string
}

// New initializes the terminal.
func New(sess *session.Session, logger *zap.Logger) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(screen, sess, logger), nil
}

// NewWithScreen wraps an already initialized screen. Tests pass a
// simulation screen here.
func NewWithScreen(screen tcell.Screen, sess *session.Session, logger *zap.Logger) *UI {
	return &UI{screen: screen, sess: sess, logger: logger}
}

// Close restores the terminal.
func (u *UI) Close() {
	u.screen.Fini()
}

// Run drives the event loop until the session quits or the context is
// canceled.
func (u *UI) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	u.syncPageLines()
	u.Render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			u.handle(ev)
			if u.sess.ShouldQuit() {
				return nil
			}
			u.Render()
		}
	}
}

func (u *UI) handle(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
		u.syncPageLines()
	case *tcell.EventInterrupt:
		// Posted by a finished completion round trip; the loop redraws
		// after handle returns, which surfaces the new notice.
	case *tcell.EventKey:
		kev := key.FromTcell(tev)
		if kev.Rune == 'n' && kev.Modifiers.HasCtrl() && u.sess.Mode() == mode.ModeEdit {
			u.requestCompletion()
			return
		}
		if err := u.sess.HandleKey(kev); err != nil {
			u.sess.SetNotice(err.Error())
		}
	}
}

// requestCompletion asks the language server for completions at the
// primary cursor and surfaces the first label on the status line. The
// round trip runs off the event loop so typing stays live while the
// request is in flight; the bridge remaps the reply through whatever
// was typed meanwhile. The result arrives as a notice behind an
// interrupt event that wakes the loop for a redraw.
func (u *UI) requestCompletion() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
		defer cancel()

		res, err := u.sess.Completion(ctx)
		switch {
		case errors.Is(err, lsp.ErrSuperseded) || errors.Is(err, lsp.ErrStaleResponse):
			return
		case err != nil:
			u.sess.SetNotice(err.Error())
		case len(res.Items) == 0:
			u.sess.SetNotice("no completions")
		default:
			u.sess.SetNotice(fmt.Sprintf("%s (%d more)", res.Items[0].Label, len(res.Items)-1))
		}
		// A full queue only delays the redraw until the next input event.
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
}

func (u *UI) syncPageLines() {
	_, h := u.screen.Size()
	if h > 1 {
		u.sess.SetPageLines(h - 1)
	}
}

// Render redraws the full screen: the visible buffer window plus one
// status row.
func (u *UI) Render() {
	if msg := u.sess.Notice(); msg != "" {
		u.notice = msg
	}

	u.screen.Clear()
	w, h := u.screen.Size()
	if w == 0 || h == 0 {
		u.screen.Show()
		return
	}
	textRows := h - 1

	buf := u.sess.Buffer()
	primary := u.sess.Selections()[0]
	u.scrollTo(buf, primary.Head, textRows)

	last := u.topLine + textRows - 1
	if max := int(buf.LineCount()) - 1; last > max {
		last = max
	}

	for line := u.topLine; line <= last; line++ {
		u.drawLine(buf, uint32(line), line-u.topLine, w)
	}

	u.drawStatus(w, h-1)
	u.placeCursor(buf, primary.Head, textRows)
	u.screen.Show()
}

// scrollTo keeps the primary cursor inside the text window.
func (u *UI) scrollTo(buf *buffer.Buffer, head buffer.ByteOffset, textRows int) {
	line := int(buf.OffsetToPoint(head).Line)
	if line < u.topLine {
		u.topLine = line
	}
	if line >= u.topLine+textRows {
		u.topLine = line - textRows + 1
	}
	if u.topLine < 0 {
		u.topLine = 0
	}
}

func (u *UI) drawLine(buf *buffer.Buffer, line uint32, row, width int) {
	start := buf.LineStartOffset(line)
	end := buf.LineEndOffset(line)
	text := buf.TextRange(start, end)
	span := buffer.Range{Start: start, End: end}

	tokens := u.sess.TokensFor(span)
	diags := u.sess.Diagnostics()
	sels := u.sess.Selections()

	col := 0
	off := start
	for _, r := range text {
		if col >= width {
			break
		}
		style := styleAt(off, tokens, diags, sels)
		if r == '\t' {
			tw := buf.TabWidth()
			for i := 0; i < tw && col < width; i++ {
				u.screen.SetContent(col, row, ' ', nil, style)
				col++
			}
		} else {
			u.screen.SetContent(col, row, r, nil, style)
			col++
		}
		off += buffer.ByteOffset(len(string(r)))
	}
}

// styleAt resolves the style for one buffer offset: token color, then
// selection reverse, then diagnostic underline.
func styleAt(off buffer.ByteOffset, tokens []highlight.Token, diags []lsp.Diagnostic, sels []cursor.Selection) tcell.Style {
	style := styleDefault
	for _, tok := range tokens {
		if tok.Range.Start <= off && off < tok.Range.End {
			style = styleFor(tok.Kind)
			break
		}
	}
	for _, sel := range sels {
		if !sel.IsEmpty() && sel.Start() <= off && off < sel.End() {
			style = style.Reverse(true)
			break
		}
	}
	for _, d := range diags {
		if d.Range.Start <= off && off < d.Range.End {
			style = severityStyle(style, d.Severity)
			break
		}
	}
	return style
}

func (u *UI) drawStatus(width, row int) {
	left := fmt.Sprintf(" %s ", u.sess.Mode())
	if u.sess.Mode() == mode.ModeCommand {
		left += ":" + u.sess.CommandLine()
	}

	path := u.sess.Path()
	if path == "" {
		path = "[no name]"
	}
	dirty := ""
	if u.sess.Dirty() {
		dirty = " [+]"
	}
	diagCount := len(u.sess.Diagnostics())
	right := fmt.Sprintf("%s%s", path, dirty)
	if diagCount > 0 {
		right = fmt.Sprintf("%s  !%d", right, diagCount)
	}
	if u.notice != "" {
		right = u.notice
	}

	line := left
	for len(line) < width-len(right)-1 {
		line += " "
	}
	line += right

	col := 0
	for _, r := range line {
		if col >= width {
			break
		}
		style := styleStatus
		if u.notice != "" && col >= len(left) {
			style = styleNotice.Reverse(true)
		}
		u.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		u.screen.SetContent(col, row, ' ', nil, styleStatus)
	}
}

func (u *UI) placeCursor(buf *buffer.Buffer, head buffer.ByteOffset, textRows int) {
	p := buf.OffsetToPoint(head)
	row := int(p.Line) - u.topLine
	if row < 0 || row >= textRows {
		u.screen.HideCursor()
		return
	}
	u.screen.ShowCursor(int(p.Column), row)
}
