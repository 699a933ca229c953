package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/makoedit/mako/internal/engine/buffer"
	"github.com/makoedit/mako/internal/engine/cursor"
	"github.com/makoedit/mako/internal/engine/history"
	"github.com/makoedit/mako/internal/highlight"
	"github.com/makoedit/mako/internal/input/key"
	"github.com/makoedit/mako/internal/lsp"
	"github.com/makoedit/mako/internal/mode"
)

// DefaultPageLines is the page motion stride when no viewport height
// has been reported.
const DefaultPageLines = 40

// Session is the editing core for one open document.
type Session struct {
	mu sync.Mutex

	buf     *buffer.Buffer
	cursors *cursor.CursorSet
	hist    *history.Stack
	modes   *mode.Controller
	hl      *highlight.Highlighter
	bridge  *lsp.Bridge

	logger    *zap.Logger
	hlOpts    []highlight.Option
	path      string
	dirty     bool
	pageLines int
	quit      bool
	notice    string
}

// Option configures a Session.
type Option func(*settings)

type settings struct {
	logger       *zap.Logger
	tabWidth     int
	historyLimit int
	coalesceMS   int
	parseBudget  int
	pageLines    int
}

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTabWidth sets the buffer tab width.
func WithTabWidth(n int) Option {
	return func(s *settings) { s.tabWidth = n }
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option {
	return func(s *settings) { s.historyLimit = n }
}

// WithCoalesceMS sets the undo coalescing idle window in milliseconds.
func WithCoalesceMS(n int) Option {
	return func(s *settings) { s.coalesceMS = n }
}

// WithParseBudget sets the incremental re-highlight line budget.
func WithParseBudget(n int) Option {
	return func(s *settings) { s.parseBudget = n }
}

// New creates a session over an empty, unnamed buffer.
func New(opts ...Option) *Session {
	return build("", "", opts)
}

// Open creates a session over the named file. A missing file opens an
// empty buffer that will be created on the first write.
func Open(path string, opts ...Option) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return build(path, string(data), opts), nil
}

func build(path, text string, opts []Option) *Session {
	cfg := settings{
		logger:       zap.NewNop(),
		tabWidth:     4,
		historyLimit: history.DefaultMaxEntries,
		pageLines:    DefaultPageLines,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		buf:       buffer.NewBufferFromString(text, buffer.WithTabWidth(cfg.tabWidth)),
		cursors:   cursor.NewCursorSetAt(0),
		modes:     mode.NewController(),
		logger:    cfg.logger,
		path:      path,
		pageLines: cfg.pageLines,
	}

	histOpts := []history.Option{
		history.WithMaxEntries(cfg.historyLimit),
		history.WithObserver(s.onReplay),
	}
	if cfg.coalesceMS > 0 {
		histOpts = append(histOpts,
			history.WithCoalesceWindow(durationMS(cfg.coalesceMS)))
	}
	s.hist = history.NewStack(histOpts...)

	s.hlOpts = []highlight.Option{highlight.WithLogger(cfg.logger)}
	if cfg.parseBudget > 0 {
		s.hlOpts = append(s.hlOpts, highlight.WithParseBudget(cfg.parseBudget))
	}
	s.hl = highlight.New(highlight.Detect(path), s.hlOpts...)
	s.hl.Reset(s.buf)

	// Motion and mode switches both end a coalescing run.
	s.modes.OnChange(func(_, _ mode.Mode) { s.hist.Seal() })

	return s
}

// HandleKey routes one key event through the mode controller. The
// controller calls back into the session's editing surface.
func (s *Session) HandleKey(ev key.Event) error {
	return s.modes.HandleEvent(ev, s)
}

// AttachBridge connects a language server bridge. The caller drives
// the handshake; notifications sent before it completes are queued by
// the bridge.
func (s *Session) AttachBridge(b *lsp.Bridge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridge = b
}

// commit is the single write path: apply the group, transform cursors,
// record history, then fan out to highlighting and the bridge.
// Callers hold s.mu.
func (s *Session) commit(group buffer.EditGroup, kind history.Kind, runeCount int) error {
	if len(group) == 0 {
		return nil
	}

	before := s.cursors.All()
	verBefore := s.buf.Version()
	pre := s.buf.Snapshot()

	res, err := s.buf.Apply(group)
	if err != nil {
		return err
	}

	s.cursors.ApplyToSelections(group)
	s.cursors.Clamp(s.buf.Len())

	s.hist.Push(history.Record{
		Group:         group,
		Inverse:       res.Inverse,
		Before:        before,
		After:         s.cursors.All(),
		VersionBefore: verBefore,
		VersionAfter:  res.Version,
		Kind:          kind,
		Mode:          s.modes.Current().String(),
		RuneCount:     runeCount,
	})

	s.hl.OnEdit(s.buf, group)
	s.notifyBridge(pre, group)
	s.dirty = true
	return nil
}

// onReplay mirrors the commit fan-out for groups the undo stack
// replays directly. Runs under s.mu via Undo/Redo.
func (s *Session) onReplay(pre, _ *buffer.Snapshot, group buffer.EditGroup) {
	s.hl.OnEdit(s.buf, group)
	s.notifyBridge(pre, group)
}

func (s *Session) notifyBridge(pre *buffer.Snapshot, group buffer.EditGroup) {
	if s.bridge == nil {
		return
	}
	if err := s.bridge.DidChange(pre, s.buf.Snapshot(), group); err != nil {
		s.logger.Warn("didChange not delivered", zap.Error(err))
	}
}

// Editing surface (mode.Actions)

// InsertText inserts text at every cursor; selections are replaced.
func (s *Session) InsertText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanInsert(text)
	return s.commit(group, history.KindInsert, utf8.RuneCountInString(text))
}

// InsertNewline inserts a line break at every cursor, carrying the
// indentation preceding the cursor onto the new line. An indented break
// is more than one rune and therefore never coalesces.
func (s *Session) InsertNewline() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxRunes := 1
	group := s.cursors.PlanReplace(func(sel cursor.Selection) string {
		line := s.buf.OffsetToPoint(sel.Start()).Line
		start := s.buf.LineStartOffset(line)
		indent := leadingIndent(s.buf.TextRange(start, sel.Start()))
		if n := 1 + utf8.RuneCountInString(indent); n > maxRunes {
			maxRunes = n
		}
		return "\n" + indent
	})

	kind := history.KindInsert
	if maxRunes != 1 {
		kind = history.KindOther
	}
	return s.commit(group, kind, maxRunes)
}

// DeleteBackward deletes one rune before each cursor, or the selected
// range where a selection has extent.
func (s *Session) DeleteBackward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanDeleteBackward(s.runeSizeBefore)
	kind, runes := s.deleteShape(group)
	return s.commit(group, kind, runes)
}

// DeleteForward deletes one rune after each cursor, or the selected
// range where a selection has extent.
func (s *Session) DeleteForward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanDeleteForward(s.runeSizeAfter)
	kind, runes := s.deleteShape(group)
	return s.commit(group, kind, runes)
}

// DeleteWordBackward deletes from each cursor back to the previous
// word start, or the selected range where a selection has extent.
func (s *Session) DeleteWordBackward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanDeleteBackward(func(off buffer.ByteOffset) buffer.ByteOffset {
		return off - s.wordLeft(off)
	})
	kind, runes := s.deleteShape(group)
	return s.commit(group, kind, runes)
}

// DeleteWordForward deletes from each cursor to the next word start,
// or the selected range where a selection has extent.
func (s *Session) DeleteWordForward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanDeleteForward(func(off buffer.ByteOffset) buffer.ByteOffset {
		return s.wordRight(off) - off
	})
	kind, runes := s.deleteShape(group)
	return s.commit(group, kind, runes)
}

// DeleteToLineStart deletes from each cursor to the start of its line.
func (s *Session) DeleteToLineStart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanDeleteBackward(func(off buffer.ByteOffset) buffer.ByteOffset {
		return off - s.buf.LineStartOffset(s.buf.OffsetToPoint(off).Line)
	})
	kind, runes := s.deleteShape(group)
	return s.commit(group, kind, runes)
}

// DeleteToLineEnd deletes from each cursor to the end of its line,
// leaving the line break in place.
func (s *Session) DeleteToLineEnd() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := s.cursors.PlanDeleteForward(func(off buffer.ByteOffset) buffer.ByteOffset {
		return s.buf.LineEndOffset(s.buf.OffsetToPoint(off).Line) - off
	})
	kind, runes := s.deleteShape(group)
	return s.commit(group, kind, runes)
}

// deleteShape classifies a planned delete group for history
// coalescing. Only uniform single-rune deletions coalesce; anything
// wider, a selection or a word, opens its own entry. Runs against the
// pre-apply buffer, so callers compute it before commit.
func (s *Session) deleteShape(group buffer.EditGroup) (history.Kind, int) {
	maxRunes := 0
	for _, e := range group {
		n := utf8.RuneCountInString(s.buf.TextRange(e.Range.Start, e.Range.End))
		if n > maxRunes {
			maxRunes = n
		}
	}
	if maxRunes == 1 {
		return history.KindDelete, 1
	}
	return history.KindOther, maxRunes
}

// Undo reverses the most recent undo entry. An empty stack is a no-op.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.hist.Undo(s.buf, s.cursors)
	if errors.Is(err, history.ErrNothingToUndo) {
		return nil
	}
	if err != nil {
		return err
	}
	s.cursors.Clamp(s.buf.Len())
	s.dirty = true
	return nil
}

// Redo reapplies the most recently undone entry. Empty redo is a no-op.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.hist.Redo(s.buf, s.cursors)
	if errors.Is(err, history.ErrNothingToRedo) {
		return nil
	}
	if err != nil {
		return err
	}
	s.cursors.Clamp(s.buf.Len())
	s.dirty = true
	return nil
}

// Completion requests completions at the primary cursor. The bridge
// remaps the reply through any edits committed while it was in flight.
func (s *Session) Completion(ctx context.Context) (*lsp.CompletionResult, error) {
	s.mu.Lock()
	bridge := s.bridge
	snap := s.buf.Snapshot()
	offset := s.cursors.Primary().Head
	s.mu.Unlock()

	if bridge == nil {
		return nil, errors.New("no language server attached")
	}
	return bridge.Completion(ctx, offset, snap)
}

// Read surface

// Buffer returns the underlying buffer.
func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// Selections returns a copy of the current selections.
func (s *Session) Selections() []cursor.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors.All()
}

// AddCursor adds a cursor at the given offset.
func (s *Session) AddCursor(offset buffer.ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors.Add(cursor.At(offset))
	s.hist.Seal()
}

// Mode returns the active editing mode.
func (s *Session) Mode() mode.Mode { return s.modes.Current() }

// CommandLine returns the pending command-mode input.
func (s *Session) CommandLine() string { return s.modes.CommandLine() }

// TokensFor returns highlight tokens overlapping the range.
func (s *Session) TokensFor(r buffer.Range) []highlight.Token {
	return s.hl.TokensFor(r)
}

// Diagnostics returns current diagnostics remapped to the live buffer.
func (s *Session) Diagnostics() []lsp.Diagnostic {
	s.mu.Lock()
	bridge := s.bridge
	s.mu.Unlock()
	if bridge == nil {
		return nil
	}
	return bridge.Diagnostics()
}

// Path returns the file backing the session, if any.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dirty reports whether the buffer has unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Language returns the detected language for the open file.
func (s *Session) Language() *highlight.Language { return s.hl.Language() }

// ShouldQuit reports whether a quit command was accepted.
func (s *Session) ShouldQuit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quit
}

// Notice returns and clears the most recent status message.
func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notice
	s.notice = ""
	return n
}

// SetNotice records a status message for the next render.
func (s *Session) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

// SetPageLines sets the page motion stride, normally the viewport
// height minus the status rows.
func (s *Session) SetPageLines(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.pageLines = n
	}
}
