package highlight

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/makoedit/mako/internal/engine/buffer"
)

// DefaultParseBudget caps how many lines one edit may re-lex before
// the highlighter gives up and re-lexes the whole document.
const DefaultParseBudget = 512

// lineEntry tracks one line's subtree and the lexer state it starts in.
// The entry state is how cross-line constructs propagate: a line whose
// stored entry state matches the incoming state needs no re-lex.
type lineEntry struct {
	entry lexState
	node  nodeID
}

// Highlighter maintains the incremental token tree for one buffer.
type Highlighter struct {
	mu sync.Mutex

	lang   *Language
	budget int
	logger *zap.Logger

	arena *arena
	root  nodeID
	lines []lineEntry

	fullRelexes int
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithParseBudget caps per-edit re-lex propagation in lines.
func WithParseBudget(lines int) Option {
	return func(h *Highlighter) {
		if lines > 0 {
			h.budget = lines
		}
	}
}

// WithLogger sets the logger used for budget-fallback diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a highlighter for the given language profile.
func New(lang *Language, opts ...Option) *Highlighter {
	h := &Highlighter{
		lang:   lang,
		budget: DefaultParseBudget,
		logger: zap.NewNop(),
		arena:  newArena(),
		root:   noNode,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Language returns the active language profile.
func (h *Highlighter) Language() *Language {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lang
}

// Reset lexes the whole document from scratch. Call it once after load
// and on language changes.
func (h *Highlighter) Reset(buf *buffer.Buffer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.relexAllLocked(buf)
}

// OnEdit re-lexes the minimal line span covering a committed edit
// group, extended while the carried lexer state disagrees with what
// following lines last started in. Returns the invalidated spans.
// Exceeding the re-parse budget falls back to a full re-lex; that is a
// recovered condition, not an error.
func (h *Highlighter) OnEdit(buf *buffer.Buffer, group buffer.EditGroup) []buffer.Range {
	if len(group) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.lines) == 0 {
		return h.relexAllLocked(buf)
	}

	oldCount := len(h.lines)
	newCount := int(buf.LineCount())
	linesAdded := newCount - oldCount

	// Bounds of the group in post-apply coordinates. Edits are walked
	// ascending with a running shift, mirroring how the buffer applied
	// them.
	minStart := buffer.ByteOffset(-1)
	var maxNewEnd, shift buffer.ByteOffset
	for _, e := range group.Ascending() {
		if minStart < 0 || e.Range.Start < minStart {
			minStart = e.Range.Start
		}
		if end := e.Range.Start + shift + buffer.ByteOffset(len(e.NewText)); end > maxNewEnd {
			maxNewEnd = end
		}
		shift += e.Delta()
	}

	firstLine := int(buf.OffsetToPoint(minStart).Line)
	lastLine := int(buf.OffsetToPoint(maxNewEnd).Line)
	newSpan := lastLine - firstLine + 1
	oldSpan := newSpan - linesAdded

	if firstLine >= oldCount || oldSpan < 0 || firstLine+oldSpan > oldCount {
		// Line bookkeeping diverged from the buffer; resync completely.
		return h.relexAllLocked(buf)
	}

	startState := h.lines[firstLine].entry

	// Splice placeholder entries for the replaced line span.
	tail := append([]lineEntry(nil), h.lines[firstLine+oldSpan:]...)
	h.lines = append(h.lines[:firstLine], make([]lineEntry, newSpan)...)
	h.lines = append(h.lines, tail...)
	if len(h.lines) != newCount {
		return h.relexAllLocked(buf)
	}

	state := startState
	relexed := 0
	line := firstLine
	for line < newCount {
		if line > lastLine && h.lines[line].entry == state {
			break
		}
		if relexed >= h.budget {
			h.fullRelexes++
			h.logger.Debug("re-parse budget exceeded, falling back to full re-lex",
				zap.Int("budget", h.budget),
				zap.Int("first_line", firstLine))
			return h.relexAllLocked(buf)
		}
		state = h.relexLineLocked(buf, line, state)
		relexed++
		line++
	}

	h.rebuildRootLocked(buf)

	start := buf.LineStartOffset(uint32(firstLine))
	end := buf.LineEndOffset(uint32(line - 1))
	return []buffer.Range{{Start: start, End: end}}
}

// TokensFor returns the ordered tokens intersecting the visible range.
func (h *Highlighter) TokensFor(r buffer.Range) []Token {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.root == noNode || len(h.lines) == 0 {
		return nil
	}

	// First line whose span ends past the range start.
	first := sort.Search(len(h.lines), func(i int) bool {
		return h.arena.get(h.lines[i].node).span.End >= r.Start
	})

	var out []Token
	for i := first; i < len(h.lines); i++ {
		lineNode := h.arena.get(h.lines[i].node)
		if lineNode.span.Start > r.End {
			break
		}
		for _, id := range lineNode.children {
			tok := h.arena.get(id)
			if tok.span.Overlaps(r) {
				out = append(out, Token{Kind: tok.kind, Range: tok.span})
			}
		}
	}
	return out
}

// FullRelexes reports how many edits fell back to a full re-lex.
func (h *Highlighter) FullRelexes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fullRelexes
}

// relexLineLocked replaces one line's subtree in the arena and returns
// the state the line ends in.
func (h *Highlighter) relexLineLocked(buf *buffer.Buffer, line int, state lexState) lexState {
	base := buf.LineStartOffset(uint32(line))
	end := buf.LineEndOffset(uint32(line))
	tokens, exit := lexLine(h.lang, buf.LineText(uint32(line)), base, state)

	id := h.arena.alloc(node{span: buffer.Range{Start: base, End: end}, parent: noNode})
	for _, t := range tokens {
		child := h.arena.alloc(node{kind: t.Kind, span: t.Range, parent: id})
		h.arena.addChild(id, child)
	}
	h.lines[line] = lineEntry{entry: state, node: id}
	return exit
}

// relexAllLocked rebuilds the whole tree. The arena is reset so the
// abandoned incremental subtrees do not accumulate.
func (h *Highlighter) relexAllLocked(buf *buffer.Buffer) []buffer.Range {
	h.arena.reset()
	h.root = h.arena.alloc(node{span: buffer.Range{Start: 0, End: buf.Len()}, parent: noNode})

	count := int(buf.LineCount())
	h.lines = make([]lineEntry, count)
	state := stateCode
	for i := 0; i < count; i++ {
		state = h.relexLineLocked(buf, i, state)
	}
	h.rebuildRootLocked(buf)
	return []buffer.Range{{Start: 0, End: buf.Len()}}
}

// rebuildRootLocked repoints the root's child indices at the current
// line nodes.
func (h *Highlighter) rebuildRootLocked(buf *buffer.Buffer) {
	root := h.arena.get(h.root)
	root.span = buffer.Range{Start: 0, End: buf.Len()}
	root.children = root.children[:0]
	for _, le := range h.lines {
		root.children = append(root.children, le.node)
		h.arena.get(le.node).parent = h.root
	}
}
