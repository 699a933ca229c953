package highlight

import (
	"strings"
	"testing"

	"github.com/makoedit/mako/internal/engine/buffer"
)

func apply(t *testing.T, buf *buffer.Buffer, group buffer.EditGroup) {
	t.Helper()
	if _, err := buf.Apply(group); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
}

// fullRange spans the whole buffer.
func fullRange(buf *buffer.Buffer) buffer.Range {
	return buffer.Range{Start: 0, End: buf.Len()}
}

// kindsAt collects the kinds of all tokens covering offset.
func kindsAt(h *Highlighter, buf *buffer.Buffer, offset buffer.ByteOffset) []Kind {
	var kinds []Kind
	for _, tok := range h.TokensFor(fullRange(buf)) {
		if tok.Range.Contains(offset) {
			kinds = append(kinds, tok.Kind)
		}
	}
	return kinds
}

func hasKindAt(h *Highlighter, buf *buffer.Buffer, offset buffer.ByteOffset, kind Kind) bool {
	for _, k := range kindsAt(h, buf, offset) {
		if k == kind {
			return true
		}
	}
	return false
}

func TestFullLexGoSnippet(t *testing.T) {
	src := "package main\n\nfunc main() {\n\tx := \"hi\" // greeting\n}\n"
	buf := buffer.NewBufferFromString(src)
	h := New(LangGo())
	h.Reset(buf)

	tokens := h.TokensFor(fullRange(buf))
	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}

	// "package" keyword at offset 0.
	if !hasKindAt(h, buf, 0, KindKeyword) {
		t.Error("expected keyword at offset 0")
	}
	// String literal "hi".
	off := buffer.ByteOffset(strings.Index(src, `"hi"`))
	if !hasKindAt(h, buf, off, KindString) {
		t.Error("expected string token at quote")
	}
	// Line comment.
	off = buffer.ByteOffset(strings.Index(src, "// greeting"))
	if !hasKindAt(h, buf, off, KindComment) {
		t.Error("expected comment token")
	}
}

func TestTokensAreOrdered(t *testing.T) {
	buf := buffer.NewBufferFromString("func foo() int {\n\treturn 42\n}\n")
	h := New(LangGo())
	h.Reset(buf)

	tokens := h.TokensFor(fullRange(buf))
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Range.Start < tokens[i-1].Range.Start {
			t.Fatalf("tokens out of order at %d: %v then %v", i, tokens[i-1], tokens[i])
		}
	}
}

func TestTokensForClipsToRange(t *testing.T) {
	buf := buffer.NewBufferFromString("aaa\nbbb\nccc\n")
	h := New(LangGo())
	h.Reset(buf)

	// Only line 1 ("bbb", offsets 4..7).
	tokens := h.TokensFor(buffer.Range{Start: 4, End: 7})
	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %v", tokens)
	}
	if tokens[0].Range.Start != 4 || tokens[0].Range.End != 7 {
		t.Errorf("unexpected token span %v", tokens[0].Range)
	}
}

func TestIncrementalEditInvalidatesOnlyAffectedLine(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString("var x = 1\n")
	}
	buf := buffer.NewBufferFromString(b.String())
	h := New(LangGo())
	h.Reset(buf)

	// Edit line 50 (offsets 500..510).
	group := buffer.EditGroup{buffer.NewInsert(504, "yz")}
	apply(t, buf, group)
	spans := h.OnEdit(buf, group)

	if len(spans) != 1 {
		t.Fatalf("expected 1 invalidated span, got %v", spans)
	}
	if spans[0].Start != 500 || spans[0].End > 512 {
		t.Errorf("invalidated span %v reaches beyond the edited line", spans[0])
	}
	if h.FullRelexes() != 0 {
		t.Errorf("single-line edit must not trigger a full re-lex")
	}
}

func TestIncrementalMatchesFullRelex(t *testing.T) {
	src := "package main\n\nfunc f() {\n\ts := `raw\nstill raw`\n\t_ = s\n}\n"
	buf := buffer.NewBufferFromString(src)
	h := New(LangGo())
	h.Reset(buf)

	edits := []buffer.EditGroup{
		{buffer.NewInsert(13, "// note\n")},
		{buffer.NewDelete(0, 8)},
		buffer.NewGroup(buffer.NewInsert(2, "zz"), buffer.NewInsert(20, "q")),
	}

	for _, group := range edits {
		apply(t, buf, group)
		h.OnEdit(buf, group)
	}

	// Oracle: a fresh highlighter over the final text.
	oracle := New(LangGo())
	oracle.Reset(buf)

	got := h.TokensFor(fullRange(buf))
	want := oracle.TokensFor(fullRange(buf))

	if len(got) != len(want) {
		t.Fatalf("incremental %d tokens, full re-lex %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: incremental %v, full %v", i, got[i], want[i])
		}
	}
}

func TestBlockCommentPropagatesForward(t *testing.T) {
	src := "x := 1\ny := 2\nz := 3\n"
	buf := buffer.NewBufferFromString(src)
	h := New(LangGo())
	h.Reset(buf)

	// Open an unterminated block comment on the first line. Every
	// following line must now lex as comment.
	group := buffer.EditGroup{buffer.NewInsert(0, "/* ")}
	apply(t, buf, group)
	h.OnEdit(buf, group)

	zOff := buffer.ByteOffset(strings.Index(buf.Text(), "z :="))
	if !hasKindAt(h, buf, zOff, KindComment) {
		t.Error("expected trailing line inside open block comment to lex as comment")
	}

	// Closing the comment on line 0 restores the trailing lines.
	group = buffer.EditGroup{buffer.NewInsert(6, " */")}
	apply(t, buf, group)
	h.OnEdit(buf, group)

	zOff = buffer.ByteOffset(strings.Index(buf.Text(), "z :="))
	if hasKindAt(h, buf, zOff, KindComment) {
		t.Error("expected trailing line to leave comment state after close")
	}
}

func TestParseBudgetFallsBackToFullRelex(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("var line = 1\n")
	}
	buf := buffer.NewBufferFromString(b.String())
	h := New(LangGo(), WithParseBudget(4))
	h.Reset(buf)

	// An open block comment at the top propagates through all 50
	// lines, blowing the 4-line budget.
	group := buffer.EditGroup{buffer.NewInsert(0, "/* ")}
	apply(t, buf, group)
	spans := h.OnEdit(buf, group)

	if h.FullRelexes() != 1 {
		t.Fatalf("expected exactly one full re-lex, got %d", h.FullRelexes())
	}
	if len(spans) != 1 || spans[0].Start != 0 || spans[0].End != buf.Len() {
		t.Errorf("full re-lex must invalidate the whole document, got %v", spans)
	}

	// The fallback is a recovery, not a failure: tokens are correct.
	last := buffer.ByteOffset(strings.LastIndex(buf.Text(), "var"))
	if !hasKindAt(h, buf, last, KindComment) {
		t.Error("expected final line to lex as comment after fallback")
	}
}

func TestNewlineInsertionSplitsLine(t *testing.T) {
	buf := buffer.NewBufferFromString("alpha beta\n")
	h := New(LangGo())
	h.Reset(buf)

	group := buffer.EditGroup{buffer.NewInsert(5, "\n")}
	apply(t, buf, group)
	h.OnEdit(buf, group)

	oracle := New(LangGo())
	oracle.Reset(buf)

	got := h.TokensFor(fullRange(buf))
	want := oracle.TokensFor(fullRange(buf))
	if len(got) != len(want) {
		t.Fatalf("incremental %v, full %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: incremental %v, full %v", i, got[i], want[i])
		}
	}
}

func TestLineJoinDeletion(t *testing.T) {
	buf := buffer.NewBufferFromString("one\ntwo\nthree\n")
	h := New(LangGo())
	h.Reset(buf)

	// Delete the newline joining lines 0 and 1.
	group := buffer.EditGroup{buffer.NewDelete(3, 4)}
	apply(t, buf, group)
	h.OnEdit(buf, group)

	oracle := New(LangGo())
	oracle.Reset(buf)

	got := h.TokensFor(fullRange(buf))
	want := oracle.TokensFor(fullRange(buf))
	if len(got) != len(want) {
		t.Fatalf("incremental %v, full %v", got, want)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"script.py", "python"},
		{"notes.txt", "plain"},
		{"Makefile", "plain"},
	}
	for _, tt := range tests {
		if got := Detect(tt.path).Name; got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
