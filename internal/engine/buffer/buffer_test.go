package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}

	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}

	if b.Version() != 0 {
		t.Errorf("expected version 0, got %d", b.Version())
	}
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, World!"
	b := NewBufferFromString(text)

	if b.Text() != text {
		t.Errorf("expected %q, got %q", text, b.Text())
	}

	if b.Len() != int64(len(text)) {
		t.Errorf("expected length %d, got %d", len(text), b.Len())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}

	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestNewBufferNormalizesLineEndings(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc\n")

	if b.Text() != "a\nb\nc\n" {
		t.Errorf("expected normalized text, got %q", b.Text())
	}

	if b.LineCount() != 4 {
		t.Errorf("expected 4 lines, got %d", b.LineCount())
	}
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	res, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if b.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.Text())
	}

	if res.Delta != 1 {
		t.Errorf("expected delta 1, got %d", res.Delta)
	}

	if res.Version != 1 {
		t.Errorf("expected version 1, got %d", res.Version)
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, World")

	if _, err := b.Delete(5, 6); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if b.Text() != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", b.Text())
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	if _, err := b.Replace(6, 11, "Gopher"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if b.Text() != "Hello Gopher" {
		t.Errorf("expected 'Hello Gopher', got %q", b.Text())
	}
}

func TestBufferApplyOutOfRange(t *testing.T) {
	b := NewBufferFromString("short")

	_, err := b.Insert(100, "x")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	_, err = b.Delete(3, 100)
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	if b.Text() != "short" {
		t.Errorf("buffer changed after rejected edit: %q", b.Text())
	}

	if b.Version() != 0 {
		t.Errorf("version bumped after rejected edit: %d", b.Version())
	}
}

func TestBufferApplyInvalidRange(t *testing.T) {
	b := NewBufferFromString("hello")

	_, err := b.Apply(EditGroup{NewEdit(Range{Start: 4, End: 2}, "x")})
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestBufferApplyGroup(t *testing.T) {
	b := NewBufferFromString("hello")

	// Two-cursor insertion at offsets 0 and 5, descending order.
	group := EditGroup{
		NewInsert(5, "X"),
		NewInsert(0, "X"),
	}

	res, err := b.Apply(group)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if b.Text() != "XhelloX" {
		t.Errorf("expected 'XhelloX', got %q", b.Text())
	}

	if res.Version != 1 {
		t.Errorf("group must bump version exactly once, got %d", res.Version)
	}
}

func TestBufferApplyGroupOverlap(t *testing.T) {
	b := NewBufferFromString("hello world")

	group := EditGroup{
		NewEdit(Range{Start: 3, End: 8}, "x"),
		NewEdit(Range{Start: 0, End: 5}, "y"),
	}

	if _, err := b.Apply(group); !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap, got %v", err)
	}

	if b.Text() != "hello world" {
		t.Errorf("buffer changed after rejected group: %q", b.Text())
	}
}

func TestBufferApplyInverseRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		group EditGroup
	}{
		{
			name:  "single insert",
			text:  "hello",
			group: EditGroup{NewInsert(2, "XYZ")},
		},
		{
			name:  "single delete",
			text:  "hello world",
			group: EditGroup{NewDelete(3, 8)},
		},
		{
			name: "multi-cursor inserts",
			text: "one\ntwo\nthree",
			group: EditGroup{
				NewInsert(8, "> "),
				NewInsert(4, "> "),
				NewInsert(0, "> "),
			},
		},
		{
			name: "mixed replace and delete",
			text: "alpha beta gamma",
			group: EditGroup{
				NewEdit(Range{Start: 11, End: 16}, "G"),
				NewDelete(5, 10),
			},
		},
		{
			name: "multiline replacement",
			text: "a\nb\nc\nd",
			group: EditGroup{
				NewEdit(Range{Start: 2, End: 5}, "x\ny\nz"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.text)

			res, err := b.Apply(tt.group)
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}

			if _, err := b.Apply(res.Inverse); err != nil {
				t.Fatalf("apply inverse failed: %v", err)
			}

			if b.Text() != tt.text {
				t.Errorf("round trip mismatch:\n  want %q\n  got  %q", tt.text, b.Text())
			}
		})
	}
}

func TestBufferLineIndexAfterEdits(t *testing.T) {
	b := NewBufferFromString("aa\nbb\ncc")

	// Replace "bb" with three lines.
	if _, err := b.Replace(3, 5, "x\ny\nz"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if b.Text() != "aa\nx\ny\nz\ncc" {
		t.Fatalf("unexpected text %q", b.Text())
	}

	if b.LineCount() != 5 {
		t.Errorf("expected 5 lines, got %d", b.LineCount())
	}

	for i, want := range []string{"aa", "x", "y", "z", "cc"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}

	// Delete across a line boundary.
	if _, err := b.Delete(2, 5); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if b.Text() != "aay\nz\ncc" {
		t.Fatalf("unexpected text %q", b.Text())
	}

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
}

func TestBufferOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	tests := []struct {
		offset int64
		want   Point
	}{
		{0, Point{Line: 0, Column: 0}},
		{3, Point{Line: 0, Column: 3}},
		{5, Point{Line: 0, Column: 5}}, // On the newline
		{6, Point{Line: 1, Column: 0}},
		{11, Point{Line: 1, Column: 5}},
		{12, Point{Line: 2, Column: 0}},
		{17, Point{Line: 2, Column: 5}}, // End of buffer
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.want)
		}
		if back := b.PointToOffset(b.OffsetToPoint(tt.offset)); back != tt.offset {
			t.Errorf("PointToOffset round trip for %d gave %d", tt.offset, back)
		}
	}
}

func TestBufferPointToOffsetClamping(t *testing.T) {
	b := NewBufferFromString("ab\ncd")

	if got := b.PointToOffset(Point{Line: 0, Column: 99}); got != 2 {
		t.Errorf("expected clamp to end of line (2), got %d", got)
	}

	if got := b.PointToOffset(Point{Line: 99, Column: 0}); got != 3 {
		t.Errorf("expected clamp to last line start (3), got %d", got)
	}
}

func TestBufferUTF16Conversion(t *testing.T) {
	// "héllo" (é is 2 bytes, 1 UTF-16 unit), "🎉" is 4 bytes, 2 units.
	b := NewBufferFromString("héllo\n🎉x")

	p := b.OffsetToPointUTF16(6) // After "héllo"
	if p != (PointUTF16{Line: 0, Column: 5}) {
		t.Errorf("expected (0:5), got %v", p)
	}

	p = b.OffsetToPointUTF16(11) // After the emoji on line 1
	if p != (PointUTF16{Line: 1, Column: 2}) {
		t.Errorf("expected (1:2), got %v", p)
	}

	off := b.PointUTF16ToOffset(PointUTF16{Line: 1, Column: 2})
	if off != 11 {
		t.Errorf("expected offset 11, got %d", off)
	}
}

func TestBufferSnapshotIsolation(t *testing.T) {
	b := NewBufferFromString("before")
	snap := b.Snapshot()

	if _, err := b.Replace(0, 6, "after"); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if snap.Text() != "before" {
		t.Errorf("snapshot changed after edit: %q", snap.Text())
	}

	if snap.Version() != 0 {
		t.Errorf("snapshot version changed: %d", snap.Version())
	}

	if b.Text() != "after" {
		t.Errorf("buffer text wrong: %q", b.Text())
	}
}

func TestBufferVersionMonotonic(t *testing.T) {
	b := NewBufferFromString("x")

	for i := 1; i <= 5; i++ {
		res, err := b.Insert(0, "y")
		if err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
		if res.Version != Version(i) {
			t.Errorf("expected version %d, got %d", i, res.Version)
		}
	}

	// An empty group is a no-op and must not bump the version.
	res, err := b.Apply(nil)
	if err != nil {
		t.Fatalf("empty apply failed: %v", err)
	}
	if res.Version != 5 {
		t.Errorf("empty group bumped version to %d", res.Version)
	}
}

func TestBufferConcurrentReads(t *testing.T) {
	b := NewBufferFromString(strings.Repeat("line\n", 100))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Text()
				_ = b.OffsetToPoint(int64(j))
				_ = b.LineText(uint32(j % 100))
			}
		}()
	}

	for i := 0; i < 50; i++ {
		if _, err := b.Insert(0, "x"); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	wg.Wait()
}
