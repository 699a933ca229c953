package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// Buffer holds document content with a line-start index.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu       sync.RWMutex
	content  []byte
	starts   []ByteOffset
	version  Version
	tabWidth int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		content:  nil,
		starts:   []ByteOffset{0},
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	s = normalizeLineEndings(s)
	b.content = []byte(s)
	b.starts = buildLineStarts(b.content)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.content)
}

// TextRange returns text in the given byte range, clamped to bounds.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := ByteOffset(len(b.content))
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return string(b.content[start:end])
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.content))
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.starts))
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end := b.lineSpanLocked(line)
	return string(b.content[start:end])
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, _ := b.lineSpanLocked(line)
	return start
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, end := b.lineSpanLocked(line)
	return end
}

// lineSpanLocked returns the [start,end) span of a line excluding its
// trailing newline. Out-of-range lines clamp to the last line.
func (b *Buffer) lineSpanLocked(line uint32) (ByteOffset, ByteOffset) {
	if int(line) >= len(b.starts) {
		line = uint32(len(b.starts) - 1)
	}
	start := b.starts[line]
	var end ByteOffset
	if int(line)+1 < len(b.starts) {
		end = b.starts[line+1] - 1 // Strip the newline
	} else {
		end = ByteOffset(len(b.content))
	}
	return start, end
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
// Offsets are clamped to [0, Len].
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset = clampOffset(offset, ByteOffset(len(b.content)))
	line := lineForOffset(b.starts, offset)
	return Point{
		Line:   uint32(line),
		Column: uint32(offset - b.starts[line]),
	}
}

// PointToOffset converts line/column to byte offset.
// Points beyond end of line clamp to the end of that line.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start, end := b.lineSpanLocked(p.Line)
	offset := start + ByteOffset(p.Column)
	if int(p.Line)+1 < len(b.starts) {
		if offset > end {
			offset = end
		}
	} else if offset > ByteOffset(len(b.content)) {
		offset = ByteOffset(len(b.content))
	}
	return offset
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset = clampOffset(offset, ByteOffset(len(b.content)))
	line := lineForOffset(b.starts, offset)
	prefix := b.content[b.starts[line]:offset]
	return PointUTF16{
		Line:   uint32(line),
		Column: utf16Len(string(prefix)),
	}
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (b *Buffer) PointUTF16ToOffset(p PointUTF16) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start, end := b.lineSpanLocked(p.Line)
	lineText := string(b.content[start:end])
	return start + ByteOffset(utf16ToByteColumn(lineText, p.Column))
}

// Write Operations

// Apply applies an edit group atomically: either every edit commits and
// the version bumps exactly once, or the buffer is left untouched.
// Edits must be sorted descending by start offset and non-overlapping.
// The result carries the inverse group that exactly reverses the commit.
func (b *Buffer) Apply(group EditGroup) (ApplyResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(group) == 0 {
		return ApplyResult{Version: b.version}, nil
	}
	if !group.InDescendingOrder() {
		return ApplyResult{}, ErrEditsOverlap
	}

	n := ByteOffset(len(b.content))
	for _, e := range group {
		if !e.Range.IsValid() {
			return ApplyResult{}, ErrRangeInvalid
		}
		if e.Range.Start < 0 || e.Range.End > n {
			return ApplyResult{}, ErrOffsetOutOfRange
		}
	}

	inverse := b.inverseLocked(group)

	for _, e := range group {
		b.content = spliceBytes(b.content, e.Range, e.NewText)
		b.starts = spliceLineStarts(b.starts, e.Range, e.NewText)
	}
	b.version++

	return ApplyResult{
		Inverse: inverse,
		Delta:   group.Delta(),
		Version: b.version,
	}, nil
}

// Insert inserts text at the given offset as a single-edit group.
func (b *Buffer) Insert(offset ByteOffset, text string) (ApplyResult, error) {
	return b.Apply(EditGroup{NewInsert(offset, text)})
}

// Delete removes text in the given range as a single-edit group.
func (b *Buffer) Delete(start, end ByteOffset) (ApplyResult, error) {
	return b.Apply(EditGroup{NewDelete(start, end)})
}

// Replace replaces text in the given range as a single-edit group.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ApplyResult, error) {
	return b.Apply(EditGroup{NewEdit(Range{Start: start, End: end}, text)})
}

// inverseLocked computes the group reversing the not-yet-applied group.
// Walking ascending with a running delta places each inverse range in
// post-apply coordinates; the result is returned in descending order.
func (b *Buffer) inverseLocked(group EditGroup) EditGroup {
	inverse := make(EditGroup, 0, len(group))
	var delta ByteOffset
	for _, e := range group.Ascending() {
		start := e.Range.Start + delta
		inverse = append(inverse, Edit{
			Range:   Range{Start: start, End: start + ByteOffset(len(e.NewText))},
			NewText: string(b.content[e.Range.Start:e.Range.End]),
		})
		delta += e.Delta()
	}
	// Reverse into descending order.
	for i, j := 0, len(inverse)-1; i < j; i, j = i+1, j-1 {
		inverse[i], inverse[j] = inverse[j], inverse[i]
	}
	return inverse
}

// Buffer State

// Version returns the current buffer version.
func (b *Buffer) Version() Version {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		content: string(b.content),
		starts:  append([]ByteOffset(nil), b.starts...),
		version: b.version,
	}
}

func clampOffset(offset, max ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// UTF-16 helpers

// utf16Len counts UTF-16 code units in a string.
func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		if r >= 0x10000 {
			n += 2 // Surrogate pair
		} else {
			n++
		}
	}
	return n
}

// utf16ToByteColumn converts a UTF-16 column to a byte offset within a line.
func utf16ToByteColumn(line string, utf16Col uint32) int {
	var col uint32
	var byteOff int
	for _, r := range line {
		if col >= utf16Col {
			break
		}
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
		byteOff += utf8.RuneLen(r)
	}
	return byteOff
}
