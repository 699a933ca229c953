package buffer

// Snapshot provides a read-only view of a buffer at a specific point in
// time. It is safe for concurrent access and will not change even if
// the original buffer is modified. The LSP bridge captures a snapshot
// at request-send time so server positions can be interpreted against
// the exact text the server saw.
type Snapshot struct {
	content string
	starts  []ByteOffset
	version Version
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return s.content
}

// TextRange returns text in the given byte range, clamped to bounds.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	n := ByteOffset(len(s.content))
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return s.content[start:end]
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.content))
}

// Version returns the buffer version the snapshot was taken at.
func (s *Snapshot) Version() Version {
	return s.version
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.starts))
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	offset = clampOffset(offset, ByteOffset(len(s.content)))
	line := lineForOffset(s.starts, offset)
	return Point{
		Line:   uint32(line),
		Column: uint32(offset - s.starts[line]),
	}
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column.
func (s *Snapshot) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	offset = clampOffset(offset, ByteOffset(len(s.content)))
	line := lineForOffset(s.starts, offset)
	return PointUTF16{
		Line:   uint32(line),
		Column: utf16Len(s.content[s.starts[line]:offset]),
	}
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (s *Snapshot) PointUTF16ToOffset(p PointUTF16) ByteOffset {
	line := int(p.Line)
	if line >= len(s.starts) {
		line = len(s.starts) - 1
	}
	start := s.starts[line]
	end := ByteOffset(len(s.content))
	if line+1 < len(s.starts) {
		end = s.starts[line+1] - 1
	}
	return start + ByteOffset(utf16ToByteColumn(s.content[start:end], p.Column))
}
