package session

import (
	"time"
	"unicode/utf8"

	"github.com/makoedit/mako/internal/engine/buffer"
	"github.com/makoedit/mako/internal/engine/cursor"
	"github.com/makoedit/mako/internal/mode"
)

// Move applies a motion to every cursor. Plain horizontal motion on a
// selection collapses to the selection edge; everything else moves the
// head and, with extend set, leaves the anchor in place. Motion always
// ends the current undo coalescing run.
func (s *Session) Move(m mode.Motion, extend bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sels := s.cursors.All()
	for i, sel := range sels {
		if extend {
			sels[i] = sel.Extend(s.moveOffset(sel.Head, m))
			continue
		}
		if !sel.IsEmpty() && (m == mode.MotionLeft || m == mode.MotionRight) {
			if m == mode.MotionLeft {
				sels[i] = cursor.At(sel.Start())
			} else {
				sels[i] = cursor.At(sel.End())
			}
			continue
		}
		sels[i] = cursor.At(s.moveOffset(sel.Head, m))
	}
	s.cursors.SetAll(sels)
	s.cursors.Clamp(s.buf.Len())
	s.hist.Seal()
	return nil
}

// moveOffset resolves one motion from a head position. Vertical motion
// keeps the byte column, clamped to the target line's length.
func (s *Session) moveOffset(off buffer.ByteOffset, m mode.Motion) buffer.ByteOffset {
	switch m {
	case mode.MotionLeft:
		return off - s.runeSizeBefore(off)
	case mode.MotionRight:
		return off + s.runeSizeAfter(off)
	case mode.MotionLineStart:
		return s.buf.LineStartOffset(s.buf.OffsetToPoint(off).Line)
	case mode.MotionLineEnd:
		return s.buf.LineEndOffset(s.buf.OffsetToPoint(off).Line)
	case mode.MotionUp:
		return s.verticalMove(off, -1)
	case mode.MotionDown:
		return s.verticalMove(off, 1)
	case mode.MotionPageUp:
		return s.verticalMove(off, -s.pageLines)
	case mode.MotionPageDown:
		return s.verticalMove(off, s.pageLines)
	case mode.MotionWordLeft:
		return s.wordLeft(off)
	case mode.MotionWordRight:
		return s.wordRight(off)
	default:
		return off
	}
}

func (s *Session) verticalMove(off buffer.ByteOffset, delta int) buffer.ByteOffset {
	p := s.buf.OffsetToPoint(off)
	target := int(p.Line) + delta
	if target < 0 {
		target = 0
	}
	if last := int(s.buf.LineCount()) - 1; target > last {
		target = last
	}
	return s.buf.PointToOffset(buffer.Point{Line: uint32(target), Column: p.Column})
}

// runeSizeBefore returns the byte width of the rune ending at off,
// or 0 at the start of the buffer.
func (s *Session) runeSizeBefore(off buffer.ByteOffset) buffer.ByteOffset {
	start := off - utf8.UTFMax
	if start < 0 {
		start = 0
	}
	text := s.buf.TextRange(start, off)
	if text == "" {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text)
	return buffer.ByteOffset(size)
}

// runeSizeAfter returns the byte width of the rune starting at off,
// or 0 at the end of the buffer.
func (s *Session) runeSizeAfter(off buffer.ByteOffset) buffer.ByteOffset {
	text := s.buf.TextRange(off, off+utf8.UTFMax)
	if text == "" {
		return 0
	}
	_, size := utf8.DecodeRuneInString(text)
	return buffer.ByteOffset(size)
}

func durationMS(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
