package buffer

import (
	"sort"
	"strings"
)

// lineStarts is the line-start index: an ascending slice of byte
// offsets, one per line, with lineStarts[0] always 0. A newline byte at
// offset i opens a new line starting at i+1. Line lookups are binary
// searches; edits splice the affected span and shift the tail.

// buildLineStarts scans content once and returns its line-start index.
func buildLineStarts(content []byte) []ByteOffset {
	starts := make([]ByteOffset, 1, 16)
	starts[0] = 0
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, ByteOffset(i)+1)
		}
	}
	return starts
}

// lineForOffset returns the index of the line containing offset.
// The offset must already be clamped to [0, len(content)].
func lineForOffset(starts []ByteOffset, offset ByteOffset) int {
	// First line whose start is beyond the offset, minus one.
	i := sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	})
	return i - 1
}

// spliceLineStarts updates the index for an edit replacing r with
// newText. Line starts opened by newlines inside the replaced range
// fall in (r.Start, r.End] and are removed; newlines in the replacement
// open starts at r.Start+i+1; every start past the edit shifts by the
// edit's delta. Only the affected span is rebuilt.
func spliceLineStarts(starts []ByteOffset, r Range, newText string) []ByteOffset {
	lo := sort.Search(len(starts), func(i int) bool {
		return starts[i] > r.Start
	})
	hi := sort.Search(len(starts), func(i int) bool {
		return starts[i] > r.End
	})

	var added []ByteOffset
	if strings.IndexByte(newText, '\n') >= 0 {
		for i := 0; i < len(newText); i++ {
			if newText[i] == '\n' {
				added = append(added, r.Start+ByteOffset(i)+1)
			}
		}
	}

	delta := ByteOffset(len(newText)) - r.Len()
	if delta != 0 {
		for i := hi; i < len(starts); i++ {
			starts[i] += delta
		}
	}

	if len(added) == hi-lo {
		copy(starts[lo:hi], added)
		return starts
	}

	out := make([]ByteOffset, 0, len(starts)-(hi-lo)+len(added))
	out = append(out, starts[:lo]...)
	out = append(out, added...)
	out = append(out, starts[hi:]...)
	return out
}

// spliceBytes replaces content[r.Start:r.End] with newText.
func spliceBytes(content []byte, r Range, newText string) []byte {
	delta := int(ByteOffset(len(newText)) - r.Len())
	if delta == 0 {
		copy(content[r.Start:r.End], newText)
		return content
	}
	out := make([]byte, 0, len(content)+delta)
	out = append(out, content[:r.Start]...)
	out = append(out, newText...)
	out = append(out, content[r.End:]...)
	return out
}
