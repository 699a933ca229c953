package lsp

import (
	"github.com/makoedit/mako/internal/engine/buffer"
)

// committedGroup is one edit group in the bridge's committed-edit log,
// tagged with the buffer version it produced.
type committedGroup struct {
	version buffer.Version
	group   buffer.EditGroup
}

// remapThroughGroup maps a pre-group offset forward through one edit
// group. Insertions and deletions entirely before the offset shift it
// by their delta; an edit whose range contains the offset makes it
// unplaceable and the second result is false.
func remapThroughGroup(offset buffer.ByteOffset, group buffer.EditGroup) (buffer.ByteOffset, bool) {
	var shift buffer.ByteOffset
	for _, e := range group.Ascending() {
		switch {
		case e.Range.End <= offset:
			shift += e.Delta()
		case e.Range.Start <= offset && offset < e.Range.End:
			return 0, false
		}
	}
	return offset + shift, true
}

// remapOffset maps an offset captured at fromVersion forward through
// every group in the log committed after it. Returns false if any
// group made the position stale.
func remapOffset(offset buffer.ByteOffset, log []committedGroup, fromVersion buffer.Version) (buffer.ByteOffset, bool) {
	for _, cg := range log {
		if cg.version <= fromVersion {
			continue
		}
		var ok bool
		offset, ok = remapThroughGroup(offset, cg.group)
		if !ok {
			return 0, false
		}
	}
	return offset, true
}

// remapRange maps a [start, end) offset pair forward. The pair is
// stale if either endpoint is.
func remapRange(r buffer.Range, log []committedGroup, fromVersion buffer.Version) (buffer.Range, bool) {
	start, ok := remapOffset(r.Start, log, fromVersion)
	if !ok {
		return buffer.Range{}, false
	}
	end, ok := remapOffset(r.End, log, fromVersion)
	if !ok {
		return buffer.Range{}, false
	}
	if end < start {
		end = start
	}
	return buffer.Range{Start: start, End: end}, true
}
