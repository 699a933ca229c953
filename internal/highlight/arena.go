package highlight

import "github.com/makoedit/mako/internal/engine/buffer"

// nodeID addresses a node in the arena. noNode is the null reference.
type nodeID int32

const noNode nodeID = -1

// node is one tree node. Relations are stored as arena indices so a
// subtree swap never chases or rewrites pointers.
type node struct {
	kind     Kind
	span     buffer.Range
	parent   nodeID
	children []nodeID
}

// arena is a grow-only node store. Line edits append replacement
// subtrees and abandon the old indices; a full re-lex resets the store.
type arena struct {
	nodes []node
}

func newArena() *arena {
	return &arena{nodes: make([]node, 0, 256)}
}

func (a *arena) alloc(n node) nodeID {
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

func (a *arena) get(id nodeID) *node {
	return &a.nodes[id]
}

func (a *arena) reset() {
	a.nodes = a.nodes[:0]
}

// addChild links child under parent, both already allocated.
func (a *arena) addChild(parent, child nodeID) {
	a.nodes[child].parent = parent
	a.nodes[parent].children = append(a.nodes[parent].children, child)
}
