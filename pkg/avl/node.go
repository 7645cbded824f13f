package avl

import "cmp"

// nodeID addresses a slot in the tree's arena. The zero value is the
// sentinel slot and stands for an absent node.
type nodeID uint32

const none nodeID = 0

// node represents a vertex in the AVL tree. left and right own the
// children by index; parent is a back-reference only.
type node[K cmp.Ordered] struct {
	key    K
	left   nodeID
	right  nodeID
	parent nodeID
	height int
}

// alloc takes a slot from the free list or grows the arena.
// Pointers into t.nodes must not be held across a call to alloc.
func (t *Tree[K]) alloc(key K) nodeID {
	if len(t.nodes) == 0 {
		t.nodes = append(t.nodes, node[K]{})
	}
	var id nodeID
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.nodes = append(t.nodes, node[K]{})
		id = nodeID(len(t.nodes) - 1)
	}
	t.nodes[id] = node[K]{key: key}
	return id
}

func (t *Tree[K]) release(id nodeID) {
	t.nodes[id] = node[K]{}
	t.free = append(t.free, id)
}

// replaceChild points whatever referenced old (parent link or root) at x.
func (t *Tree[K]) replaceChild(parent, old, x nodeID) {
	switch {
	case parent == none:
		t.root = x
	case t.nodes[parent].left == old:
		t.nodes[parent].left = x
	default:
		t.nodes[parent].right = x
	}
	if x != none {
		t.nodes[x].parent = parent
	}
}

func (t *Tree[K]) leftmost(id nodeID) nodeID {
	for t.nodes[id].left != none {
		id = t.nodes[id].left
	}
	return id
}

// next returns the in-order successor of id, or none.
func (t *Tree[K]) next(id nodeID) nodeID {
	if r := t.nodes[id].right; r != none {
		return t.leftmost(r)
	}
	p := t.nodes[id].parent
	for p != none && t.nodes[p].right == id {
		id, p = p, t.nodes[p].parent
	}
	return p
}
