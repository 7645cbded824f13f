package avl

import (
	"cmp"
	"iter"
)

// All returns an iterator over the keys in ascending order. Each call
// starts a fresh walk. The tree must not be modified during iteration.
func (t *Tree[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		if t == nil || t.root == none {
			return
		}
		for x := t.leftmost(t.root); x != none; x = t.next(x) {
			if !yield(t.nodes[x].key) {
				return
			}
		}
	}
}

// Each traverses the tree in order and calls f for each key until f
// returns false.
func (t *Tree[K]) Each(f func(K) bool) {
	for k := range t.All() {
		if !f(k) {
			return
		}
	}
}

// Keys returns the keys in ascending order.
func (t *Tree[K]) Keys() []K {
	keys := make([]K, 0, t.len)
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}

// Cursor is a read-only view of one node. A cursor is only meaningful
// until the next Insert, Delete or Clear on its tree.
type Cursor[K cmp.Ordered] struct {
	t  *Tree[K]
	id nodeID
}

// Root returns a cursor at the root; it is not valid for an empty tree.
func (t *Tree[K]) Root() Cursor[K] {
	return Cursor[K]{t: t, id: t.root}
}

func (c Cursor[K]) Valid() bool {
	return c.t != nil && c.id != none
}

func (c Cursor[K]) Key() (k K) {
	if !c.Valid() {
		return k
	}
	return c.t.nodes[c.id].key
}

func (c Cursor[K]) Left() Cursor[K] {
	return c.move(func(n *node[K]) nodeID { return n.left })
}

func (c Cursor[K]) Right() Cursor[K] {
	return c.move(func(n *node[K]) nodeID { return n.right })
}

func (c Cursor[K]) Parent() Cursor[K] {
	return c.move(func(n *node[K]) nodeID { return n.parent })
}

// Height returns the height of the subtree under the cursor, -1 if invalid.
func (c Cursor[K]) Height() int {
	if !c.Valid() {
		return -1
	}
	return c.t.height(c.id)
}

// Balance returns the balance factor of the node under the cursor.
func (c Cursor[K]) Balance() int {
	if !c.Valid() {
		return 0
	}
	return c.t.balanceFactor(c.id)
}

func (c Cursor[K]) move(f func(*node[K]) nodeID) Cursor[K] {
	if !c.Valid() {
		return c
	}
	return Cursor[K]{t: c.t, id: f(&c.t.nodes[c.id])}
}
