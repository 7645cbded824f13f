package avl

// height returns the cached height of id; an absent node has height -1.
func (t *Tree[K]) height(id nodeID) int {
	if id == none {
		return -1
	}
	return t.nodes[id].height
}

// updateHeight recomputes the height of id from its immediate children.
func (t *Tree[K]) updateHeight(id nodeID) {
	n := &t.nodes[id]
	n.height = 1 + max(t.height(n.left), t.height(n.right))
}

// balanceFactor returns height(left) - height(right).
func (t *Tree[K]) balanceFactor(id nodeID) int {
	if id == none {
		return 0
	}
	return t.height(t.nodes[id].left) - t.height(t.nodes[id].right)
}

func unbalanced(bf int) bool {
	return bf > 1 || bf < -1
}

// subtreeHeight walks the whole subtree without trusting cached heights.
func (t *Tree[K]) subtreeHeight(id nodeID) int {
	if id == none {
		return -1
	}
	return 1 + max(t.subtreeHeight(t.nodes[id].left), t.subtreeHeight(t.nodes[id].right))
}
