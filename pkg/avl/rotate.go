package avl

// Rotation identifies one rebalancing step. A double rotation is reported
// once, as a single step.
type Rotation uint8

const (
	RotateLeft Rotation = iota + 1
	RotateRight
	RotateLeftRight
	RotateRightLeft
)

func (r Rotation) String() string {
	switch r {
	case RotateLeft:
		return "left"
	case RotateRight:
		return "right"
	case RotateLeftRight:
		return "left-right"
	case RotateRightLeft:
		return "right-left"
	default:
		return "unknown"
	}
}

// rotateRight turns (p (l a b) c) into (l a (p b c)) and returns l.
func (t *Tree[K]) rotateRight(p nodeID) nodeID {
	l := t.nodes[p].left
	inner := t.nodes[l].right

	t.nodes[p].left = inner
	if inner != none {
		t.nodes[inner].parent = p
	}
	t.replaceChild(t.nodes[p].parent, p, l)
	t.nodes[l].right = p
	t.nodes[p].parent = l

	t.updateHeight(p)
	t.updateHeight(l)
	return l
}

// rotateLeft turns (p a (r b c)) into (r (p a b) c) and returns r.
func (t *Tree[K]) rotateLeft(p nodeID) nodeID {
	r := t.nodes[p].right
	inner := t.nodes[r].left

	t.nodes[p].right = inner
	if inner != none {
		t.nodes[inner].parent = p
	}
	t.replaceChild(t.nodes[p].parent, p, r)
	t.nodes[r].left = p
	t.nodes[p].parent = r

	t.updateHeight(p)
	t.updateHeight(r)
	return r
}

// rebalance restores the AVL property at x, assuming both children are
// balanced, and returns the node now on top of x's former position.
// A child with balance factor 0 takes the single rotation.
func (t *Tree[K]) rebalance(x nodeID) nodeID {
	bf := t.balanceFactor(x)
	if !unbalanced(bf) {
		return x
	}
	pivot := t.nodes[x].key
	if bf > 1 {
		if l := t.nodes[x].left; t.balanceFactor(l) < 0 {
			t.rotateLeft(l)
			t.notify(RotateLeftRight, pivot)
		} else {
			t.notify(RotateRight, pivot)
		}
		return t.rotateRight(x)
	}
	if r := t.nodes[x].right; t.balanceFactor(r) > 0 {
		t.rotateRight(r)
		t.notify(RotateRightLeft, pivot)
	} else {
		t.notify(RotateLeft, pivot)
	}
	return t.rotateLeft(x)
}

func (t *Tree[K]) notify(r Rotation, pivot K) {
	if t.hook != nil {
		t.hook(r, pivot)
	}
}
