package avl

import "fmt"

// Validate walks the whole tree and checks ordering, balance, cached
// heights, parent links and the key count. Mutating operations never call
// it; it exists for tests and diagnostics.
func (t *Tree[K]) Validate() error {
	if t.root == none {
		if t.len != 0 {
			return fmt.Errorf("%w: empty tree reports %d keys", ErrInvariantViolation, t.len)
		}
		return nil
	}
	if p := t.nodes[t.root].parent; p != none {
		return fmt.Errorf("%w: root %v has a parent", ErrInvariantViolation, t.nodes[t.root].key)
	}
	count, err := t.validate(t.root)
	if err != nil {
		return err
	}
	if count != t.len {
		return fmt.Errorf("%w: counted %d keys, tree reports %d", ErrInvariantViolation, count, t.len)
	}

	first := true
	var prev K
	for k := range t.All() {
		if !first && k < prev {
			return fmt.Errorf("%w: in-order walk went from %v to %v", ErrInvariantViolation, prev, k)
		}
		prev, first = k, false
	}
	return nil
}

func (t *Tree[K]) validate(id nodeID) (int, error) {
	if id == none {
		return 0, nil
	}
	n := t.nodes[id]
	for _, c := range [...]nodeID{n.left, n.right} {
		if c != none && t.nodes[c].parent != id {
			return 0, fmt.Errorf("%w: child %v of %v points at another parent",
				ErrInvariantViolation, t.nodes[c].key, n.key)
		}
	}
	if h := t.subtreeHeight(id); h != n.height {
		return 0, fmt.Errorf("%w: node %v caches height %d, actual %d",
			ErrInvariantViolation, n.key, n.height, h)
	}
	if bf := t.balanceFactor(id); unbalanced(bf) {
		return 0, fmt.Errorf("%w: node %v has balance factor %d",
			ErrInvariantViolation, n.key, bf)
	}
	lc, err := t.validate(n.left)
	if err != nil {
		return 0, err
	}
	rc, err := t.validate(n.right)
	if err != nil {
		return 0, err
	}
	return 1 + lc + rc, nil
}
