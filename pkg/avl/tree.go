// Package avl implements an AVL tree over an ordered key.
//
// Nodes are kept in an arena owned by the tree and linked by index, so
// parent back-references never imply ownership. A Tree is not safe for
// concurrent use; callers that share one must serialise access.
package avl

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("key not found")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Tree is an AVL tree of keys. Equal keys are allowed and are routed
// to the left subtree on insertion. The zero value is an empty tree
// ready to use.
type Tree[K cmp.Ordered] struct {
	nodes []node[K]
	free  []nodeID
	root  nodeID
	len   int
	hook  func(Rotation, K)
}

type Option[K cmp.Ordered] func(*Tree[K])

// WithCapacity pre-sizes the arena for n keys.
func WithCapacity[K cmp.Ordered](n int) Option[K] {
	return func(t *Tree[K]) {
		if n > 0 {
			t.nodes = make([]node[K], 1, n+1)
		}
	}
}

// WithRotationHook registers fn to be called once per rebalancing step
// with the kind of rotation and the key of the unbalanced node.
func WithRotationHook[K cmp.Ordered](fn func(Rotation, K)) Option[K] {
	return func(t *Tree[K]) {
		t.hook = fn
	}
}

func New[K cmp.Ordered](opts ...Option[K]) *Tree[K] {
	t := &Tree[K]{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert adds key to the tree. Duplicates are kept.
func (t *Tree[K]) Insert(key K) {
	id := t.alloc(key)
	t.len++
	if t.root == none {
		t.root = id
		return
	}

	cur := t.root
	for {
		n := &t.nodes[cur]
		if key > n.key {
			if n.right == none {
				n.right = id
				break
			}
			cur = n.right
		} else {
			if n.left == none {
				n.left = id
				break
			}
			cur = n.left
		}
	}
	t.nodes[id].parent = cur
	t.retraceInsert(cur)
}

// retraceInsert walks up from x. One rotation at the first unbalanced
// ancestor restores the subtree to its height before the insert, so the
// walk ends there, or earlier once a height stops changing.
func (t *Tree[K]) retraceInsert(x nodeID) {
	for x != none {
		before := t.nodes[x].height
		t.updateHeight(x)
		if unbalanced(t.balanceFactor(x)) {
			t.rebalance(x)
			return
		}
		if t.nodes[x].height == before {
			return
		}
		x = t.nodes[x].parent
	}
}

// Delete removes one occurrence of key. It returns an error wrapping
// ErrNotFound, and leaves the tree untouched, when key is absent.
func (t *Tree[K]) Delete(key K) error {
	x := t.find(key)
	if x == none {
		return fmt.Errorf("avl: delete %v: %w", key, ErrNotFound)
	}

	if t.nodes[x].left != none && t.nodes[x].right != none {
		succ := t.leftmost(t.nodes[x].right)
		t.nodes[x].key = t.nodes[succ].key
		x = succ
	}

	child := t.nodes[x].left
	if child == none {
		child = t.nodes[x].right
	}
	parent := t.nodes[x].parent
	t.replaceChild(parent, x, child)
	t.release(x)
	t.len--

	t.retraceDelete(parent)
	return nil
}

// retraceDelete walks from x to the root. A rotation after a delete can
// shorten the subtree, so every ancestor is checked.
func (t *Tree[K]) retraceDelete(x nodeID) {
	for x != none {
		t.updateHeight(x)
		x = t.nodes[t.rebalance(x)].parent
	}
}

func (t *Tree[K]) find(key K) nodeID {
	cur := t.root
	for cur != none {
		n := &t.nodes[cur]
		switch {
		case key == n.key:
			return cur
		case key < n.key:
			cur = n.left
		default:
			cur = n.right
		}
	}
	return none
}

// Contains reports whether key is in the tree.
func (t *Tree[K]) Contains(key K) bool {
	return t.find(key) != none
}

// Height returns the height of the tree, -1 when empty.
func (t *Tree[K]) Height() int {
	return t.height(t.root)
}

// Len returns the number of keys, duplicates included.
func (t *Tree[K]) Len() int {
	return t.len
}

// Empty returns true if the tree holds no keys.
func (t *Tree[K]) Empty() bool {
	return t.root == none
}

// Clear releases every node.
func (t *Tree[K]) Clear() {
	t.nodes = nil
	t.free = nil
	t.root = none
	t.len = 0
}
