package avl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// link builds (key left right) shapes directly in the arena, bypassing
// rebalancing, so single rotations can be checked in isolation.
func (t *Tree[K]) link(key K, left, right nodeID) nodeID {
	id := t.alloc(key)
	t.nodes[id].left, t.nodes[id].right = left, right
	for _, c := range [...]nodeID{left, right} {
		if c != none {
			t.nodes[c].parent = id
		}
	}
	t.updateHeight(id)
	return id
}

func requireLinks(t *testing.T, tree *Tree[int], id nodeID) {
	t.Helper()
	if id == none {
		return
	}
	n := tree.nodes[id]
	for _, c := range [...]nodeID{n.left, n.right} {
		if c != none {
			require.Equal(t, id, tree.nodes[c].parent, "parent of %d", tree.nodes[c].key)
			requireLinks(t, tree, c)
		}
	}
}

func TestRotateRight_AtRoot(t *testing.T) {
	tree := &Tree[int]{}
	a := tree.link(1, none, none)
	b := tree.link(3, none, none)
	l := tree.link(2, a, b)
	c := tree.link(5, none, none)
	p := tree.link(4, l, c)
	tree.root, tree.len = p, 5

	top := tree.rotateRight(p)

	assert.Equal(t, l, top)
	assert.Equal(t, l, tree.root)
	assert.Equal(t, none, tree.nodes[l].parent)
	assert.Equal(t, a, tree.nodes[l].left)
	assert.Equal(t, p, tree.nodes[l].right)
	assert.Equal(t, b, tree.nodes[p].left)
	assert.Equal(t, c, tree.nodes[p].right)
	assert.Equal(t, p, tree.nodes[b].parent)
	assert.Equal(t, 1, tree.nodes[p].height)
	assert.Equal(t, 2, tree.nodes[l].height)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tree.Keys())
	requireLinks(t, tree, tree.root)
}

func TestRotateLeft_UnderParent(t *testing.T) {
	tree := &Tree[int]{}
	r := tree.link(30, tree.link(25, none, none), tree.link(35, none, none))
	p := tree.link(20, tree.link(15, none, none), r)
	top := tree.link(50, p, tree.link(60, none, none))
	tree.root, tree.len = top, 7

	got := tree.rotateLeft(p)

	assert.Equal(t, r, got)
	assert.Equal(t, top, tree.root)
	assert.Equal(t, r, tree.nodes[top].left)
	assert.Equal(t, top, tree.nodes[r].parent)
	assert.Equal(t, p, tree.nodes[r].left)
	assert.Equal(t, r, tree.nodes[p].parent)
	assert.Equal(t, []int{15, 20, 25, 30, 35, 50, 60}, tree.Keys())
	requireLinks(t, tree, tree.root)
}

func TestRebalance_PrefersSingleRotationOnEvenChild(t *testing.T) {
	tree := &Tree[int]{}
	var seen []Rotation
	tree.hook = func(r Rotation, _ int) { seen = append(seen, r) }

	// Left child has balance factor 0, as happens during deletion.
	l := tree.link(4, tree.link(2, none, none), tree.link(6, none, none))
	p := tree.link(8, l, none)
	tree.root, tree.len = p, 4

	top := tree.rebalance(p)

	assert.Equal(t, []Rotation{RotateRight}, seen)
	assert.Equal(t, l, top)
	assert.Equal(t, -1, tree.balanceFactor(top))
	require.NoError(t, tree.Validate())
}

func TestRebalance_BalancedNodeIsLeftAlone(t *testing.T) {
	tree := &Tree[int]{}
	p := tree.link(2, tree.link(1, none, none), none)
	tree.root, tree.len = p, 2

	assert.Equal(t, p, tree.rebalance(p))
	assert.Equal(t, p, tree.root)
}

func TestArena_ReusesFreedSlots(t *testing.T) {
	tree := New[int]()
	for i := 0; i < 8; i++ {
		tree.Insert(i)
	}
	size := len(tree.nodes)
	require.NoError(t, tree.Delete(3))
	require.NoError(t, tree.Delete(5))
	assert.Len(t, tree.free, 2)

	tree.Insert(100)
	tree.Insert(101)
	assert.Empty(t, tree.free)
	assert.Equal(t, size, len(tree.nodes))
	require.NoError(t, tree.Validate())
}

func TestBalanceFactor_AbsentChildCountsAsMinusOne(t *testing.T) {
	tree := &Tree[int]{}
	leaf := tree.link(1, none, none)
	p := tree.link(2, leaf, none)

	assert.Equal(t, -1, tree.height(none))
	assert.Equal(t, 0, tree.height(leaf))
	assert.Equal(t, 1, tree.balanceFactor(p))
	assert.Equal(t, 0, tree.balanceFactor(leaf))
	assert.Equal(t, tree.subtreeHeight(p), tree.height(p))
}
