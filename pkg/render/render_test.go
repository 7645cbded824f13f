package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dslab/avl/pkg/avl"
	"github.com/dslab/avl/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(keys ...int) *avl.Tree[int] {
	tree := avl.New[int]()
	for _, k := range keys {
		tree.Insert(k)
	}
	return tree
}

func TestMatrix_ThreeNodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Matrix(&buf, build(10, 20, 30)))
	assert.Equal(t, "   20\n10    30\n", buf.String())
}

func TestMatrix_RowsFollowDepth(t *testing.T) {
	var buf bytes.Buffer
	tree := build(11, 7, 5, 10, 18, 14, 12, 16, 22, 20, 24)
	require.NoError(t, render.Matrix(&buf, tree))

	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, rows, tree.Height()+1)
	assert.Equal(t, []string{"11"}, strings.Fields(rows[0]))
	assert.Equal(t, []string{"7", "18"}, strings.Fields(rows[1]))
	assert.Equal(t, []string{"5", "10", "14", "22"}, strings.Fields(rows[2]))
	assert.Equal(t, []string{"12", "16", "20", "24"}, strings.Fields(rows[3]))
	assert.Equal(t, "         11", rows[0])
}

func TestMatrix_EmptyTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.Matrix(&buf, avl.New[int]()))
	assert.Empty(t, buf.String())
}

func TestSideways_Fixture(t *testing.T) {
	var buf bytes.Buffer
	tree := build(11, 7, 5, 10, 18, 14, 12, 16, 22, 20, 24)
	require.NoError(t, render.Sideways(&buf, tree))

	expected := strings.Join([]string{
		"        ┌── 24",
		"    ┌── 22",
		"    │   └── 20",
		"┌── 18",
		"│   │   ┌── 16",
		"│   └── 14",
		"│       └── 12",
		"11",
		"│   ┌── 10",
		"└── 7",
		"    └── 5",
	}, "\n") + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestSideways_StringKeys(t *testing.T) {
	tree := avl.New[string]()
	for _, k := range []string{"b", "a", "c"} {
		tree.Insert(k)
	}
	var buf bytes.Buffer
	require.NoError(t, render.Sideways(&buf, tree))
	assert.Equal(t, "┌── c\nb\n└── a\n", buf.String())
}

func TestWrite_Styles(t *testing.T) {
	tree := build(1)
	var buf bytes.Buffer
	require.NoError(t, render.Write(&buf, tree, render.StyleMatrix))
	assert.Equal(t, "1\n", buf.String())

	buf.Reset()
	require.NoError(t, render.Write(&buf, tree, render.StyleSideways))
	assert.Equal(t, "1\n", buf.String())

	assert.ErrorIs(t, render.Write(&buf, tree, "spiral"), render.ErrUnknownStyle)
}

func TestMatrix_WidthCountsRunes(t *testing.T) {
	tree := avl.New[string]()
	for _, k := range []string{"zz", "ab", "é"} {
		tree.Insert(k)
	}
	var buf bytes.Buffer
	require.NoError(t, render.Matrix(&buf, tree))
	assert.Equal(t, "   zz\nab     é\n", buf.String())
}
