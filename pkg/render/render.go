// Package render draws an avl.Tree as text.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dslab/avl/pkg/avl"
)

type Style string

const (
	// StyleMatrix lays keys out on a grid: one row per depth, one column
	// per in-order rank.
	StyleMatrix Style = "matrix"
	// StyleSideways draws the root on the left with the right subtree above.
	StyleSideways Style = "sideways"
)

var ErrUnknownStyle = errors.New("unknown render style")

// Write renders tree to w in the given style.
func Write[K cmp.Ordered](w io.Writer, tree *avl.Tree[K], style Style) error {
	switch style {
	case StyleMatrix, "":
		return Matrix(w, tree)
	case StyleSideways:
		return Sideways(w, tree)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
}

type cell struct {
	row, col int
	text     string
}

// Matrix writes the grid layout. Nothing is written for an empty tree.
func Matrix[K cmp.Ordered](w io.Writer, tree *avl.Tree[K]) error {
	root := tree.Root()
	if !root.Valid() {
		return nil
	}

	var (
		cells []cell
		width int
		rank  int
	)
	var walk func(c avl.Cursor[K], depth int)
	walk = func(c avl.Cursor[K], depth int) {
		if !c.Valid() {
			return
		}
		walk(c.Left(), depth+1)
		text := fmt.Sprint(c.Key())
		width = max(width, utf8.RuneCountInString(text))
		cells = append(cells, cell{row: depth, col: rank, text: text})
		rank++
		walk(c.Right(), depth+1)
	}
	walk(root, 0)

	grid := make([][]string, tree.Height()+1)
	for i := range grid {
		grid[i] = make([]string, rank)
	}
	for _, c := range cells {
		grid[c.row][c.col] = c.text
	}

	var b strings.Builder
	for _, row := range grid {
		var line strings.Builder
		for col, text := range row {
			if col > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(text)))
			line.WriteString(text)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Sideways writes the rotated layout. Nothing is written for an empty tree.
func Sideways[K cmp.Ordered](w io.Writer, tree *avl.Tree[K]) error {
	root := tree.Root()
	if !root.Valid() {
		return nil
	}
	var b strings.Builder
	sideways(&b, root.Right(), "", false)
	fmt.Fprintf(&b, "%v\n", root.Key())
	sideways(&b, root.Left(), "", true)
	_, err := io.WriteString(w, b.String())
	return err
}

func sideways[K cmp.Ordered](b *strings.Builder, c avl.Cursor[K], prefix string, isLeft bool) {
	if !c.Valid() {
		return
	}
	upper, lower, branch := "│   ", "    ", "└── "
	if !isLeft {
		upper, lower, branch = "    ", "│   ", "┌── "
	}
	sideways(b, c.Right(), prefix+upper, false)
	fmt.Fprintf(b, "%s%s%v\n", prefix, branch, c.Key())
	sideways(b, c.Left(), prefix+lower, true)
}
