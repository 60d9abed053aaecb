package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocInitialisesNode(t *testing.T) {
	a := NewArena()
	id := a.Alloc(H("div", A("id", "x")).WithKey("k"))

	require.NotEqual(t, None, id)
	n := a.Get(id)
	require.NotNil(t, n)
	assert.Equal(t, Tag("div"), n.Type)
	assert.Equal(t, "k", n.Key)
	assert.NotNil(t, n.Props.Children, "children are never nil")
	assert.Equal(t, EffectNone, n.Effect)
	assert.Equal(t, 0, n.Cursor)
	assert.True(t, n.FirstRender)
	assert.Equal(t, None, n.Child)
	assert.Equal(t, None, n.Sibling)
	assert.Equal(t, None, n.Parent)
	assert.Equal(t, None, n.Alternate)
	assert.Nil(t, n.Handle)
	assert.Equal(t, 1, a.Live())
}

func TestArena_GetInvalid(t *testing.T) {
	a := NewArena()
	assert.Nil(t, a.Get(None))
	assert.Nil(t, a.Get(42))
	assert.Nil(t, a.Get(-1))
}

func TestArena_FreeReusesIDs(t *testing.T) {
	a := NewArena()
	first := a.Alloc(H("a", nil))
	a.Free(first)

	assert.Nil(t, a.Get(first))
	assert.Equal(t, 0, a.Live())

	again := a.Alloc(H("b", nil))
	assert.Equal(t, first, again, "freed records are reused")
	assert.Equal(t, Tag("b"), a.Get(again).Type)

	a.Free(None) // no-op
	assert.Equal(t, 1, a.Live())
}

func link(a *Arena, parent NodeID, kids ...NodeID) {
	var prev NodeID
	for _, k := range kids {
		a.Get(k).Parent = parent
		if prev == None {
			a.Get(parent).Child = k
		} else {
			a.Get(prev).Sibling = k
		}
		prev = k
	}
}

func TestArena_FreeTreeKeepsSiblings(t *testing.T) {
	a := NewArena()
	root := a.Alloc(H("root", nil))
	left := a.Alloc(H("left", nil))
	right := a.Alloc(H("right", nil))
	leaf := a.Alloc(H("leaf", nil))
	link(a, root, left, right)
	link(a, left, leaf)

	freed := a.FreeTree(left)

	assert.Equal(t, 2, freed)
	assert.Nil(t, a.Get(left))
	assert.Nil(t, a.Get(leaf))
	assert.NotNil(t, a.Get(right))
	assert.Equal(t, 2, a.Live())
}

func TestArena_WalkPreOrder(t *testing.T) {
	a := NewArena()
	root := a.Alloc(H("root", nil))
	x := a.Alloc(H("x", nil))
	y := a.Alloc(H("y", nil))
	z := a.Alloc(H("z", nil))
	link(a, root, x, z)
	link(a, x, y)

	var order []string
	var depths []int
	a.Walk(root, func(_ NodeID, n *Node, depth int) bool {
		order = append(order, n.Name())
		depths = append(depths, depth)
		return true
	})

	assert.Equal(t, []string{"root", "x", "y", "z"}, order)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
	assert.Equal(t, []NodeID{x, z}, a.Children(root))

	order = nil
	a.Walk(root, func(_ NodeID, n *Node, _ int) bool {
		order = append(order, n.Name())
		return n.Name() != "x"
	})
	assert.Equal(t, []string{"root", "x", "z"}, order, "returning false skips the subtree")
}
