package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/fiber"
	"github.com/roach88/arbor/internal/ir"
)

func TestMemoryCreateAndAttach(t *testing.T) {
	m := NewMemory()

	div := m.CreateNode("div", fiber.Props{Attrs: fiber.A("class", "app")})
	txt := m.CreateNode(fiber.TextTag, fiber.Props{Attrs: fiber.A(fiber.ValueAttr, "a<b")})
	m.AttachChild(m.Container(), div)
	m.AttachChild(div, txt)

	assert.Equal(t, `<div class="app">a&lt;b</div>`, m.HTML())
	assert.Equal(t, 3, m.Size())

	log := m.Log()
	require.Len(t, log, 6)
	assert.Equal(t, ir.Mutation{Op: ir.OpCreate, Node: 2, Type: "div"}, log[0])
	assert.Equal(t, ir.Mutation{Op: ir.OpSet, Node: 2, Name: "class", Value: "app"}, log[1])
	assert.Equal(t, ir.Mutation{Op: ir.OpAttach, Node: 3, Parent: 2}, log[5])
}

func TestMemorySetAndClearAttribute(t *testing.T) {
	m := NewMemory()
	h := m.CreateNode("input", fiber.Props{})

	m.SetAttribute(h, "size", 3)
	m.SetAttribute(h, "name", "q")
	m.SetAttribute(h, "size", 4)

	v, ok := m.Attribute(h, "size")
	require.True(t, ok)
	assert.Equal(t, "4", v)

	m.ClearAttribute(h, "size")
	_, ok = m.Attribute(h, "size")
	assert.False(t, ok)

	m.AttachChild(m.Container(), h)
	assert.Equal(t, `<input name="q"></input>`, m.HTML())
}

func TestMemoryDetachDropsSubtree(t *testing.T) {
	m := NewMemory()
	ul := m.CreateNode("ul", fiber.Props{})
	li := m.CreateNode("li", fiber.Props{})
	m.AttachChild(m.Container(), ul)
	m.AttachChild(ul, li)
	require.Equal(t, 3, m.Size())

	m.DetachChild(m.Container(), ul)

	assert.Equal(t, 1, m.Size())
	assert.Empty(t, m.HTML())
}

func TestMemoryInsertChildBefore(t *testing.T) {
	m := NewMemory()
	a := m.CreateNode("a", fiber.Props{})
	b := m.CreateNode("b", fiber.Props{})
	c := m.CreateNode("c", fiber.Props{})
	m.AttachChild(m.Container(), a)
	m.AttachChild(m.Container(), b)

	m.InsertChildBefore(m.Container(), c, a)
	assert.Equal(t, "<c></c><a></a><b></b>", m.HTML())

	// Moving an attached child.
	m.InsertChildBefore(m.Container(), b, c)
	assert.Equal(t, "<b></b><c></c><a></a>", m.HTML())

	// nil before appends.
	m.InsertChildBefore(m.Container(), b, nil)
	assert.Equal(t, "<c></c><a></a><b></b>", m.HTML())
}

func TestMemoryCommitSequence(t *testing.T) {
	m := NewMemory()
	m.BeginCommit(3)
	h := m.CreateNode("p", fiber.Props{})
	m.EndCommit(3)
	m.SetAttribute(h, "x", "y")

	log := m.Drain()
	require.Len(t, log, 2)
	assert.Equal(t, int64(3), log[0].Seq)
	assert.Equal(t, int64(0), log[1].Seq)
	assert.Empty(t, m.Log())
}

func TestMemoryTree(t *testing.T) {
	m := NewMemory()
	div := m.CreateNode("div", fiber.Props{Attrs: fiber.A("id", "x")})
	m.AttachChild(m.Container(), div)
	m.AttachChild(div, m.CreateNode(fiber.TextTag, fiber.Props{Attrs: fiber.A(fiber.ValueAttr, "hi")}))

	out := m.Tree()
	assert.Contains(t, out, "root #1")
	assert.Contains(t, out, `div #2 id="x"`)
	assert.Contains(t, out, `text #3 value="hi"`)
}

func TestWallClockDeadline(t *testing.T) {
	now := time.Unix(100, 0)
	w := WallClock{Now: func() time.Time { return now }}

	d := w.Slice(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, d.TimeRemaining())

	now = now.Add(2 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, d.TimeRemaining())

	now = now.Add(time.Second)
	assert.Equal(t, time.Duration(0), d.TimeRemaining())
}
