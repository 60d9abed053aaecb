package host

import (
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/xlab/treeprint"

	"github.com/roach88/arbor/internal/fiber"
	"github.com/roach88/arbor/internal/ir"
)

// ID is the handle type of the Memory host.
type ID int64

// ContainerID is the handle of the Memory container.
const ContainerID ID = 1

// ContainerTag is the tag reported for the container.
const ContainerTag = "root"

type memAttr struct {
	name  string
	value string
}

type memNode struct {
	id       ID
	tag      string
	attrs    []memAttr
	parent   *memNode
	children []*memNode
}

func (n *memNode) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// Memory is an in-memory Host. Node IDs are handed out sequentially from 2;
// ID 1 is the container. Attribute values are stored as fmt.Sprint of the
// prop value.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	nodes  map[ID]*memNode
	nextID ID
	seq    int64
	log    []ir.Mutation
	logger *slog.Logger
}

// NewMemory returns an empty host holding only the container.
func NewMemory() *Memory {
	root := &memNode{id: ContainerID, tag: ContainerTag}
	return &Memory{
		nodes:  map[ID]*memNode{ContainerID: root},
		nextID: ContainerID + 1,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger used for invalid handle reports.
func (m *Memory) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// Container returns the container handle to pass to Engine.Render.
func (m *Memory) Container() fiber.Handle {
	return ContainerID
}

// CreateNode implements Host.
func (m *Memory) CreateNode(typ string, props fiber.Props) fiber.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := &memNode{id: m.nextID, tag: typ}
	m.nextID++
	m.nodes[n.id] = n
	m.record(ir.Mutation{Op: ir.OpCreate, Node: int64(n.id), Type: typ})

	for _, a := range props.Attrs {
		m.set(n, a.Name, a.Value)
	}
	return n.id
}

// SetAttribute implements Host.
func (m *Memory) SetAttribute(h fiber.Handle, name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.lookup(h, "set")
	if n == nil {
		return
	}
	m.set(n, name, value)
}

func (m *Memory) set(n *memNode, name string, value any) {
	v := fmt.Sprint(value)
	i := slices.IndexFunc(n.attrs, func(a memAttr) bool { return a.name == name })
	if i >= 0 {
		n.attrs[i].value = v
	} else {
		n.attrs = append(n.attrs, memAttr{name: name, value: v})
	}
	m.record(ir.Mutation{Op: ir.OpSet, Node: int64(n.id), Name: name, Value: v})
}

// ClearAttribute implements Host.
func (m *Memory) ClearAttribute(h fiber.Handle, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.lookup(h, "clear")
	if n == nil {
		return
	}
	n.attrs = slices.DeleteFunc(n.attrs, func(a memAttr) bool { return a.name == name })
	m.record(ir.Mutation{Op: ir.OpClear, Node: int64(n.id), Name: name})
}

// AttachChild implements Host. An attached child is moved to the end of
// parent.
func (m *Memory) AttachChild(parent, child fiber.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, c := m.lookup(parent, "attach"), m.lookup(child, "attach")
	if p == nil || c == nil {
		return
	}
	unlink(c)
	c.parent = p
	p.children = append(p.children, c)
	m.record(ir.Mutation{Op: ir.OpAttach, Node: int64(c.id), Parent: int64(p.id)})
}

// InsertChildBefore implements Inserter. When before is nil or not a child
// of parent, child is appended.
func (m *Memory) InsertChildBefore(parent, child, before fiber.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, c := m.lookup(parent, "insert"), m.lookup(child, "insert")
	if p == nil || c == nil {
		return
	}
	unlink(c)
	c.parent = p

	var ref *memNode
	if before != nil {
		ref = m.nodes[toID(before)]
	}
	i := -1
	if ref != nil {
		i = slices.Index(p.children, ref)
	}
	if i < 0 {
		p.children = append(p.children, c)
		m.record(ir.Mutation{Op: ir.OpInsert, Node: int64(c.id), Parent: int64(p.id)})
		return
	}
	p.children = slices.Insert(p.children, i, c)
	m.record(ir.Mutation{Op: ir.OpInsert, Node: int64(c.id), Parent: int64(p.id), Before: int64(ref.id)})
}

// DetachChild implements Host. Detached subtrees are dropped from the
// host.
func (m *Memory) DetachChild(parent, child fiber.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, c := m.lookup(parent, "detach"), m.lookup(child, "detach")
	if p == nil || c == nil {
		return
	}
	if c.parent != p {
		m.logger.Warn("detach of node from a parent it is not attached to",
			"parent", p.id, "child", c.id)
	}
	unlink(c)
	m.forget(c)
	m.record(ir.Mutation{Op: ir.OpDetach, Node: int64(c.id), Parent: int64(p.id)})
}

// BeginCommit implements CommitObserver.
func (m *Memory) BeginCommit(generation int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq = generation
}

// EndCommit implements CommitObserver.
func (m *Memory) EndCommit(int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq = 0
}

// Log returns a copy of every mutation recorded so far.
func (m *Memory) Log() []ir.Mutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.log)
}

// Drain returns the recorded mutations and clears the log.
func (m *Memory) Drain() []ir.Mutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.log
	m.log = nil
	return out
}

// Size returns the number of live host nodes, container included.
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// Attribute returns the stored value of an attribute.
func (m *Memory) Attribute(h fiber.Handle, name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.nodes[toID(h)]
	if n == nil {
		return "", false
	}
	return n.attr(name)
}

// HTML serialises the container's children. Text nodes render their
// escaped value; other nodes render as tags with attributes in the order
// they were first set.
func (m *Memory) HTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sb strings.Builder
	for _, c := range m.nodes[ContainerID].children {
		writeHTML(&sb, c)
	}
	return sb.String()
}

func writeHTML(sb *strings.Builder, n *memNode) {
	if n.tag == fiber.TextTag {
		v, _ := n.attr(fiber.ValueAttr)
		sb.WriteString(html.EscapeString(v))
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.tag)
	for _, a := range n.attrs {
		fmt.Fprintf(sb, " %s=%q", a.name, html.EscapeString(a.value))
	}
	sb.WriteString(">")
	for _, c := range n.children {
		writeHTML(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteString(">")
}

// Tree renders the host tree with treeprint.
func (m *Memory) Tree() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := treeprint.NewWithRoot(label(m.nodes[ContainerID]))
	for _, c := range m.nodes[ContainerID].children {
		addTree(t, c)
	}
	return t.String()
}

func addTree(t treeprint.Tree, n *memNode) {
	if len(n.children) == 0 {
		t.AddNode(label(n))
		return
	}
	b := t.AddBranch(label(n))
	for _, c := range n.children {
		addTree(b, c)
	}
}

func label(n *memNode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s #%d", n.tag, n.id)
	for _, a := range n.attrs {
		fmt.Fprintf(&sb, " %s=%q", a.name, a.value)
	}
	return sb.String()
}

func (m *Memory) lookup(h fiber.Handle, op string) *memNode {
	n := m.nodes[toID(h)]
	if n == nil {
		m.logger.Warn("unknown host handle", "op", op, "handle", h)
	}
	return n
}

func (m *Memory) record(mu ir.Mutation) {
	mu.Seq = m.seq
	m.log = append(m.log, mu)
}

func (m *Memory) forget(n *memNode) {
	for _, c := range n.children {
		m.forget(c)
	}
	delete(m.nodes, n.id)
}

func unlink(n *memNode) {
	if n.parent == nil {
		return
	}
	n.parent.children = slices.DeleteFunc(n.parent.children, func(c *memNode) bool { return c == n })
	n.parent = nil
}

func toID(h fiber.Handle) ID {
	switch v := h.(type) {
	case ID:
		return v
	case int64:
		return ID(v)
	case int:
		return ID(v)
	default:
		return 0
	}
}
