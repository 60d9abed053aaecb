package fiber

// Arena owns every Node of a render root. Records are addressed by NodeID
// and recycled through a free list, so a generation's nodes can be
// released in one walk without leaving dangling pointers.
type Arena struct {
	nodes []*Node
	free  []NodeID
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	// Index 0 is reserved for None.
	return &Arena{nodes: []*Node{nil}}
}

// Alloc creates a node from el with empty links, no effect, a zero slot
// cursor and FirstRender set.
func (a *Arena) Alloc(el Element) NodeID {
	var id NodeID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = NodeID(len(a.nodes))
		a.nodes = append(a.nodes, new(Node))
	}
	props := el.Props
	if props.Children == nil {
		props.Children = []Element{}
	}
	*a.nodes[id] = Node{
		Type:        el.Type,
		Key:         el.Key,
		Props:       props,
		FirstRender: true,
		live:        true,
	}
	a.live++
	return id
}

// Get returns the node for id, or nil for None and released ids.
func (a *Arena) Get(id NodeID) *Node {
	if id <= None || int(id) >= len(a.nodes) {
		return nil
	}
	n := a.nodes[id]
	if !n.live {
		return nil
	}
	return n
}

// Free releases a single node. Its links are not followed.
func (a *Arena) Free(id NodeID) {
	n := a.Get(id)
	if n == nil {
		return
	}
	*n = Node{}
	a.free = append(a.free, id)
	a.live--
}

// FreeTree releases root and all of its descendants, but not root's
// siblings. It returns the number of nodes released.
func (a *Arena) FreeTree(root NodeID) int {
	n := a.Get(root)
	if n == nil {
		return 0
	}
	count := 0
	for c := n.Child; c != None; {
		next := a.Get(c).Sibling
		count += a.FreeTree(c)
		c = next
	}
	a.Free(root)
	return count + 1
}

// Live returns the number of allocated nodes.
func (a *Arena) Live() int {
	return a.live
}

// Walk visits root and its descendants in pre-order. Returning false from
// fn skips the node's children.
func (a *Arena) Walk(root NodeID, fn func(id NodeID, n *Node, depth int) bool) {
	a.walk(root, 0, fn)
}

func (a *Arena) walk(id NodeID, depth int, fn func(NodeID, *Node, int) bool) {
	n := a.Get(id)
	if n == nil {
		return
	}
	if !fn(id, n, depth) {
		return
	}
	for c := n.Child; c != None; c = a.Get(c).Sibling {
		a.walk(c, depth+1, fn)
	}
}

// Children returns the child chain of id in order.
func (a *Arena) Children(id NodeID) []NodeID {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	for c := n.Child; c != None; c = a.Get(c).Sibling {
		out = append(out, c)
	}
	return out
}
