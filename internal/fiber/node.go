package fiber

// NodeID addresses a node in an Arena. The zero value is None.
type NodeID int32

// None is the absent node.
const None NodeID = 0

// EffectTag is the host mutation decided for a node by reconciliation.
type EffectTag uint8

const (
	EffectNone EffectTag = iota
	EffectCreate
	EffectUpdate
	EffectRemove
)

func (t EffectTag) String() string {
	switch t {
	case EffectCreate:
		return "create"
	case EffectUpdate:
		return "update"
	case EffectRemove:
		return "remove"
	default:
		return "none"
	}
}

// Handle is an opaque host element reference.
type Handle any

// Node is one tree record of one generation.
//
// Child and Sibling are owned: freeing a node frees its child chain.
// Parent and Alternate are back-references; Alternate points at the node's
// counterpart in the previous committed generation and is only read while
// diffing and committing this generation.
type Node struct {
	Type  Type
	Key   string
	Props Props

	Parent    NodeID
	Child     NodeID
	Sibling   NodeID
	Alternate NodeID

	Handle Handle
	Effect EffectTag
	// Moved marks a reused node whose host position must be re-placed
	// (keyed reconciliation only).
	Moved bool

	Slots       *SlotStore
	Cursor      int
	FirstRender bool

	// DebugValues holds UseDebugValue labels from the last render.
	DebugValues []string

	live bool
}

// Component returns the node's component, or nil for host nodes.
func (n *Node) Component() *Component {
	return n.Type.Component()
}

// Name returns a readable label for logs and dumps.
func (n *Node) Name() string {
	if n.Key != "" {
		return n.Type.String() + "#" + n.Key
	}
	return n.Type.String()
}
