package host

import (
	"github.com/roach88/arbor/internal/fiber"
)

// Host materialises nodes and applies mutations to the host tree.
type Host interface {
	// CreateNode allocates a host element for a tag or text type and
	// applies props' attributes to it.
	CreateNode(typ string, props fiber.Props) fiber.Handle
	SetAttribute(h fiber.Handle, name string, value any)
	ClearAttribute(h fiber.Handle, name string)
	AttachChild(parent, child fiber.Handle)
	DetachChild(parent, child fiber.Handle)
}

// Inserter is implemented by hosts that can place a child before an
// existing sibling. A nil before appends. Moving an attached child must be
// supported. Hosts without it receive AttachChild, which appends.
type Inserter interface {
	InsertChildBefore(parent, child, before fiber.Handle)
}

// CommitObserver is implemented by hosts that want to know which commit
// the following mutations belong to.
type CommitObserver interface {
	BeginCommit(generation int64)
	EndCommit(generation int64)
}
