package reconcile

import (
	"fmt"

	"github.com/roach88/arbor/internal/fiber"
)

// Mode selects how old children are matched to new descriptions.
type Mode int

const (
	// Positional matches by position and type only.
	Positional Mode = iota
	// Keyed matches keyed children by key and the rest positionally.
	Keyed
)

func (m Mode) String() string {
	switch m {
	case Keyed:
		return "keyed"
	default:
		return "positional"
	}
}

// ParseMode parses "positional" or "keyed". The empty string is
// Positional.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "positional":
		return Positional, nil
	case "keyed":
		return Keyed, nil
	default:
		return Positional, fmt.Errorf("unknown reconcile mode %q (want positional or keyed)", s)
	}
}

// Reconciler builds child chains in an arena.
type Reconciler struct {
	arena *fiber.Arena
	mode  Mode
}

// New returns a reconciler allocating from arena.
func New(arena *fiber.Arena, mode Mode) *Reconciler {
	return &Reconciler{arena: arena, mode: mode}
}

// Mode returns the matching mode.
func (r *Reconciler) Mode() Mode {
	return r.mode
}

// Children replaces parent's child chain with nodes built from elems,
// diffed against the children of parent's Alternate. It returns the old
// children tagged Remove, in old order; the caller owns queueing them for
// host detachment.
func (r *Reconciler) Children(parent fiber.NodeID, elems []fiber.Element) []fiber.NodeID {
	p := r.arena.Get(parent)
	if p == nil {
		return nil
	}
	var old []fiber.NodeID
	if alt := r.arena.Get(p.Alternate); alt != nil {
		old = r.arena.Children(p.Alternate)
	}

	var ids, removed []fiber.NodeID
	if r.mode == Keyed {
		ids, removed = r.keyed(old, elems)
	} else {
		ids, removed = r.positional(old, elems)
	}

	p.Child = fiber.None
	var prev *fiber.Node
	for _, id := range ids {
		n := r.arena.Get(id)
		n.Parent = parent
		if prev == nil {
			p.Child = id
		} else {
			prev.Sibling = id
		}
		prev = n
	}
	return removed
}

func (r *Reconciler) positional(old []fiber.NodeID, elems []fiber.Element) (ids, removed []fiber.NodeID) {
	for i, el := range elems {
		if i < len(old) {
			o := r.arena.Get(old[i])
			if o.Type == el.Type {
				ids = append(ids, r.reuse(old[i], el))
				continue
			}
			removed = append(removed, r.remove(old[i]))
		}
		ids = append(ids, r.create(el))
	}
	for i := len(elems); i < len(old); i++ {
		removed = append(removed, r.remove(old[i]))
	}
	return ids, removed
}

func (r *Reconciler) keyed(old []fiber.NodeID, elems []fiber.Element) (ids, removed []fiber.NodeID) {
	byKey := make(map[string]int)
	var unkeyed []int
	for i, id := range old {
		if k := r.arena.Get(id).Key; k != "" {
			byKey[k] = i
		} else {
			unkeyed = append(unkeyed, i)
		}
	}

	used := make([]bool, len(old))
	lastPlaced := -1
	next := 0
	for _, el := range elems {
		match := -1
		if el.Key != "" {
			if i, ok := byKey[el.Key]; ok && !used[i] && r.arena.Get(old[i]).Type == el.Type {
				match = i
			}
		} else if next < len(unkeyed) {
			i := unkeyed[next]
			next++
			if r.arena.Get(old[i]).Type == el.Type {
				match = i
			}
		}

		if match < 0 {
			ids = append(ids, r.create(el))
			continue
		}
		used[match] = true
		id := r.reuse(old[match], el)
		if match < lastPlaced {
			r.arena.Get(id).Moved = true
		} else {
			lastPlaced = match
		}
		ids = append(ids, id)
	}

	for i, id := range old {
		if !used[i] {
			removed = append(removed, r.remove(id))
		}
	}
	return ids, removed
}

func (r *Reconciler) reuse(oldID fiber.NodeID, el fiber.Element) fiber.NodeID {
	id := r.arena.Alloc(el)
	n, o := r.arena.Get(id), r.arena.Get(oldID)
	n.Handle = o.Handle
	n.Slots = o.Slots
	n.FirstRender = o.FirstRender
	n.Alternate = oldID
	n.Effect = fiber.EffectUpdate
	return id
}

func (r *Reconciler) create(el fiber.Element) fiber.NodeID {
	id := r.arena.Alloc(el)
	r.arena.Get(id).Effect = fiber.EffectCreate
	return id
}

func (r *Reconciler) remove(id fiber.NodeID) fiber.NodeID {
	r.arena.Get(id).Effect = fiber.EffectRemove
	return id
}
