package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/arbor/internal/fiber"
	"github.com/roach88/arbor/internal/host"
	"github.com/roach88/arbor/internal/ir"
)

// Change tags recorded in the journal beyond the effect tags.
const changeMove = "move"

// commit applies the finished work in progress to the host in one pass,
// runs queued effects and promotes the tree to current.
func (e *Engine) commit(ctx context.Context) error {
	e.state = Committing
	gen := e.seq.Next()
	if obs, ok := e.host.(host.CommitObserver); ok {
		obs.BeginCommit(gen)
		defer obs.EndCommit(gen)
	}

	var changes []ir.Change

	for _, id := range e.pendingRemovals {
		n := e.arena.Get(id)
		if n == nil {
			continue
		}
		e.detach(id, n)
		changes = append(changes, ir.Change{
			Tag:   fiber.EffectRemove.String(),
			Type:  n.Type.String(),
			Key:   n.Key,
			Depth: int64(e.depth(id)),
		})
	}

	e.arena.Walk(e.wip, func(id fiber.NodeID, n *fiber.Node, depth int) bool {
		if c, ok := e.commitNode(id, n, depth); ok {
			changes = append(changes, c)
		}
		return true
	})

	var errs []error
	layout, passive := e.effects.layout, e.effects.passive
	e.effects.reset()
	for _, eff := range layout {
		if err := e.runEffect(eff); err != nil {
			errs = append(errs, err)
		}
	}
	for _, eff := range passive {
		if err := e.runEffect(eff); err != nil {
			errs = append(errs, err)
		}
	}

	old := e.current
	e.current = e.wip
	e.wip = fiber.None
	e.nextUnit = fiber.None
	e.pendingRemovals = nil
	freed := 0
	if old != fiber.None {
		freed = e.arena.FreeTree(old)
	}
	e.state = Idle
	e.count(func(s *Stats) {
		s.Commits++
		s.Effects += int64(len(layout) + len(passive))
	})

	e.logger.Info("commit",
		"generation", gen,
		"changes", len(changes),
		"units", e.buildUnits,
		"yields", e.buildYields,
		"layout_effects", len(layout),
		"passive_effects", len(passive),
		"freed", freed,
	)

	if e.journal != nil {
		if err := e.record(ctx, gen, changes, len(layout), len(passive)); err != nil {
			errs = append(errs, err)
		}
	}

	if e.deferredUpdate {
		e.deferredUpdate = false
		e.ScheduleUpdate()
	}

	return errors.Join(errs...)
}

// commitNode applies one node's effect tag and clears its diff-only
// fields. It reports the change to journal, if any.
func (e *Engine) commitNode(id fiber.NodeID, n *fiber.Node, depth int) (ir.Change, bool) {
	var (
		change ir.Change
		ok     bool
	)
	switch n.Effect {
	case fiber.EffectCreate:
		e.place(id, n)
		change = ir.Change{Tag: n.Effect.String(), Set: n.Props.Names()}
		ok = true

	case fiber.EffectUpdate:
		set, cleared := e.applyUpdate(n)
		if n.Moved {
			e.place(id, n)
		}
		if n.Moved || len(set) > 0 || len(cleared) > 0 {
			change = ir.Change{Tag: n.Effect.String(), Set: set, Cleared: cleared}
			if n.Moved {
				change.Tag = changeMove
			}
			ok = true
		}
	}

	n.Effect = fiber.EffectNone
	n.Moved = false
	n.Alternate = fiber.None

	if !ok {
		return ir.Change{}, false
	}
	change.Type = n.Type.String()
	change.Key = n.Key
	change.Depth = int64(depth)
	return change, true
}

// applyUpdate diffs a host node's props against its previous generation.
// Stale attributes are cleared before new values are set.
func (e *Engine) applyUpdate(n *fiber.Node) (set, cleared []string) {
	if !n.Type.IsHost() || n.Handle == nil {
		return nil, nil
	}
	var prev fiber.Props
	if alt := e.arena.Get(n.Alternate); alt != nil {
		prev = alt.Props
	}
	attrs, clearNames := fiber.DiffAttrs(prev, n.Props)
	for _, name := range clearNames {
		e.host.ClearAttribute(n.Handle, name)
	}
	for _, a := range attrs {
		e.host.SetAttribute(n.Handle, a.Name, a.Value)
		set = append(set, a.Name)
	}
	return set, clearNames
}

// place attaches a created or moved node under its nearest host ancestor,
// before the next stable host sibling when the host supports it. A
// component is placed through its topmost host descendants.
func (e *Engine) place(id fiber.NodeID, n *fiber.Node) {
	if !n.Type.IsHost() && n.Effect == fiber.EffectCreate {
		// Created host descendants are placed by their own Create tag.
		return
	}
	parent := e.hostParent(id)
	if parent == nil {
		return
	}
	before := e.hostSibling(id)

	if n.Type.IsHost() {
		e.insert(parent, n.Handle, before)
		return
	}
	for _, h := range e.hostChildren(id) {
		e.insert(parent, h, before)
	}
}

func (e *Engine) insert(parent, child, before fiber.Handle) {
	if child == nil {
		return
	}
	if ins, ok := e.host.(host.Inserter); ok && before != nil {
		ins.InsertChildBefore(parent, child, before)
		return
	}
	e.host.AttachChild(parent, child)
}

// detach removes a node's host handles from its nearest host ancestor.
func (e *Engine) detach(id fiber.NodeID, n *fiber.Node) {
	parent := e.hostParent(id)
	if parent == nil {
		return
	}
	if n.Type.IsHost() {
		if n.Handle != nil {
			e.host.DetachChild(parent, n.Handle)
		}
		return
	}
	for _, h := range e.hostChildren(id) {
		e.host.DetachChild(parent, h)
	}
}

// hostParent returns the handle of the nearest ancestor that has one.
func (e *Engine) hostParent(id fiber.NodeID) fiber.Handle {
	for p := e.arena.Get(id).Parent; p != fiber.None; {
		pn := e.arena.Get(p)
		if pn.Type.IsHost() && pn.Handle != nil {
			return pn.Handle
		}
		p = pn.Parent
	}
	return nil
}

// hostChildren returns the handles of the topmost host descendants of a
// non-host node, in tree order.
func (e *Engine) hostChildren(id fiber.NodeID) []fiber.Handle {
	var out []fiber.Handle
	for _, c := range e.arena.Children(id) {
		cn := e.arena.Get(c)
		if cn.Type.IsHost() {
			if cn.Handle != nil {
				out = append(out, cn.Handle)
			}
			continue
		}
		out = append(out, e.hostChildren(c)...)
	}
	return out
}

// hostSibling returns the handle of the first host node after id, in tree
// order under the same host parent, that is already in place. Created and
// moved nodes are not yet in place and are skipped.
func (e *Engine) hostSibling(id fiber.NodeID) fiber.Handle {
	a := e.arena
	node := id
siblings:
	for {
		for a.Get(node).Sibling == fiber.None {
			parent := a.Get(node).Parent
			if parent == fiber.None || a.Get(parent).Type.IsHost() {
				return nil
			}
			node = parent
		}
		node = a.Get(node).Sibling

		for {
			n := a.Get(node)
			if n.Effect == fiber.EffectCreate || n.Moved {
				continue siblings
			}
			if n.Type.IsHost() {
				if n.Handle != nil {
					return n.Handle
				}
				continue siblings
			}
			if n.Child == fiber.None {
				continue siblings
			}
			node = n.Child
		}
	}
}

// depth returns the number of ancestors of id.
func (e *Engine) depth(id fiber.NodeID) int {
	d := 0
	for p := e.arena.Get(id).Parent; p != fiber.None; p = e.arena.Get(p).Parent {
		d++
	}
	return d
}

// runEffect runs one queued effect, recovering a panic into an error.
func (e *Engine) runEffect(eff fiber.QueuedEffect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newEffectError(e.arena.Get(eff.Node), eff.Node, r)
			e.logger.Error("effect failed", "node", eff.Node, "layout", eff.Layout, "error", err)
		}
	}()
	eff.Run()
	return nil
}

// record writes the commit to the journal.
func (e *Engine) record(ctx context.Context, gen int64, changes []ir.Change, layout, passive int) error {
	session := e.Session()
	if changes == nil {
		changes = []ir.Change{}
	}
	id, err := ir.CommitID(session, gen, changes)
	if err != nil {
		return fmt.Errorf("commit %d: %w", gen, err)
	}
	rec := ir.CommitRecord{
		ID:            id,
		Session:       session,
		Generation:    gen,
		Units:         e.buildUnits,
		Yields:        e.buildYields,
		Layout:        int64(layout),
		Passive:       int64(passive),
		Changes:       changes,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if err := e.journal.RecordCommit(ctx, rec); err != nil {
		return fmt.Errorf("journal commit %d: %w", gen, err)
	}
	return nil
}
