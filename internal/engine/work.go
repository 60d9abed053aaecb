package engine

import (
	"context"

	"github.com/roach88/arbor/internal/fiber"
)

// work performs units until the slice runs out or the tree is built, and
// commits a finished tree.
func (e *Engine) work(ctx context.Context) error {
	e.mu.Lock()
	e.workScheduled = false
	e.mu.Unlock()

	if e.wip == fiber.None {
		return nil
	}

	deadline := e.scheduler.Slice(e.budget)
	for e.nextUnit != fiber.None {
		if err := e.performUnit(e.nextUnit); err != nil {
			e.logger.Error("render failed, discarding work in progress", "error", err)
			e.discard()
			return err
		}
		e.nextUnit = e.advance(e.nextUnit)

		if e.nextUnit != fiber.None && deadline.TimeRemaining() < yieldThreshold {
			e.buildYields++
			e.count(func(s *Stats) { s.Yields++ })
			e.logger.Debug("yield", "next_unit", e.nextUnit, "units", e.buildUnits)
			e.scheduleWork()
			return nil
		}
	}

	return e.commit(ctx)
}

// performUnit renders or materialises one node and reconciles its
// children.
func (e *Engine) performUnit(id fiber.NodeID) error {
	n := e.arena.Get(id)
	e.buildUnits++
	e.count(func(s *Stats) { s.Units++ })

	var children []fiber.Element
	switch {
	case n.Type.IsComponent():
		child, err := e.renderComponent(id, n)
		if err != nil {
			return err
		}
		children = []fiber.Element{child}
	case n.Type.IsHost():
		if n.Handle == nil {
			n.Handle = e.host.CreateNode(n.Type.Tag(), n.Props)
		}
		children = n.Props.Children
	default:
		// An empty description materialises nothing.
		return nil
	}

	e.logger.Debug("unit", "node", id, "type", n.Name(), "effect", n.Effect.String())

	removed := e.rec.Children(id, children)
	e.pendingRemovals = append(e.pendingRemovals, removed...)
	return nil
}

// renderComponent calls the component's render function under a context
// bound to this invocation.
func (e *Engine) renderComponent(id fiber.NodeID, n *fiber.Node) (child fiber.Element, err error) {
	c := fiber.Begin(id, n, e, &e.effects, e.logger)
	defer func() {
		if r := recover(); r != nil {
			c.Abort()
			err = newRenderError(n, id, r)
		}
	}()

	child = n.Component().Render(c, n.Props)

	if endErr := c.End(); endErr != nil {
		return fiber.Element{}, &RenderError{
			Code:      ErrCodeHookOrder,
			Component: n.Name(),
			Node:      id,
			Err:       endErr,
		}
	}
	return child, nil
}

// advance returns the next node in pre-order: the first child, else the
// nearest ancestor's next sibling, else None once back at the root.
func (e *Engine) advance(id fiber.NodeID) fiber.NodeID {
	n := e.arena.Get(id)
	if n.Child != fiber.None {
		return n.Child
	}
	for cur := id; cur != fiber.None && cur != e.wip; {
		c := e.arena.Get(cur)
		if c.Sibling != fiber.None {
			return c.Sibling
		}
		cur = c.Parent
	}
	return fiber.None
}
