package fiber

// dispatcher is a hook strategy. mountDispatcher allocates slots on a
// node's first render; updateDispatcher reads them back afterwards.
type dispatcher interface {
	state(c *Context, hook string, init func() any) *StateSlot
	reducer(c *Context, hook string, init func() any) *ReducerSlot
	ref(c *Context, hook string, init func() any) *RefSlot
	memo(c *Context, hook string, compute func() any, deps Deps) *MemoSlot
	callback(c *Context, hook string, fn any, deps Deps) *CallbackSlot
	effect(c *Context, hook string, fn func(), deps Deps, layout bool)
}

type mountDispatcher struct{}

func (mountDispatcher) state(c *Context, _ string, init func() any) *StateSlot {
	s := &StateSlot{Value: init()}
	c.alloc(s)
	return s
}

func (mountDispatcher) reducer(c *Context, _ string, init func() any) *ReducerSlot {
	s := &ReducerSlot{Value: init()}
	c.alloc(s)
	return s
}

func (mountDispatcher) ref(c *Context, _ string, init func() any) *RefSlot {
	s := &RefSlot{Current: init()}
	c.alloc(s)
	return s
}

func (mountDispatcher) memo(c *Context, _ string, compute func() any, deps Deps) *MemoSlot {
	s := &MemoSlot{Value: compute(), Deps: deps}
	c.alloc(s)
	return s
}

func (mountDispatcher) callback(c *Context, _ string, fn any, deps Deps) *CallbackSlot {
	s := &CallbackSlot{Callback: fn, Deps: deps}
	c.alloc(s)
	return s
}

func (mountDispatcher) effect(c *Context, _ string, fn func(), deps Deps, layout bool) {
	s := &EffectSlot{IsLayoutEffect: layout}
	c.alloc(s)
	c.queue(s, fn, deps)
}

type updateDispatcher struct{}

func (updateDispatcher) state(c *Context, hook string, _ func() any) *StateSlot {
	return c.read(hook, KindState).(*StateSlot)
}

func (updateDispatcher) reducer(c *Context, hook string, _ func() any) *ReducerSlot {
	return c.read(hook, KindReducer).(*ReducerSlot)
}

func (updateDispatcher) ref(c *Context, hook string, _ func() any) *RefSlot {
	return c.read(hook, KindRef).(*RefSlot)
}

func (updateDispatcher) memo(c *Context, hook string, compute func() any, deps Deps) *MemoSlot {
	s := c.read(hook, KindMemo).(*MemoSlot)
	if DepsChanged(s.Deps, deps) {
		s.Value = compute()
		s.Deps = deps
	}
	return s
}

func (updateDispatcher) callback(c *Context, hook string, fn any, deps Deps) *CallbackSlot {
	s := c.read(hook, KindCallback).(*CallbackSlot)
	if DepsChanged(s.Deps, deps) {
		s.Callback = fn
		s.Deps = deps
	}
	return s
}

func (updateDispatcher) effect(c *Context, hook string, fn func(), deps Deps, layout bool) {
	index := c.node.Cursor
	s := c.read(hook, KindEffect).(*EffectSlot)
	if s.IsLayoutEffect != layout {
		panic(&HookOrderViolation{
			Component: c.node.Name(),
			Hook:      hook,
			Index:     index,
			Reason:    "layout and passive effects swapped",
		})
	}
	if DepsChanged(s.Deps, deps) {
		c.queue(s, fn, deps)
	}
}

// queue hands an effect to the commit that follows this render.
func (c *Context) queue(s *EffectSlot, fn func(), deps Deps) {
	if c.effects == nil {
		return
	}
	c.effects.QueueEffect(QueuedEffect{
		Node:     c.id,
		Slot:     s,
		Callback: fn,
		Deps:     deps,
		Layout:   s.IsLayoutEffect,
	})
}
