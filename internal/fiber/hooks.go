package fiber

import "fmt"

// StateSetter writes a UseState slot and requests a coalesced re-render.
// It stays valid across renders of the same node.
type StateSetter[T any] struct {
	slot    *StateSlot
	updater Updater
}

// Set replaces the state value.
func (s StateSetter[T]) Set(value T) {
	s.slot.Value = value
	s.schedule()
}

// Update applies transform to the current state value.
func (s StateSetter[T]) Update(transform func(T) T) {
	cur, _ := s.slot.Value.(T)
	s.slot.Value = transform(cur)
	s.schedule()
}

func (s StateSetter[T]) schedule() {
	if s.updater != nil {
		s.updater.ScheduleUpdate()
	}
}

// Ref is a mutable box that keeps its identity across renders.
type Ref[T any] struct {
	Current T
}

// UseState returns the node's state value and its setter.
func UseState[T any](c *Context, initial T) (T, StateSetter[T]) {
	c.enter("UseState")
	return useState[T](c, "UseState", func() any { return initial })
}

// UseStateFunc is UseState with a lazily evaluated initial value; init
// runs only on the first render.
func UseStateFunc[T any](c *Context, init func() T) (T, StateSetter[T]) {
	c.enter("UseStateFunc")
	return useState[T](c, "UseStateFunc", func() any { return init() })
}

func useState[T any](c *Context, hook string, init func() any) (T, StateSetter[T]) {
	index := c.node.Cursor
	s := c.dispatch.state(c, hook, init)
	v, ok := s.Value.(T)
	if !ok && s.Value != nil {
		c.mismatch(hook, KindState, index)
	}
	return v, StateSetter[T]{slot: s, updater: c.updater}
}

// UseReducer returns the reducer state and a dispatch function. Each
// dispatched action is applied immediately, in call order, and requests a
// coalesced re-render.
func UseReducer[S, A any](c *Context, reducer func(S, A) S, initial S) (S, func(A)) {
	c.enter("UseReducer")
	return useReducer(c, "UseReducer", reducer, func() any { return initial })
}

// UseReducerInit is UseReducer with the initial state computed as
// init(arg) on the first render.
func UseReducerInit[S, A, I any](c *Context, reducer func(S, A) S, arg I, init func(I) S) (S, func(A)) {
	c.enter("UseReducerInit")
	return useReducer(c, "UseReducerInit", reducer, func() any { return init(arg) })
}

func useReducer[S, A any](c *Context, hook string, reducer func(S, A) S, init func() any) (S, func(A)) {
	index := c.node.Cursor
	s := c.dispatch.reducer(c, hook, init)
	v, ok := s.Value.(S)
	if !ok && s.Value != nil {
		c.mismatch(hook, KindReducer, index)
	}
	updater := c.updater
	dispatch := func(action A) {
		cur, _ := s.Value.(S)
		s.Value = reducer(cur, action)
		if updater != nil {
			updater.ScheduleUpdate()
		}
	}
	return v, dispatch
}

// UseRef returns a box whose identity is stable across renders.
func UseRef[T any](c *Context, initial T) *Ref[T] {
	c.enter("UseRef")
	index := c.node.Cursor
	s := c.dispatch.ref(c, "UseRef", func() any { return &Ref[T]{Current: initial} })
	ref, ok := s.Current.(*Ref[T])
	if !ok {
		c.mismatch("UseRef", KindRef, index)
	}
	return ref
}

// UseMemo returns compute()'s value, recomputing only when deps change.
func UseMemo[T any](c *Context, compute func() T, deps Deps) T {
	c.enter("UseMemo")
	index := c.node.Cursor
	s := c.dispatch.memo(c, "UseMemo", func() any { return compute() }, deps)
	v, ok := s.Value.(T)
	if !ok && s.Value != nil {
		c.mismatch("UseMemo", KindMemo, index)
	}
	return v
}

// UseCallback returns fn, or the fn cached from an earlier render while
// deps are unchanged.
func UseCallback[F any](c *Context, fn F, deps Deps) F {
	c.enter("UseCallback")
	index := c.node.Cursor
	s := c.dispatch.callback(c, "UseCallback", fn, deps)
	cached, ok := s.Callback.(F)
	if !ok {
		c.mismatch("UseCallback", KindCallback, index)
	}
	return cached
}

// UseEffect queues fn to run after the commit, following all layout
// effects. It is queued on the first render and whenever deps change.
func UseEffect(c *Context, fn func(), deps Deps) {
	c.enter("UseEffect")
	c.dispatch.effect(c, "UseEffect", fn, deps, false)
}

// UseLayoutEffect is UseEffect for the layout class, which runs before
// any passive effect of the same commit.
func UseLayoutEffect(c *Context, fn func(), deps Deps) {
	c.enter("UseLayoutEffect")
	c.dispatch.effect(c, "UseLayoutEffect", fn, deps, true)
}

// UseImperativeHandle sets ref.Current to factory() during the layout
// phase of the commit, on the first render and whenever deps change.
func UseImperativeHandle[T any](c *Context, ref *Ref[T], factory func() T, deps Deps) {
	c.enter("UseImperativeHandle")
	c.dispatch.effect(c, "UseImperativeHandle", func() {
		if ref != nil {
			ref.Current = factory()
		}
	}, deps, true)
}

// UseDebugValue labels the node for debug output. It allocates no slot.
// format may be nil.
func UseDebugValue(c *Context, value any, format func(any) string) {
	c.enter("UseDebugValue")
	label := fmt.Sprint(value)
	if format != nil {
		label = format(value)
	}
	c.node.DebugValues = append(c.node.DebugValues, label)
	c.logger.Debug("debug value", "node", c.id, "component", c.node.Name(), "value", label)
}
