package fiber

import (
	"io"
	"log/slog"
)

// Updater receives re-render requests from state setters and dispatchers.
type Updater interface {
	ScheduleUpdate()
}

// EffectSink collects the effects queued by a render.
type EffectSink interface {
	QueueEffect(e QueuedEffect)
}

// QueuedEffect is an effect waiting for the next commit. Deps and Callback
// are written to Slot when it runs.
type QueuedEffect struct {
	Node     NodeID
	Slot     *EffectSlot
	Callback func()
	Deps     Deps
	Layout   bool
}

// Run records the effect's deps and callback on its slot, marks it run and
// invokes the callback.
func (e QueuedEffect) Run() {
	e.Slot.Deps = e.Deps
	e.Slot.Callback = e.Callback
	e.Slot.HasRun = true
	if e.Callback != nil {
		e.Callback()
	}
}

// Context is the render-call-local handle every hook requires. It binds
// the node being rendered and the dispatch strategy chosen for it, and is
// invalidated by End.
type Context struct {
	id       NodeID
	node     *Node
	dispatch dispatcher
	updater  Updater
	effects  EffectSink
	logger   *slog.Logger
	active   bool
}

// Begin starts a render of node id. The first-render strategy is used
// while n.FirstRender is set, the subsequent-render strategy otherwise.
func Begin(id NodeID, n *Node, updater Updater, effects EffectSink, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	n.Cursor = 0
	n.DebugValues = nil
	var d dispatcher = updateDispatcher{}
	if n.FirstRender {
		d = mountDispatcher{}
	}
	return &Context{
		id:       id,
		node:     n,
		dispatch: d,
		updater:  updater,
		effects:  effects,
		logger:   logger,
		active:   true,
	}
}

// End closes the render. It fails when a subsequent render consumed fewer
// slots than the store holds, and flips FirstRender off otherwise.
func (c *Context) End() error {
	c.active = false
	n := c.node
	if !n.FirstRender && n.Cursor != n.Slots.Len() {
		return &HookOrderViolation{
			Component: n.Name(),
			Index:     n.Cursor,
			Reason:    "fewer hooks called than in the previous render",
		}
	}
	n.FirstRender = false
	return nil
}

// Abort invalidates c without completing the render, for a render that
// panicked. The node keeps its first-render flag.
func (c *Context) Abort() {
	c.active = false
}

// Node returns the id of the node being rendered.
func (c *Context) Node() NodeID {
	return c.id
}

// Mounting reports whether this is the node's first render.
func (c *Context) Mounting() bool {
	return c.node.FirstRender
}

// enter checks that c is an active render context.
func (c *Context) enter(hook string) {
	if c == nil || !c.active {
		panic(&DispatchContextError{Hook: hook})
	}
}

// alloc appends a slot at the cursor (first-render strategy).
func (c *Context) alloc(slot Slot) {
	n := c.node
	if n.Slots == nil {
		n.Slots = NewSlotStore()
	}
	n.Slots.put(n.Cursor, slot)
	n.Cursor++
}

// read returns the slot at the cursor, checking its kind
// (subsequent-render strategy).
func (c *Context) read(hook string, want SlotKind) Slot {
	n := c.node
	i := n.Cursor
	slot := n.Slots.At(i)
	if slot == nil {
		panic(&HookOrderViolation{
			Component: n.Name(),
			Hook:      hook,
			Index:     i,
			Reason:    "more hooks called than in the previous render",
		})
	}
	if slot.Kind() != want {
		panic(&HookOrderViolation{
			Component: n.Name(),
			Hook:      hook,
			Index:     i,
			Want:      want,
			Got:       slot.Kind(),
		})
	}
	n.Cursor++
	return slot
}

// mismatch panics for a slot whose stored value has the wrong Go type.
func (c *Context) mismatch(hook string, kind SlotKind, index int) {
	panic(&HookOrderViolation{
		Component: c.node.Name(),
		Hook:      hook,
		Index:     index,
		Reason:    "stored " + kind.String() + " value has a different type",
	})
}
