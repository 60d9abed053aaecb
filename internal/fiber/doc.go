// Package fiber provides the node model and hook state machinery of the
// arbor reconciler.
//
// The package contains no scheduling logic. It defines:
//   - Element: the declarative description a render produces
//   - Node and Arena: the per-generation tree records, addressed by NodeID
//   - Slot: the closed set of hook state cells persisted across renders
//   - Context: the render-call-local handle every hook requires
//
// # Generations
//
// Each render pass allocates a fresh Node for every position it visits.
// A node reused from the previous generation shares that generation's
// SlotStore by reference, so state written by a setter is visible to the
// next render regardless of which generation captured the setter.
//
// # Hooks
//
// Hooks are plain generic functions taking the *Context passed to the
// component's RenderFunc:
//
//	var Counter = fiber.NewComponent("Counter", func(c *fiber.Context, p fiber.Props) fiber.Element {
//	    count, set := fiber.UseState(c, 0)
//	    fiber.UseEffect(c, func() { log.Println("count", count) }, fiber.DepsOf(count))
//	    return fiber.H("button", fiber.A("onclick", func() { set.Set(count + 1) }), count)
//	})
//
// A Context is valid only while its render runs. Calling a hook with a
// stale or nil Context panics with *DispatchContextError. Calling hooks in
// a different order or number than the previous render of the same node
// panics with *HookOrderViolation. The engine recovers both and reports
// them as render errors.
package fiber
