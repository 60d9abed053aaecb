package components

import (
	"fmt"

	"github.com/roach88/arbor/internal/fiber"
)

// CounterHandle is the imperative handle a Counter publishes through its
// ref.
type CounterHandle struct {
	Increment func()
	Reset     func()
	// Commits reports how many commits the counter has been part of.
	Commits func() int
}

// Counter renders a count with its double and a running total of every
// increment. Props: name (action prefix, default "counter"), start, step.
//
// Actions: <name>.increment, <name>.reset.
func Counter(controls *Controls) *fiber.Component {
	return fiber.NewComponent("Counter", func(c *fiber.Context, p fiber.Props) fiber.Element {
		name := p.String("name")
		if name == "" {
			name = "counter"
		}
		start := p.Int("start", 0)
		step := p.Int("step", 1)

		count, setCount := fiber.UseState(c, start)
		total, add := fiber.UseReducer(c, func(sum, n int) int { return sum + n }, 0)
		commits := fiber.UseRef(c, 0)
		doubled := fiber.UseMemo(c, func() int { return count * 2 }, fiber.DepsOf(count))
		increment := fiber.UseCallback(c, func() {
			setCount.Update(func(n int) int { return n + step })
			add(step)
		}, fiber.DepsOf(step))
		handle := fiber.UseRef[*CounterHandle](c, nil)
		fiber.UseImperativeHandle(c, handle, func() *CounterHandle {
			return &CounterHandle{
				Increment: increment,
				Reset:     func() { setCount.Set(start) },
				Commits:   func() int { return commits.Current },
			}
		}, fiber.DepsOf(step, start))
		fiber.UseDebugValue(c, count, func(v any) string { return fmt.Sprintf("count=%v", v) })

		fiber.UseLayoutEffect(c, func() {
			controls.Register(name+".increment", func() { handle.Current.Increment() })
			controls.Register(name+".reset", func() { handle.Current.Reset() })
		}, fiber.DepsOf(name))
		fiber.UseEffect(c, func() {
			commits.Current++
		}, nil)

		return fiber.H("div", fiber.A("class", "counter", "data-name", name),
			fiber.H("span", fiber.A("class", "count"), count),
			fiber.H("span", fiber.A("class", "doubled"), doubled),
			fiber.H("span", fiber.A("class", "total"), total),
			fiber.H("button", fiber.A("data-action", name+".increment"), fmt.Sprintf("+%d", step)),
		)
	})
}
