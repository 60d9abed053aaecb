package components

import (
	"fmt"
	"strings"

	"github.com/roach88/arbor/internal/fiber"
)

// List renders keyed list items. Props: name (action prefix, default
// "list"), items (comma-separated initial items).
//
// Actions: <name>.push, <name>.pop, <name>.rotate, <name>.reverse.
func List(controls *Controls) *fiber.Component {
	return fiber.NewComponent("List", func(c *fiber.Context, p fiber.Props) fiber.Element {
		name := p.String("name")
		if name == "" {
			name = "list"
		}

		items, setItems := fiber.UseStateFunc(c, func() []string {
			return SplitItems(p.String("items"))
		})
		next := fiber.UseRef(c, len(items))
		fiber.UseDebugValue(c, len(items), func(v any) string { return fmt.Sprintf("items=%v", v) })

		fiber.UseLayoutEffect(c, func() {
			controls.Register(name+".push", func() {
				next.Current++
				item := fmt.Sprintf("n%d", next.Current)
				setItems.Update(func(s []string) []string {
					return append(append([]string(nil), s...), item)
				})
			})
			controls.Register(name+".pop", func() {
				setItems.Update(func(s []string) []string {
					if len(s) == 0 {
						return s
					}
					return append([]string(nil), s[:len(s)-1]...)
				})
			})
			controls.Register(name+".rotate", func() {
				setItems.Update(Rotate)
			})
			controls.Register(name+".reverse", func() {
				setItems.Update(Reverse)
			})
		}, fiber.DepsOf(name))

		children := make([]fiber.Element, len(items))
		for i, it := range items {
			children[i] = fiber.H("li", nil, it).WithKey(it)
		}
		return fiber.H("ul", fiber.A("class", "list", "data-name", name), children)
	})
}

// SplitItems splits a comma-separated list, trimming blanks.
func SplitItems(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Rotate returns a copy of s with the first item moved to the end.
func Rotate(s []string) []string {
	if len(s) < 2 {
		return s
	}
	out := make([]string, 0, len(s))
	out = append(out, s[1:]...)
	return append(out, s[0])
}

// Reverse returns a reversed copy of s.
func Reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
