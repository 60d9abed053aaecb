package components

import "github.com/roach88/arbor/internal/fiber"

// Greeting is a stateless component. Props: name (default "world").
func Greeting() *fiber.Component {
	return fiber.NewComponent("Greeting", func(_ *fiber.Context, p fiber.Props) fiber.Element {
		who := p.String("name")
		if who == "" {
			who = "world"
		}
		return fiber.H("p", fiber.A("class", "greeting"), "hello, ", who)
	})
}
