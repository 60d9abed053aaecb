// Package compiler turns declarative view files into element trees.
//
// A view is a CUE struct naming a type, optional key, props and children:
//
//	view: {
//		type: "div"
//		props: class: "app"
//		children: [
//			"hello",
//			{type: "Counter", key: "c1", props: start: 2},
//		]
//	}
//
// Capitalised types resolve to registered components through a Resolver.
// Lowercase types are host tags. Scalar children become text leaves and
// null children become empty slots. Prop values must be strings, ints or
// bools; floats are rejected so views stay deterministic.
//
// ElementFromValue accepts the same shape decoded from YAML or JSON, which
// is how scenario files embed inline elements.
package compiler
