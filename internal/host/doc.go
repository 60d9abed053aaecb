// Package host defines the collaborator that owns the real tree arbor
// renders into, and the scheduling primitive the work loop consults.
//
// A Host receives four primitives: create a node, set or clear one
// attribute, and attach or detach a child. The engine never passes the
// children prop through as an attribute. Host calls are assumed infallible;
// a back-end that can fail must surface its failures itself.
//
// Memory is an in-memory Host used by the CLI, the scenario harness and the
// tests. It records every primitive as an ir.Mutation.
package host
