// Package engine drives arbor's render loop.
//
// The engine owns one render root: the committed tree (current), at most
// one tree under construction (work in progress), the nodes slated for
// host detachment and the effects queued by the build.
//
// ARCHITECTURE:
//
// Single-Writer Task Loop:
// All tree mutation happens on the goroutine that drives the engine
// through Run, Flush or Step. Render, Dispatch and ScheduleUpdate only
// enqueue tasks and are safe from any goroutine:
// - mount: start a build from a new root element
// - update: start a build from a copy of the current root
// - work: perform units until the time slice runs out, then yield
// - call: run a Dispatch callback
//
// Work Loop:
// A build visits each node once in pre-order. A component unit renders the
// component under a fresh fiber.Context and reconciles its single child; a
// host unit materialises the handle if needed and reconciles
// props.children. After every unit the engine consults the host scheduler's
// deadline. On exhaustion it enqueues a work task and returns; the next
// tick resumes at the same NextUnit.
//
// Commit:
// When no unit is left the build commits in one synchronous pass:
// 1. Detach the host handles of every pending removal
// 2. Depth-first: attach Create nodes, apply attribute diffs of Update nodes
// 3. Run layout effects, then passive effects, in registration order
// 4. Promote the work in progress to current and free the old generation
//
// Setter calls mark a single update flag, so any number of calls before the
// update task runs produce one build and one commit. An update arriving
// while a build is in flight discards that build and starts over.
package engine
