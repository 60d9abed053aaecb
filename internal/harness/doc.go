// Package harness runs declarative render scenarios against the engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	mode: keyed            # optional, positional by default
//	units: 3               # optional units per time slice, 0 never yields
//	steps:
//	  - render: {type: Counter, props: {name: c}}
//	  - view: ../views/app.cue
//	  - invoke: c.increment
//	    times: 2
//	assertions:
//	  - type: html
//	    expect: "<div>...</div>"
//	  - type: commit_count
//	    count: 3
//	  - type: trace_count
//	    op: create
//	    node_type: li
//	    count: 2
//
// A render step mounts an inline element, a view step mounts a CUE view
// (paths are relative to the scenario file) and an invoke step runs a
// component action published through components.Controls.
//
// # Assertion Types
//
//   - html: the host tree serialises to exactly the expected string
//   - commit_count: the engine committed exactly N generations
//   - journal_commits: the journal holds exactly N commits for the session
//   - trace_contains: some host mutation matches the filter
//   - trace_count: exactly N host mutations match the filter
//
// Trace filters match on op, node_type, name and value; empty fields match
// anything.
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory host and an in-memory
// SQLite journal, with a fixed session token and a unit-budget scheduler,
// so the same scenario always produces the same trace and commit IDs.
// RunWithGolden compares the trace against testdata/golden.
package harness
