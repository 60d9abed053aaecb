// Package store provides SQLite-backed durable storage for arbor commit
// journals.
//
// The store is an append-only log with:
//   - Commits: one record per committed generation, grouped by session
//   - Changes: the per-node changes a commit applied, in commit order
//
// # Patterns
//
// Idempotent writes
//   - Commit IDs are content-addressed (see internal/ir/hash.go)
//   - Writing the same commit twice is a no-op
//
// Deterministic query results
//   - Commits are ordered by generation ASC, id ASC COLLATE BINARY
//   - Changes are ordered by ordinal ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Attribute name lists are stored as canonical JSON produced by
// ir.MarshalCanonical.
package store
