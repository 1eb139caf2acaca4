// Package store provides the SQLite-backed host asset store.
//
// The store holds controllers, generated and imported clips, the output
// containers they live in, expression-parameter lists and a log of
// committed runs. It implements engine.Host.
//
// # Atomic commits
//
// Commit writes a whole engine.Changeset in one transaction: the container,
// every clip, the controller, the expression list and the run record. A
// failure anywhere rolls back all of it, so a failed run never leaves a
// half-injected controller behind.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Controllers, clips and lists are stored as JSON TEXT. Clip bodies use the
// canonical form from clips.MarshalCanonical so the stored hash can be
// recomputed from the stored body.
package store
