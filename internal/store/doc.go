// Package store provides SQLite-backed generation history.
//
// Every generate run is recorded with the fingerprint of each emitted
// declaration, so later runs can report what changed:
//   - Runs: one row per generation, identified by a UUIDv7
//   - Declarations: per-run emitted declarations in emission order
//
// # Ordering
//
// Runs carry a seq INTEGER logical clock assigned at write time. All
// queries order by seq (then id COLLATE BINARY); created_at is
// informational only.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Fingerprints are computed by internal/ir from canonical JSON and
// SHA-256 with domain separation.
package store
