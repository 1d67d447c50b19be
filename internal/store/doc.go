// Package store provides SQLite-backed storage for enumeration results.
//
// The store keeps, per run:
//   - Runs: the exercise parameters, final digest and counts
//   - Results: one row per distinct line with its derivation count
//   - Result notes: one row per (line, position), for per-position queries
//
// A Store implements engine.Sink, so a run can record into it as lines
// complete. Most callers open it in memory (":memory:") to query a result
// set with SQL; a file path keeps results across invocations.
//
// # Deterministic Query Results
//
// Every listing query orders by line COLLATE BINARY, so results compare
// equal across policies, worker counts and repeated runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes (file databases)
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Line hashes are computed with internal/canonical using RFC 8785
// canonical JSON and SHA-256 with domain separation.
package store
