// Package store provides the SQLite-backed storage the query engine reads.
//
// The store owns the eight entity tables and executes compiled query plans
// against them. It writes only to load fixtures; the query engine never
// writes.
//
// # Critical Patterns
//
// Deterministic Query Results
//   - Entity queries always end in ORDER BY ... id COLLATE BINARY ASC
//   - Grouped aggregates are ordered by their group columns
//
// Text-Encoded Temporal Values
//   - Dates and timestamps are fixed-width TEXT so comparison is ordering
//   - Columns are declared TEXT so the driver never converts them to time.Time
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Enforce fixture references
//
// # Schema Versioning
//
// PRAGMA user_version tracks the schema version. Open applies schema.sql
// and then each migration above the stored version.
package store
