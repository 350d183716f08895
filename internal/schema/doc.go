// Package schema holds the static registry of queryable entity types and
// resolves dot-separated field paths against it.
//
// The registry maps each entity type to its storage table and typed field
// descriptors, to the relationship paths that may be traversed from it, and
// to the handful of external field names that differ from storage names.
// It is built and validated once, then only read, so concurrent use needs
// no synchronization.
package schema
