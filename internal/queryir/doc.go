// Package queryir provides the abstract query plan built from structured
// requests and consumed by storage backends.
//
// The plan sits between request translation and storage:
//
//	[Request] → [querybuild] → [Query plan] → [querysql] → SQLite
//
// A plan is fully resolved. Field references name storage columns and the
// join prefix they live under, values are concrete (time shortcuts already
// resolved), and every join the plan needs is listed exactly once.
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package implement them, so backends can switch
// exhaustively:
//
//	switch q := query.(type) {
//	case *EntityQuery:
//	    // rows of one entity type
//	case *AggregateQuery:
//	    // one aggregate, optionally grouped
//	}
//
// JOINS:
//
// Joins are to-one and keyed by their dot-path prefix ("project",
// "project.client"). A plan lists one Join per distinct prefix, ancestors
// before descendants, in lexicographic order of prefix. A missing related
// row yields NULL joined columns; the base row is kept.
//
// PREDICATES:
//
// There is no OR. A plan's filter is a single And over leaf predicates:
// Compare, In, Match, Null, HasTag, HasAnyTag.
package queryir
