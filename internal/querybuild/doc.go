// Package querybuild turns structured requests into query plans.
//
// Building is two-phase. Every filter and group_by path is resolved first and
// its relationship prefix, with all of its ancestors, is recorded in a join
// set. Joins are then materialized once per set member in sorted order, so a
// prefix referenced by several filters or by both a filter and a group_by is
// joined exactly once and the plan does not depend on filter order.
//
// Building is pure: the same request against the same registry and clock
// always produces the same plan, and a Builder may be shared between
// goroutines.
package querybuild
