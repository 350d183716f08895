package queryir

import (
	"fmt"
	"slices"
)

// ValidationResult lists structural problems found in a plan.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes each violation found.
	Problems []string
}

// Err returns nil for a valid plan, otherwise an error listing every problem.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid query plan: %v", r.Problems)
}

// Validate checks the structural invariants backends rely on:
//  1. Joins are sorted by path and listed once each
//  2. Each join's parent is the root or an earlier join
//  3. Every field reference lives on the root or a joined path
//  4. Limit is positive and offset non-negative when set
//
// Validate is a pure function with no side effects.
func Validate(query Query) ValidationResult {
	v := &validator{problems: []string{}}
	v.validateQuery(query)

	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	problems []string
	joined   map[string]bool
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case *EntityQuery:
		v.validateEntity(*query)
	case EntityQuery:
		v.validateEntity(query)
	case *AggregateQuery:
		v.validateAggregate(*query)
	case AggregateQuery:
		v.validateAggregate(query)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateEntity(q EntityQuery) {
	if q.Table == "" {
		v.addProblem("entity query has no table")
	}
	if len(q.Columns) == 0 {
		v.addProblem("entity query selects no columns")
	}
	v.validateJoins(q.Joins)
	v.validatePredicate(q.Filter)
	for _, o := range q.OrderBy {
		v.validateField("order by", o.Field)
	}
	if q.Limit != nil && *q.Limit < 1 {
		v.addProblem("limit %d is not positive", *q.Limit)
	}
	if q.Offset != nil && *q.Offset < 0 {
		v.addProblem("offset %d is negative", *q.Offset)
	}
}

func (v *validator) validateAggregate(q AggregateQuery) {
	if q.Table == "" {
		v.addProblem("aggregate query has no table")
	}
	v.validateJoins(q.Joins)
	v.validatePredicate(q.Filter)
	if q.Aggregate.Field != nil {
		v.validateField("aggregate", *q.Aggregate.Field)
	}
	for _, g := range q.GroupBy {
		v.validateField("group by", g)
	}
}

func (v *validator) validateJoins(joins []Join) {
	v.joined = map[string]bool{"": true}
	paths := make([]string, 0, len(joins))
	for _, j := range joins {
		if j.Path == "" {
			v.addProblem("join with empty path")
			continue
		}
		if v.joined[j.Path] {
			v.addProblem("path %q joined more than once", j.Path)
		}
		if !v.joined[j.Parent] {
			v.addProblem("join %q appears before its parent %q", j.Path, j.Parent)
		}
		v.joined[j.Path] = true
		paths = append(paths, j.Path)
	}
	if !slices.IsSorted(paths) {
		v.addProblem("joins are not in path order: %v", paths)
	}
}

func (v *validator) validateField(where string, f FieldRef) {
	if f.Column == "" {
		v.addProblem("%s: field with empty column", where)
	}
	if !v.joined[f.Path] {
		v.addProblem("%s: field %s.%s references unjoined path %q", where, f.Entity, f.Column, f.Path)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Compare:
		v.validateField("compare", pred.Field)
		if pred.Value == nil {
			v.addProblem("compare on %s has no value", pred.Field.Column)
		}
	case In:
		v.validateField("in", pred.Field)
	case Match:
		v.validateField("match", pred.Field)
	case Null:
		v.validateField("null", pred.Field)
	case HasTag:
		v.validateField("has_tag", pred.Field)
	case HasAnyTag:
		v.validateField("has_any_tag", pred.Field)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}
