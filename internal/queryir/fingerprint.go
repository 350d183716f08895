package queryir

import (
	"fmt"

	"github.com/roach88/worklens/internal/ir"
)

// Fingerprint returns a content hash of the plan. Equal plans have equal
// fingerprints; predicate order is significant.
func Fingerprint(q Query) (string, error) {
	doc, err := planDoc(q)
	if err != nil {
		return "", err
	}
	return ir.Hash(ir.DomainPlan, doc)
}

// JoinSetFingerprint hashes only the plan's joins. Requests that need the
// same relationships share it regardless of filter order.
func JoinSetFingerprint(q Query) (string, error) {
	joins, err := joinsOf(q)
	if err != nil {
		return "", err
	}
	return ir.Hash(ir.DomainJoinSet, joinsDoc(joins))
}

// JoinPaths returns the join prefixes of a plan in emission order.
func JoinPaths(q Query) []string {
	joins, _ := joinsOf(q)
	paths := make([]string, len(joins))
	for i, j := range joins {
		paths[i] = j.Path
	}
	return paths
}

func joinsOf(q Query) ([]Join, error) {
	switch query := q.(type) {
	case *EntityQuery:
		return query.Joins, nil
	case *AggregateQuery:
		return query.Joins, nil
	case EntityQuery:
		return query.Joins, nil
	case AggregateQuery:
		return query.Joins, nil
	default:
		return nil, fmt.Errorf("unknown query type: %T", q)
	}
}

func planDoc(q Query) (map[string]any, error) {
	switch query := q.(type) {
	case *EntityQuery:
		return entityDoc(*query)
	case EntityQuery:
		return entityDoc(query)
	case *AggregateQuery:
		return aggregateDoc(*query)
	case AggregateQuery:
		return aggregateDoc(query)
	default:
		return nil, fmt.Errorf("unknown query type: %T", q)
	}
}

func entityDoc(q EntityQuery) (map[string]any, error) {
	filter, err := predicateDoc(q.Filter)
	if err != nil {
		return nil, err
	}
	columns := make([]any, len(q.Columns))
	for i, c := range q.Columns {
		columns[i] = c
	}
	order := make([]any, len(q.OrderBy))
	for i, o := range q.OrderBy {
		order[i] = map[string]any{"field": fieldDoc(o.Field), "desc": o.Desc}
	}
	doc := map[string]any{
		"shape":   "entity",
		"entity":  string(q.Entity),
		"table":   q.Table,
		"columns": columns,
		"joins":   joinsDoc(q.Joins),
		"filter":  filter,
		"order":   order,
	}
	if q.Limit != nil {
		doc["limit"] = *q.Limit
	}
	if q.Offset != nil {
		doc["offset"] = *q.Offset
	}
	return doc, nil
}

func aggregateDoc(q AggregateQuery) (map[string]any, error) {
	filter, err := predicateDoc(q.Filter)
	if err != nil {
		return nil, err
	}
	var field any
	if q.Aggregate.Field != nil {
		field = fieldDoc(*q.Aggregate.Field)
	}
	groups := make([]any, len(q.GroupBy))
	for i, g := range q.GroupBy {
		groups[i] = fieldDoc(g)
	}
	return map[string]any{
		"shape":    "aggregate",
		"entity":   string(q.Entity),
		"table":    q.Table,
		"joins":    joinsDoc(q.Joins),
		"filter":   filter,
		"function": string(q.Aggregate.Function),
		"field":    field,
		"group_by": groups,
	}, nil
}

func joinsDoc(joins []Join) []any {
	out := make([]any, len(joins))
	for i, j := range joins {
		out[i] = map[string]any{
			"path":     j.Path,
			"parent":   j.Parent,
			"relation": j.Relation,
			"table":    j.Table,
			"local":    j.LocalColumn,
			"foreign":  j.ForeignColumn,
		}
	}
	return out
}

func fieldDoc(f FieldRef) map[string]any {
	return map[string]any{"path": f.Path, "column": f.Column}
}

// valueDoc tags each value with its variant so a date and the string
// spelling the same date hash differently.
func valueDoc(v ir.Scalar) map[string]any {
	return map[string]any{"type": fmt.Sprintf("%T", v), "value": v}
}

func valuesDoc(vs []ir.Scalar) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = valueDoc(v)
	}
	return out
}

func predicateDoc(p Predicate) (map[string]any, error) {
	switch pred := p.(type) {
	case Compare:
		return map[string]any{"op": string(pred.Op), "field": fieldDoc(pred.Field), "value": valueDoc(pred.Value)}, nil
	case In:
		return map[string]any{"op": "in", "negated": pred.Negated, "field": fieldDoc(pred.Field), "values": valuesDoc(pred.Values)}, nil
	case Match:
		return map[string]any{"op": "match", "mode": string(pred.Mode), "field": fieldDoc(pred.Field), "value": pred.Value}, nil
	case Null:
		return map[string]any{"op": "null", "negated": pred.Negated, "field": fieldDoc(pred.Field)}, nil
	case HasTag:
		return map[string]any{"op": "has_tag", "field": fieldDoc(pred.Field), "value": valueDoc(pred.Value)}, nil
	case HasAnyTag:
		return map[string]any{"op": "has_any_tag", "field": fieldDoc(pred.Field), "values": valuesDoc(pred.Values)}, nil
	case And:
		subs := make([]any, len(pred.Predicates))
		for i, sub := range pred.Predicates {
			d, err := predicateDoc(sub)
			if err != nil {
				return nil, err
			}
			subs[i] = d
		}
		return map[string]any{"op": "and", "predicates": subs}, nil
	default:
		return nil, fmt.Errorf("unknown predicate type: %T", p)
	}
}
