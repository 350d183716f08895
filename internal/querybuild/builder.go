package querybuild

import (
	"maps"
	"slices"

	"github.com/roach88/worklens/internal/dates"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/schema"
)

// Options bound pagination.
type Options struct {
	// MaxLimit is the largest accepted limit. Zero means unbounded.
	MaxLimit int
}

// Builder constructs plans against a registry.
type Builder struct {
	registry *schema.Registry
	resolver *dates.Resolver
	opts     Options
}

// New creates a Builder.
func New(registry *schema.Registry, resolver *dates.Resolver, opts Options) *Builder {
	return &Builder{registry: registry, resolver: resolver, opts: opts}
}

// Plan is a built query together with the normalized aggregation it
// answers, if any.
type Plan struct {
	Query queryir.Query

	// Aggregation is nil for entity queries. Its Field is the wildcard for
	// count without a field.
	Aggregation *model.AggregationSpec
}

// Build selects entity or aggregation mode from the request.
func (b *Builder) Build(req model.Request) (*Plan, error) {
	if req.IsAggregation() {
		q, spec, err := b.BuildAggregate(req)
		if err != nil {
			return nil, err
		}
		return &Plan{Query: q, Aggregation: &spec}, nil
	}
	q, err := b.BuildEntity(req)
	if err != nil {
		return nil, err
	}
	return &Plan{Query: q}, nil
}

// BuildEntity builds a plan selecting matching rows of the request's entity.
func (b *Builder) BuildEntity(req model.Request) (*queryir.EntityQuery, error) {
	m, err := b.registry.ModelFor(req.EntityType)
	if err != nil {
		return nil, err
	}

	joins := joinSet{}
	filter, err := b.filters(req.EntityType, req.Filters, joins)
	if err != nil {
		return nil, err
	}

	q := &queryir.EntityQuery{
		Entity:  m.Entity,
		Table:   m.Table,
		Columns: m.Columns(),
		Filter:  filter,
	}
	if q.Joins, err = b.materialize(req.EntityType, joins); err != nil {
		return nil, err
	}

	if name, ok := m.DefaultOrderField(); ok {
		f, _ := m.Field(name)
		q.OrderBy = []queryir.OrderBy{{
			Field: queryir.FieldRef{Entity: m.Entity, Column: f.Name, Kind: f.Kind},
			Desc:  true,
		}}
	}

	if err := b.pagination(req); err != nil {
		return nil, err
	}
	q.Limit = req.Limit
	q.Offset = req.Offset
	return q, nil
}

// BuildAggregate builds an aggregate plan. The returned spec is the
// normalized aggregation.
func (b *Builder) BuildAggregate(req model.Request) (*queryir.AggregateQuery, model.AggregationSpec, error) {
	m, err := b.registry.ModelFor(req.EntityType)
	if err != nil {
		return nil, model.AggregationSpec{}, err
	}
	if req.Aggregation == nil {
		return nil, model.AggregationSpec{}, model.NewInvalidAggregationSpecError("", "aggregation is required")
	}
	spec, err := req.Aggregation.Normalize()
	if err != nil {
		return nil, model.AggregationSpec{}, err
	}

	joins := joinSet{}
	agg := queryir.Aggregate{Function: spec.Function}
	if !spec.IsWildcard() {
		ref, err := b.resolve(req.EntityType, spec.Field, joins)
		if err != nil {
			return nil, model.AggregationSpec{}, err
		}
		if err := checkAggregateKind(spec, ref); err != nil {
			return nil, model.AggregationSpec{}, err
		}
		agg.Field = &ref
	}

	groups := make([]queryir.FieldRef, 0, len(spec.GroupBy))
	for _, path := range spec.GroupBy {
		ref, err := b.resolve(req.EntityType, path, joins)
		if err != nil {
			return nil, model.AggregationSpec{}, err
		}
		groups = append(groups, ref)
	}

	filter, err := b.filters(req.EntityType, req.Filters, joins)
	if err != nil {
		return nil, model.AggregationSpec{}, err
	}

	q := &queryir.AggregateQuery{
		Entity:    m.Entity,
		Table:     m.Table,
		Filter:    filter,
		Aggregate: agg,
		GroupBy:   groups,
	}
	if q.Joins, err = b.materialize(req.EntityType, joins); err != nil {
		return nil, model.AggregationSpec{}, err
	}
	return q, spec, nil
}

func checkAggregateKind(spec model.AggregationSpec, ref queryir.FieldRef) error {
	if spec.Function != model.AggSum && spec.Function != model.AggAvg {
		return nil
	}
	if ref.Kind != schema.KindInt && ref.Kind != schema.KindReal {
		return model.NewInvalidAggregationSpecError(spec.Function, "field "+spec.Field+" is not numeric")
	}
	return nil
}

func (b *Builder) pagination(req model.Request) error {
	if req.Limit != nil {
		if *req.Limit < 1 || (b.opts.MaxLimit > 0 && *req.Limit > b.opts.MaxLimit) {
			return model.NewInvalidPaginationError("limit", *req.Limit, b.opts.MaxLimit)
		}
	}
	if req.Offset != nil && *req.Offset < 0 {
		return model.NewInvalidPaginationError("offset", *req.Offset, b.opts.MaxLimit)
	}
	return nil
}

// resolve resolves a path and records its prefix in the join set.
func (b *Builder) resolve(et model.EntityType, path string, joins joinSet) (queryir.FieldRef, error) {
	ref, _, err := b.registry.ResolvePath(et, path)
	if err != nil {
		return queryir.FieldRef{}, err
	}
	joins.add(ref.Prefix)
	return queryir.FieldRef{
		Path:   ref.Prefix,
		Entity: ref.Entity,
		Column: ref.Field.Name,
		Kind:   ref.Field.Kind,
	}, nil
}

// joinSet holds relationship prefixes with every ancestor prefix.
type joinSet map[string]struct{}

func (s joinSet) add(prefix string) {
	for prefix != "" {
		s[prefix] = struct{}{}
		i := len(prefix) - 1
		for i >= 0 && prefix[i] != '.' {
			i--
		}
		if i < 0 {
			return
		}
		prefix = prefix[:i]
	}
}

// materialize emits one join per prefix in lexicographic order, which
// places every ancestor before its descendants.
func (b *Builder) materialize(et model.EntityType, joins joinSet) ([]queryir.Join, error) {
	out := make([]queryir.Join, 0, len(joins))
	for _, prefix := range slices.Sorted(maps.Keys(joins)) {
		hops, err := b.registry.Hops(et, prefix)
		if err != nil {
			return nil, err
		}
		last := hops[len(hops)-1]
		target, err := b.registry.ModelFor(last.Relation.Target)
		if err != nil {
			return nil, err
		}
		out = append(out, queryir.Join{
			Path:          last.Prefix,
			Parent:        last.Parent,
			Relation:      last.Relation.Name,
			Target:        target.Entity,
			Table:         target.Table,
			LocalColumn:   last.Relation.LocalColumn,
			ForeignColumn: "id",
		})
	}
	return out, nil
}
