package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/worklens/internal/convert"
	"github.com/roach88/worklens/internal/dates"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/querybuild"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/schema"
)

// Storage runs plans. *store.Store implements it.
type Storage interface {
	FetchEntities(ctx context.Context, q *queryir.EntityQuery) ([]model.RawRecord, error)
	FetchAggregate(ctx context.Context, q *queryir.AggregateQuery) ([]model.AggregateRow, error)
}

// Options configure a Service. Zero values select defaults.
type Options struct {
	// DefaultLimit applies to entity requests that carry no limit.
	// Zero leaves such requests unbounded.
	DefaultLimit int

	// MaxLimit bounds an explicit limit. Zero means unbounded.
	MaxLimit int

	// Clock anchors date keywords. Defaults to time.Now.
	Clock func() time.Time

	// Location is the zone date keywords resolve in. Defaults to UTC.
	Location *time.Location

	// Registry defaults to schema.Default().
	Registry *schema.Registry

	// IDs defaults to UUIDv7Generator.
	IDs IDGenerator

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Service executes structured query requests against a Storage.
type Service struct {
	storage      Storage
	builder      *querybuild.Builder
	resolver     *dates.Resolver
	ids          IDGenerator
	logger       *slog.Logger
	defaultLimit int
}

// New creates a Service.
func New(storage Storage, opts Options) *Service {
	registry := opts.Registry
	if registry == nil {
		registry = schema.Default()
	}
	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resolver := dates.NewResolver(opts.Clock, opts.Location)
	return &Service{
		storage:      storage,
		builder:      querybuild.New(registry, resolver, querybuild.Options{MaxLimit: opts.MaxLimit}),
		resolver:     resolver,
		ids:          ids,
		logger:       logger,
		defaultLimit: opts.DefaultLimit,
	}
}

// Plan builds the plan Execute would run for req, without running it.
func (s *Service) Plan(req model.Request) (*querybuild.Plan, error) {
	if !req.IsAggregation() && req.Limit == nil && s.defaultLimit > 0 {
		req.Limit = model.IntPtr(s.defaultLimit)
	}
	return s.builder.Build(req)
}

// Execute builds and runs req. Plan construction errors are *model.QueryError;
// nothing is sent to storage when construction fails.
func (s *Service) Execute(ctx context.Context, req model.Request) (model.Result, error) {
	start := time.Now()
	logger := s.logger.With("request_id", s.ids.Generate(), "entity", string(req.EntityType))

	plan, err := s.Plan(req)
	if err != nil {
		logger.Debug("request rejected", "code", string(model.CodeOf(err)), "error", err)
		return nil, err
	}
	s.logPlan(logger, plan.Query)

	var result model.Result
	var rows int
	switch q := plan.Query.(type) {
	case *queryir.EntityQuery:
		raws, err := s.storage.FetchEntities(ctx, q)
		if err != nil {
			logger.Error("storage fetch failed", "error", err)
			return nil, err
		}
		rows = len(raws)
		result = model.NewEntityResults(convert.Records(req.EntityType, raws))

	case *queryir.AggregateQuery:
		aggRows, err := s.storage.FetchAggregate(ctx, q)
		if err != nil {
			logger.Error("storage aggregate failed", "error", err)
			return nil, err
		}
		rows = len(aggRows)
		result = model.NewAggregationOutput(aggregation(*plan.Aggregation, aggRows))
	}

	logger.Info("request executed",
		"shape", shapeOf(result),
		"rows", rows,
		"duration", time.Since(start),
	)
	return result, nil
}

func (s *Service) logPlan(logger *slog.Logger, q queryir.Query) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	fp, err := queryir.Fingerprint(q)
	if err != nil {
		logger.Warn("plan fingerprint failed", "error", err)
	}
	logger.Debug("plan built",
		"joins", queryir.JoinPaths(q),
		"fingerprint", fp,
	)
}

// aggregation shapes aggregate rows. An ungrouped aggregate over no rows
// reports a nil result.
func aggregation(spec model.AggregationSpec, rows []model.AggregateRow) model.AggregationResult {
	if len(spec.GroupBy) == 0 {
		var result any
		if len(rows) > 0 {
			result = rows[0].Result
		}
		return &model.ScalarAggregation{Function: spec.Function, Field: spec.Field, Result: result}
	}

	groups := make([]model.Group, 0, len(rows))
	for _, row := range rows {
		values := row.GroupValues
		if values == nil {
			values = []any{}
		}
		groups = append(groups, model.Group{GroupValues: values, Result: row.Result})
	}
	return &model.GroupedAggregation{
		Function: spec.Function,
		Field:    spec.Field,
		GroupBy:  spec.GroupBy,
		Groups:   groups,
	}
}

func shapeOf(r model.Result) string {
	switch out := r.(type) {
	case *model.EntityResults:
		return "entities"
	case *model.AggregationOutput:
		if out.TotalGroups != nil {
			return "grouped"
		}
		return "scalar"
	}
	return "unknown"
}
