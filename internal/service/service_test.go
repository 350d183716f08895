package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/testutil"
)

// Monday 2024-03-04 is the start of the fixture week.
var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

// fakeStorage records the plans it receives and returns canned rows.
type fakeStorage struct {
	mu         sync.Mutex
	entities   []model.RawRecord
	aggregates []model.AggregateRow
	err        error

	entityQueries    []*queryir.EntityQuery
	aggregateQueries []*queryir.AggregateQuery
}

func (f *fakeStorage) FetchEntities(_ context.Context, q *queryir.EntityQuery) ([]model.RawRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entityQueries = append(f.entityQueries, q)
	return f.entities, f.err
}

func (f *fakeStorage) FetchAggregate(_ context.Context, q *queryir.AggregateQuery) ([]model.AggregateRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aggregateQueries = append(f.aggregateQueries, q)
	return f.aggregates, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(storage Storage) *Service {
	return New(storage, Options{
		DefaultLimit: 100,
		MaxLimit:     1000,
		Clock:        testutil.NewFixedClock(testNow).Now,
		IDs:          testutil.NewSequenceGenerator("req"),
		Logger:       discardLogger(),
	})
}

func TestExecute_EntityResults(t *testing.T) {
	storage := &fakeStorage{entities: []model.RawRecord{
		{"id": "p1", "name": "Alpha", "tags": `["web"]`},
		{"id": "p2", "name": "Beta"},
	}}
	svc := newTestService(storage)

	result, err := svc.Execute(context.Background(), model.Request{EntityType: model.EntityProject})
	require.NoError(t, err)

	entities, ok := result.(*model.EntityResults)
	require.True(t, ok, "expected *EntityResults, got %T", result)
	assert.Equal(t, 2, entities.TotalCount)
	require.Len(t, entities.Results, 2)
	assert.Equal(t, "Alpha", entities.Results[0].(model.Project).Name)
	assert.Equal(t, []string{}, entities.Results[1].(model.Project).Tags)
}

func TestExecute_EmptyResultIsNotAnError(t *testing.T) {
	svc := newTestService(&fakeStorage{})

	result, err := svc.Execute(context.Background(), model.Request{EntityType: model.EntityNote})
	require.NoError(t, err)

	entities := result.(*model.EntityResults)
	assert.Equal(t, []model.Record{}, entities.Results)
	assert.Equal(t, 0, entities.TotalCount)
}

func TestExecute_DefaultLimit(t *testing.T) {
	storage := &fakeStorage{}
	svc := newTestService(storage)

	_, err := svc.Execute(context.Background(), model.Request{EntityType: model.EntityNote})
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), model.Request{EntityType: model.EntityNote, Limit: model.IntPtr(5)})
	require.NoError(t, err)

	require.Len(t, storage.entityQueries, 2)
	assert.Equal(t, 100, *storage.entityQueries[0].Limit)
	assert.Equal(t, 5, *storage.entityQueries[1].Limit)
}

func TestExecute_ScalarAggregation(t *testing.T) {
	storage := &fakeStorage{aggregates: []model.AggregateRow{{GroupValues: []any{}, Result: 8.0}}}
	svc := newTestService(storage)

	result, err := svc.Execute(context.Background(), model.Request{
		EntityType:  model.EntityWorkSession,
		Aggregation: &model.AggregationSpec{Function: model.AggSum, Field: "duration_hours"},
	})
	require.NoError(t, err)

	out := result.(*model.AggregationOutput)
	assert.Nil(t, out.TotalGroups)
	assert.Equal(t, &model.ScalarAggregation{Function: model.AggSum, Field: "duration_hours", Result: 8.0}, out.Aggregation)
}

func TestExecute_CountWildcard(t *testing.T) {
	storage := &fakeStorage{aggregates: []model.AggregateRow{{Result: int64(3)}}}
	svc := newTestService(storage)

	result, err := svc.Execute(context.Background(), model.Request{
		EntityType:  model.EntityMeeting,
		Aggregation: &model.AggregationSpec{Function: model.AggCount},
	})
	require.NoError(t, err)

	agg := result.(*model.AggregationOutput).Aggregation.(*model.ScalarAggregation)
	assert.Equal(t, model.Wildcard, agg.Field)
	assert.Equal(t, int64(3), agg.Result)
}

func TestExecute_GroupedAggregation(t *testing.T) {
	storage := &fakeStorage{aggregates: []model.AggregateRow{
		{GroupValues: []any{"Acme"}, Result: 5.5},
		{GroupValues: []any{"Beta"}, Result: 1.5},
	}}
	svc := newTestService(storage)

	result, err := svc.Execute(context.Background(), model.Request{
		EntityType: model.EntityWorkSession,
		Filters:    []model.FilterSpec{model.MustFilter("project.name", model.OpEq, "Acme")},
		Aggregation: &model.AggregationSpec{
			Function: model.AggSum,
			Field:    "duration_hours",
			GroupBy:  []string{"project.name"},
		},
	})
	require.NoError(t, err)

	out := result.(*model.AggregationOutput)
	require.NotNil(t, out.TotalGroups)
	assert.Equal(t, 2, *out.TotalGroups)

	grouped := out.Aggregation.(*model.GroupedAggregation)
	assert.Equal(t, []string{"project.name"}, grouped.GroupBy)
	assert.Equal(t, []model.Group{
		{GroupValues: []any{"Acme"}, Result: 5.5},
		{GroupValues: []any{"Beta"}, Result: 1.5},
	}, grouped.Groups)

	require.Len(t, storage.aggregateQueries, 1)
	assert.Len(t, storage.aggregateQueries[0].Joins, 1)
}

func TestExecute_GroupedAggregationNoRows(t *testing.T) {
	svc := newTestService(&fakeStorage{})

	result, err := svc.Execute(context.Background(), model.Request{
		EntityType:  model.EntityNote,
		Aggregation: &model.AggregationSpec{Function: model.AggCount, GroupBy: []string{"project.name"}},
	})
	require.NoError(t, err)

	out := result.(*model.AggregationOutput)
	assert.Equal(t, 0, *out.TotalGroups)
	assert.Equal(t, []model.Group{}, out.Aggregation.(*model.GroupedAggregation).Groups)
}

func TestExecute_BuildErrorsNeverReachStorage(t *testing.T) {
	tests := []struct {
		name string
		req  model.Request
		code model.ErrorCode
	}{
		{
			name: "unknown entity",
			req:  model.Request{EntityType: "invoice"},
			code: model.ErrCodeUnsupportedEntityType,
		},
		{
			name: "unknown field",
			req: model.Request{
				EntityType: model.EntityProject,
				Filters:    []model.FilterSpec{model.MustFilter("colour", model.OpEq, "red")},
			},
			code: model.ErrCodeFieldNotFound,
		},
		{
			name: "unknown path",
			req: model.Request{
				EntityType: model.EntityEmployer,
				Filters:    []model.FilterSpec{model.MustFilter("client.name", model.OpEq, "x")},
			},
			code: model.ErrCodeRelationshipPathNotFound,
		},
		{
			name: "sum without field",
			req: model.Request{
				EntityType:  model.EntityWorkSession,
				Aggregation: &model.AggregationSpec{Function: model.AggSum},
			},
			code: model.ErrCodeInvalidAggregationSpec,
		},
		{
			name: "limit over max",
			req:  model.Request{EntityType: model.EntityNote, Limit: model.IntPtr(5000)},
			code: model.ErrCodeInvalidPagination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &fakeStorage{}
			svc := newTestService(storage)

			_, err := svc.Execute(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, model.IsCode(err, tt.code), "got %v", err)
			assert.Empty(t, storage.entityQueries)
			assert.Empty(t, storage.aggregateQueries)
		})
	}
}

func TestExecute_StorageErrorUnchanged(t *testing.T) {
	sentinel := errors.New("disk on fire")
	svc := newTestService(&fakeStorage{err: sentinel})

	_, err := svc.Execute(context.Background(), model.Request{EntityType: model.EntityPerson})
	assert.Same(t, sentinel, err)
}

func TestExecute_Concurrent(t *testing.T) {
	storage := &fakeStorage{entities: []model.RawRecord{{"id": "e1", "name": "Acme"}}}
	svc := newTestService(storage)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.Execute(context.Background(), model.Request{EntityType: model.EntityEmployer})
			assert.NoError(t, err)
			assert.Equal(t, 1, result.(*model.EntityResults).TotalCount)
		}()
	}
	wg.Wait()

	assert.Len(t, storage.entityQueries, 20)
}

func TestPlan_ResolvesKeywordsAgainstClock(t *testing.T) {
	svc := newTestService(&fakeStorage{})

	plan, err := svc.Plan(model.Request{
		EntityType: model.EntityWorkSession,
		Filters:    []model.FilterSpec{model.MustFilter("date", model.OpGte, "this_week")},
	})
	require.NoError(t, err)

	q := plan.Query.(*queryir.EntityQuery)
	require.Len(t, q.Filter.Predicates, 1)
	cmp := q.Filter.Predicates[0].(queryir.Compare)
	assert.Equal(t, ir.DateOf(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)), cmp.Value)
}
