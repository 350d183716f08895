package querybuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/queryir"
	"github.com/roach88/worklens/internal/schema"
)

func TestBuildAggregate_GroupAndFilterShareJoin(t *testing.T) {
	b := newTestBuilder()

	q, spec, err := b.BuildAggregate(model.Request{
		EntityType: model.EntityWorkSession,
		Aggregation: &model.AggregationSpec{
			Function: model.AggSum,
			Field:    "duration_hours",
			GroupBy:  []string{"project.name"},
		},
		Filters: []model.FilterSpec{f("project.name", model.OpEq, "Acme")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"project"}, queryir.JoinPaths(q))
	assert.Equal(t, model.AggSum, spec.Function)

	projectName := queryir.FieldRef{Path: "project", Entity: model.EntityProject, Column: "name", Kind: schema.KindText}
	assert.Equal(t, []queryir.FieldRef{projectName}, q.GroupBy)
	require.NotNil(t, q.Aggregate.Field)
	assert.Equal(t, "duration_hours", q.Aggregate.Field.Column)
	assert.Equal(t, []queryir.Predicate{
		queryir.Compare{Field: projectName, Op: queryir.OpEq, Value: ir.String("Acme")},
	}, q.Filter.Predicates)
	assert.True(t, queryir.Validate(q).Valid)
}

func TestBuildAggregate_CountWildcard(t *testing.T) {
	b := newTestBuilder()

	q, spec, err := b.BuildAggregate(model.Request{
		EntityType:  model.EntityMeeting,
		Aggregation: &model.AggregationSpec{Function: model.AggCount},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Wildcard, spec.Field)
	assert.Nil(t, q.Aggregate.Field)
	assert.Empty(t, q.GroupBy)
	assert.Empty(t, q.Joins)
}

func TestBuildAggregate_RequiresFieldForOtherFunctions(t *testing.T) {
	b := newTestBuilder()

	for _, fn := range []model.AggregationFunction{model.AggSum, model.AggAvg, model.AggMin, model.AggMax, model.AggCountDistinct} {
		_, _, err := b.BuildAggregate(model.Request{
			EntityType:  model.EntityWorkSession,
			Aggregation: &model.AggregationSpec{Function: fn},
		})
		assert.True(t, model.IsCode(err, model.ErrCodeInvalidAggregationSpec), fn)
	}
}

func TestBuildAggregate_GroupOrderPreserved(t *testing.T) {
	b := newTestBuilder()

	q, _, err := b.BuildAggregate(model.Request{
		EntityType: model.EntityWorkSession,
		Aggregation: &model.AggregationSpec{
			Function: model.AggCountDistinct,
			Field:    "on_behalf_of.id",
			GroupBy:  []string{"project.client.name", "date", "billable"},
		},
	})
	require.NoError(t, err)

	cols := make([]string, len(q.GroupBy))
	for i, g := range q.GroupBy {
		cols[i] = g.Path + ":" + g.Column
	}
	assert.Equal(t, []string{"project.client:name", ":date", ":billable"}, cols)
	assert.Equal(t, []string{"on_behalf_of", "project", "project.client"}, queryir.JoinPaths(q))
}

func TestBuildAggregate_DeeperFilterUnderGroupPrefix(t *testing.T) {
	b := newTestBuilder()

	q, _, err := b.BuildAggregate(model.Request{
		EntityType: model.EntityWorkSession,
		Aggregation: &model.AggregationSpec{
			Function: model.AggSum,
			Field:    "duration_hours",
			GroupBy:  []string{"project.client_id"},
		},
		Filters: []model.FilterSpec{
			f("project.client.name", model.OpEq, "Acme"),
			f("project.client.employer.name", model.OpEq, "Initech"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"project", "project.client", "project.client.employer"}, queryir.JoinPaths(q))
	assert.True(t, queryir.Validate(q).Valid)
}

func TestBuildAggregate_Errors(t *testing.T) {
	b := newTestBuilder()

	tests := []struct {
		name string
		agg  model.AggregationSpec
		code model.ErrorCode
	}{
		{"unknown function", model.AggregationSpec{Function: "median", Field: "duration_hours"}, model.ErrCodeInvalidAggregationSpec},
		{"sum of text", model.AggregationSpec{Function: model.AggSum, Field: "description"}, model.ErrCodeInvalidAggregationSpec},
		{"unknown field", model.AggregationSpec{Function: model.AggMax, Field: "colour"}, model.ErrCodeFieldNotFound},
		{"unknown group path", model.AggregationSpec{Function: model.AggCount, GroupBy: []string{"employer.name"}}, model.ErrCodeRelationshipPathNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := tt.agg
			_, _, err := b.BuildAggregate(model.Request{EntityType: model.EntityWorkSession, Aggregation: &agg})
			require.Error(t, err)
			assert.Equal(t, tt.code, model.CodeOf(err))
		})
	}

	_, _, err := b.BuildAggregate(model.Request{EntityType: model.EntityWorkSession})
	assert.True(t, model.IsCode(err, model.ErrCodeInvalidAggregationSpec))
}

func TestBuild_SelectsMode(t *testing.T) {
	b := newTestBuilder()

	plan, err := b.Build(model.Request{EntityType: model.EntityClient})
	require.NoError(t, err)
	assert.IsType(t, &queryir.EntityQuery{}, plan.Query)
	assert.Nil(t, plan.Aggregation)

	plan, err = b.Build(model.Request{
		EntityType:  model.EntityClient,
		Aggregation: &model.AggregationSpec{Function: model.AggCount, GroupBy: []string{"client_type"}},
	})
	require.NoError(t, err)
	agg, ok := plan.Query.(*queryir.AggregateQuery)
	require.True(t, ok)
	assert.Equal(t, "type", agg.GroupBy[0].Column)
	require.NotNil(t, plan.Aggregation)
	assert.Equal(t, model.Wildcard, plan.Aggregation.Field)
	assert.Equal(t, []string{"client_type"}, plan.Aggregation.GroupBy)
}
