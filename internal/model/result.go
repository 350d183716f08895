package model

import "encoding/json"

// Result is the outcome of a structured query.
//
// This is a sealed interface with exactly two implementations, so a result
// carries either entity records or an aggregation, never both and never neither:
//   - *EntityResults: matching records and their count
//   - *AggregationOutput: a scalar or grouped aggregate
type Result interface {
	resultNode()
}

// EntityResults is the entity-list shape of a Result.
type EntityResults struct {
	Results    []Record
	TotalCount int
}

func (*EntityResults) resultNode() {}

// NewEntityResults wraps records, normalizing nil to an empty list.
func NewEntityResults(records []Record) *EntityResults {
	if records == nil {
		records = []Record{}
	}
	return &EntityResults{Results: records, TotalCount: len(records)}
}

// MarshalJSON emits {"results": [...], "total_count": n}.
func (r *EntityResults) MarshalJSON() ([]byte, error) {
	results := r.Results
	if results == nil {
		results = []Record{}
	}
	return json.Marshal(struct {
		Results    []Record `json:"results"`
		TotalCount int      `json:"total_count"`
	}{results, r.TotalCount})
}

// AggregationOutput is the aggregation shape of a Result.
// TotalGroups is set iff the aggregation is grouped.
type AggregationOutput struct {
	Aggregation AggregationResult
	TotalGroups *int
}

func (*AggregationOutput) resultNode() {}

// NewAggregationOutput wraps an aggregation and derives TotalGroups from its shape.
func NewAggregationOutput(agg AggregationResult) *AggregationOutput {
	out := &AggregationOutput{Aggregation: agg}
	if grouped, ok := agg.(*GroupedAggregation); ok {
		n := len(grouped.Groups)
		out.TotalGroups = &n
	}
	return out
}

// MarshalJSON emits {"aggregation": {...}} plus "total_groups" when grouped.
func (o *AggregationOutput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Aggregation AggregationResult `json:"aggregation"`
		TotalGroups *int              `json:"total_groups,omitempty"`
	}{o.Aggregation, o.TotalGroups})
}

// AggregationResult is a sealed interface over the two aggregate shapes:
//   - *ScalarAggregation: no group_by, a single result
//   - *GroupedAggregation: one result per group
type AggregationResult interface {
	aggregationNode()
}

// ScalarAggregation is a global aggregate.
type ScalarAggregation struct {
	Function AggregationFunction `json:"function"`
	Field    string              `json:"field"`
	Result   any                 `json:"result"`
}

func (*ScalarAggregation) aggregationNode() {}

// GroupedAggregation is an aggregate per distinct group_by tuple.
type GroupedAggregation struct {
	Function AggregationFunction `json:"function"`
	Field    string              `json:"field"`
	GroupBy  []string            `json:"group_by"`
	Groups   []Group             `json:"groups"`
}

func (*GroupedAggregation) aggregationNode() {}

// Group is one row of a grouped aggregate. GroupValues follow group_by order.
type Group struct {
	GroupValues []any `json:"group_values"`
	Result      any   `json:"result"`
}
