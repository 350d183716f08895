package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/worklens/internal/ir"
)

// FilterOperator is one of the closed set of predicate operators.
type FilterOperator string

const (
	OpEq         FilterOperator = "eq"
	OpNe         FilterOperator = "ne"
	OpGt         FilterOperator = "gt"
	OpGte        FilterOperator = "gte"
	OpLt         FilterOperator = "lt"
	OpLte        FilterOperator = "lte"
	OpIn         FilterOperator = "in"
	OpNotIn      FilterOperator = "not_in"
	OpContains   FilterOperator = "contains"
	OpStartsWith FilterOperator = "starts_with"
	OpEndsWith   FilterOperator = "ends_with"
	OpIsNull     FilterOperator = "is_null"
	OpIsNotNull  FilterOperator = "is_not_null"
	OpHasTag     FilterOperator = "has_tag"
	OpHasAnyTag  FilterOperator = "has_any_tag"
)

// FilterOperators lists the closed operator set.
var FilterOperators = []FilterOperator{
	OpEq, OpNe, OpGt, OpGte, OpLt, OpLte,
	OpIn, OpNotIn,
	OpContains, OpStartsWith, OpEndsWith,
	OpIsNull, OpIsNotNull,
	OpHasTag, OpHasAnyTag,
}

// Valid reports whether op is in the closed set.
func (op FilterOperator) Valid() bool {
	for _, o := range FilterOperators {
		if o == op {
			return true
		}
	}
	return false
}

// RequiresList reports whether the operator's value must be a list.
func (op FilterOperator) RequiresList() bool {
	return op == OpIn || op == OpNotIn || op == OpHasAnyTag
}

// IgnoresValue reports whether the operator ignores its value.
func (op FilterOperator) IgnoresValue() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// AggregationFunction is one of the closed set of aggregate functions.
type AggregationFunction string

const (
	AggCount         AggregationFunction = "count"
	AggSum           AggregationFunction = "sum"
	AggAvg           AggregationFunction = "avg"
	AggMin           AggregationFunction = "min"
	AggMax           AggregationFunction = "max"
	AggCountDistinct AggregationFunction = "count_distinct"
)

// AggregationFunctions lists the closed function set.
var AggregationFunctions = []AggregationFunction{
	AggCount, AggSum, AggAvg, AggMin, AggMax, AggCountDistinct,
}

// Valid reports whether fn is in the closed set.
func (fn AggregationFunction) Valid() bool {
	for _, f := range AggregationFunctions {
		if f == fn {
			return true
		}
	}
	return false
}

// Wildcard is the aggregation field used by count when no field is given.
const Wildcard = "*"

// FilterSpec is a single conjunctive filter: field path, operator, value.
type FilterSpec struct {
	Field    string
	Operator FilterOperator
	Value    ir.Value
}

// NewFilter builds a FilterSpec from loosely typed input.
func NewFilter(field string, op FilterOperator, value any) (FilterSpec, error) {
	v, err := ir.FromAny(value)
	if err != nil {
		return FilterSpec{}, NewInvalidFilterValueError(op, field, err.Error())
	}
	return FilterSpec{Field: field, Operator: op, Value: v}, nil
}

// MustFilter is like NewFilter but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFilter(field string, op FilterOperator, value any) FilterSpec {
	f, err := NewFilter(field, op, value)
	if err != nil {
		panic(err)
	}
	return f
}

// CheckValueShape validates the list-vs-scalar requirement of the operator.
func (f FilterSpec) CheckValueShape() error {
	if f.Operator.IgnoresValue() {
		return nil
	}
	isList := ir.IsList(f.Value)
	if f.Operator.RequiresList() && !isList {
		return NewInvalidFilterValueError(f.Operator, f.Field, "value must be a list")
	}
	if !f.Operator.RequiresList() && isList {
		return NewInvalidFilterValueError(f.Operator, f.Field, "value must be a single value, not a list")
	}
	if f.Value == nil {
		return NewInvalidFilterValueError(f.Operator, f.Field, "value is required")
	}
	return nil
}

type filterSpecJSON struct {
	Field    string          `json:"field"`
	Operator FilterOperator  `json:"operator"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f FilterSpec) MarshalJSON() ([]byte, error) {
	value, err := json.Marshal(ir.ToAny(f.Value))
	if err != nil {
		return nil, err
	}
	return json.Marshal(filterSpecJSON{Field: f.Field, Operator: f.Operator, Value: value})
}

// UnmarshalJSON implements json.Unmarshaler. Numbers keep integer precision.
func (f *FilterSpec) UnmarshalJSON(data []byte) error {
	var raw filterSpecJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var value any
	if len(raw.Value) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw.Value))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("filter %q value: %w", raw.Field, err)
		}
	}

	spec, err := NewFilter(raw.Field, raw.Operator, value)
	if err != nil {
		return err
	}
	*f = spec
	return nil
}

// AggregationSpec describes an aggregate over the filtered entities.
type AggregationSpec struct {
	Function AggregationFunction `json:"function"`
	Field    string              `json:"field,omitempty"`
	GroupBy  []string            `json:"group_by,omitempty"`
}

// Normalize applies the wildcard default for count and validates the field.
func (a AggregationSpec) Normalize() (AggregationSpec, error) {
	if !a.Function.Valid() {
		return AggregationSpec{}, NewInvalidAggregationSpecError(a.Function, "unknown aggregation function")
	}
	if a.Field == "" {
		if a.Function != AggCount {
			return AggregationSpec{}, NewInvalidAggregationSpecError(a.Function, "field is required")
		}
		a.Field = Wildcard
	}
	if a.Field == Wildcard && a.Function != AggCount {
		return AggregationSpec{}, NewInvalidAggregationSpecError(a.Function, "wildcard field is only valid for count")
	}
	return a, nil
}

// IsWildcard reports whether the aggregation counts rows rather than a field.
func (a AggregationSpec) IsWildcard() bool {
	return a.Function == AggCount && (a.Field == "" || a.Field == Wildcard)
}

// Request is a structured query over one entity type.
type Request struct {
	EntityType  EntityType       `json:"entity_type"`
	Filters     []FilterSpec     `json:"filters,omitempty"`
	Aggregation *AggregationSpec `json:"aggregation,omitempty"`
	Limit       *int             `json:"limit,omitempty"`
	Offset      *int             `json:"offset,omitempty"`
}

// IsAggregation reports whether the request selects aggregation mode.
func (r Request) IsAggregation() bool {
	return r.Aggregation != nil
}

// IntPtr returns a pointer to n. Convenience for Limit/Offset.
func IntPtr(n int) *int {
	return &n
}
