// Package compiler turns CUE request documents into model.Request values.
package compiler

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/worklens/internal/ir"
	"github.com/roach88/worklens/internal/model"
)

//go:embed request.cue
var requestSchema string

// CompileError is a request document error, positioned when CUE knows where.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
)

// RequestSchema returns the #Request definition, compiled once in its own
// context. Values checked against it must come from Context().
func RequestSchema() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(requestSchema, cue.Filename("request.cue")).
			LookupPath(cue.ParsePath("#Request"))
	})
	return schemaValue
}

// Context returns the CUE context the request schema lives in.
func Context() *cue.Context {
	return RequestSchema().Context()
}

// CompileRequest checks v against #Request and decodes it.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
//	v := compiler.Context().CompileString(`entity_type: "note"`)
//	req, err := compiler.CompileRequest(v)
func CompileRequest(v cue.Value) (*model.Request, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := RequestSchema().Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	req := &model.Request{}

	entity, err := unified.LookupPath(cue.ParsePath("entity_type")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	req.EntityType = model.EntityType(entity)

	if req.Filters, err = parseFilters(unified); err != nil {
		return nil, err
	}
	if req.Aggregation, err = parseAggregation(unified); err != nil {
		return nil, err
	}
	if req.Limit, err = optionalInt(unified, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = optionalInt(unified, "offset"); err != nil {
		return nil, err
	}

	return req, nil
}

// DecodeRequest checks an already decoded document (maps, slices and
// scalars as produced by yaml.v3 or encoding/json) against #Request.
func DecodeRequest(doc any) (*model.Request, error) {
	v := Context().Encode(doc)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileRequest(v)
}

func parseFilters(v cue.Value) ([]model.FilterSpec, error) {
	filtersVal := v.LookupPath(cue.ParsePath("filters"))
	if !filtersVal.Exists() {
		return nil, nil
	}

	iter, err := filtersVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var filters []model.FilterSpec
	for i := 0; iter.Next(); i++ {
		fv := iter.Value()
		field, err := fv.LookupPath(cue.ParsePath("field")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		op, err := fv.LookupPath(cue.ParsePath("operator")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		var raw any
		if valueVal := fv.LookupPath(cue.ParsePath("value")); valueVal.Exists() {
			if raw, err = toAny(valueVal); err != nil {
				return nil, &CompileError{
					Field:   fmt.Sprintf("filters[%d].value", i),
					Message: err.Error(),
					Pos:     valueVal.Pos(),
				}
			}
		}

		value, err := ir.FromAny(raw)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("filters[%d].value", i),
				Message: err.Error(),
				Pos:     fv.Pos(),
			}
		}
		filters = append(filters, model.FilterSpec{
			Field:    field,
			Operator: model.FilterOperator(op),
			Value:    value,
		})
	}
	return filters, nil
}

func parseAggregation(v cue.Value) (*model.AggregationSpec, error) {
	aggVal := v.LookupPath(cue.ParsePath("aggregation"))
	if !aggVal.Exists() {
		return nil, nil
	}

	fn, err := aggVal.LookupPath(cue.ParsePath("function")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec := &model.AggregationSpec{Function: model.AggregationFunction(fn)}

	if fieldVal := aggVal.LookupPath(cue.ParsePath("field")); fieldVal.Exists() {
		if spec.Field, err = fieldVal.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if groupVal := aggVal.LookupPath(cue.ParsePath("group_by")); groupVal.Exists() {
		iter, err := groupVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			path, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			spec.GroupBy = append(spec.GroupBy, path)
		}
	}
	return spec, nil
}

func optionalInt(v cue.Value, name string) (*int, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return nil, nil
	}
	n, err := val.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return model.IntPtr(int(n)), nil
}

// toAny converts a concrete scalar or list of scalars to plain Go data.
func toAny(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		out := []any{}
		for iter.Next() {
			elem, err := toAny(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
