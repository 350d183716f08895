package compiler

import (
	"fmt"

	"github.com/roach88/worklens/internal/model"
	"github.com/roach88/worklens/internal/querybuild"
)

// Request validation error codes (E120-E129)
const (
	ErrUnknown                = "E120" // error without a query error code
	ErrUnsupportedEntityType  = "E121" // entity_type outside the closed set
	ErrFieldNotFound          = "E122" // field missing on the resolved entity
	ErrRelationshipPath       = "E123" // unregistered relationship prefix
	ErrUnsupportedOperator    = "E124" // operator outside the closed set
	ErrInvalidFilterValue     = "E125" // value shape does not fit the operator
	ErrInvalidAggregationSpec = "E126" // malformed aggregation
	ErrInvalidPagination      = "E127" // limit or offset out of range
)

var codeMap = map[model.ErrorCode]string{
	model.ErrCodeUnsupportedEntityType:    ErrUnsupportedEntityType,
	model.ErrCodeFieldNotFound:            ErrFieldNotFound,
	model.ErrCodeRelationshipPathNotFound: ErrRelationshipPath,
	model.ErrCodeUnsupportedOperator:      ErrUnsupportedOperator,
	model.ErrCodeInvalidFilterValue:       ErrInvalidFilterValue,
	model.ErrCodeInvalidAggregationSpec:   ErrInvalidAggregationSpec,
	model.ErrCodeInvalidPagination:        ErrInvalidPagination,
}

// ValidationError represents one problem in a request.
type ValidationError struct {
	Field     string `json:"field"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	QueryCode string `json:"query_code,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every part of req against the builder's registry.
// Returns all errors found (does not fail-fast), unlike Build which stops
// at the first. An unknown entity type is reported alone.
func Validate(b *querybuild.Builder, req model.Request) []ValidationError {
	errs := []ValidationError{}
	base := model.Request{EntityType: req.EntityType}

	if _, err := b.BuildEntity(base); err != nil {
		return append(errs, newValidationError("entity_type", err))
	}

	for i, f := range req.Filters {
		single := base
		single.Filters = []model.FilterSpec{f}
		if _, err := b.BuildEntity(single); err != nil {
			errs = append(errs, newValidationError(fmt.Sprintf("filters[%d]", i), err))
		}
	}

	if req.Aggregation != nil {
		agg := base
		agg.Aggregation = req.Aggregation
		if _, _, err := b.BuildAggregate(agg); err != nil {
			errs = append(errs, newValidationError("aggregation", err))
		}
		return errs
	}

	page := base
	page.Limit, page.Offset = req.Limit, req.Offset
	if _, err := b.BuildEntity(page); err != nil {
		errs = append(errs, newValidationError("pagination", err))
	}
	return errs
}

func newValidationError(field string, err error) ValidationError {
	qc := model.CodeOf(err)
	code, ok := codeMap[qc]
	if !ok {
		code = ErrUnknown
	}
	return ValidationError{Field: field, Message: err.Error(), Code: code, QueryCode: string(qc)}
}
