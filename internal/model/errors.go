package model

import (
	"errors"
	"fmt"
)

// QueryError is returned when a request cannot be turned into a plan.
//
// Every QueryError is deterministic: the same request against the same
// registry fails the same way, so callers should surface it rather than retry.
type QueryError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Entity is the entity type the request targeted, when known.
	Entity string

	// Field is the offending field path or specification field, when known.
	Field string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes query errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedEntityType indicates an entity type outside the closed set.
	ErrCodeUnsupportedEntityType ErrorCode = "UNSUPPORTED_ENTITY_TYPE"

	// ErrCodeFieldNotFound indicates a field name the entity does not have.
	ErrCodeFieldNotFound ErrorCode = "FIELD_NOT_FOUND"

	// ErrCodeRelationshipPathNotFound indicates a dot-path prefix with no registered chain.
	ErrCodeRelationshipPathNotFound ErrorCode = "RELATIONSHIP_PATH_NOT_FOUND"

	// ErrCodeUnsupportedOperator indicates an operator outside the closed set.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"

	// ErrCodeInvalidFilterValue indicates a list/scalar mismatch for an operator.
	ErrCodeInvalidFilterValue ErrorCode = "INVALID_FILTER_VALUE"

	// ErrCodeInvalidAggregationSpec indicates a malformed aggregation.
	ErrCodeInvalidAggregationSpec ErrorCode = "INVALID_AGGREGATION_SPEC"

	// ErrCodeInvalidPagination indicates a limit or offset out of bounds.
	ErrCodeInvalidPagination ErrorCode = "INVALID_PAGINATION"

	// ErrCodeInvalidDateRange indicates a report range whose start is after its end.
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Entity != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s (entity=%s, field=%s)", e.Code, e.Message, e.Entity, e.Field)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (entity=%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a QueryError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// CodeOf returns the code of a wrapped QueryError, or "" if err is not one.
func CodeOf(err error) ErrorCode {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// NewUnsupportedEntityTypeError creates a QueryError for an unknown entity type.
func NewUnsupportedEntityTypeError(entity string) *QueryError {
	return &QueryError{
		Code:    ErrCodeUnsupportedEntityType,
		Message: fmt.Sprintf("unsupported entity type %q", entity),
		Entity:  entity,
	}
}

// NewFieldNotFoundError creates a QueryError for a missing field.
func NewFieldNotFoundError(entity EntityType, field string) *QueryError {
	return &QueryError{
		Code:    ErrCodeFieldNotFound,
		Message: fmt.Sprintf("%s has no field %q", entity, field),
		Entity:  string(entity),
		Field:   field,
	}
}

// NewRelationshipPathNotFoundError creates a QueryError for an unregistered relationship prefix.
func NewRelationshipPathNotFoundError(entity EntityType, prefix string) *QueryError {
	return &QueryError{
		Code:    ErrCodeRelationshipPathNotFound,
		Message: fmt.Sprintf("%s has no relationship path %q", entity, prefix),
		Entity:  string(entity),
		Field:   prefix,
	}
}

// NewUnsupportedOperatorError creates a QueryError for an unknown operator.
func NewUnsupportedOperatorError(op FilterOperator, field string) *QueryError {
	return &QueryError{
		Code:    ErrCodeUnsupportedOperator,
		Message: fmt.Sprintf("unsupported operator %q", op),
		Field:   field,
	}
}

// NewInvalidFilterValueError creates a QueryError for a value shape the operator rejects.
func NewInvalidFilterValueError(op FilterOperator, field, reason string) *QueryError {
	return &QueryError{
		Code:    ErrCodeInvalidFilterValue,
		Message: fmt.Sprintf("operator %s: %s", op, reason),
		Field:   field,
		Details: map[string]string{"operator": string(op)},
	}
}

// NewInvalidAggregationSpecError creates a QueryError for a malformed aggregation.
func NewInvalidAggregationSpecError(fn AggregationFunction, reason string) *QueryError {
	return &QueryError{
		Code:    ErrCodeInvalidAggregationSpec,
		Message: fmt.Sprintf("aggregation %s: %s", fn, reason),
		Details: map[string]string{"function": string(fn)},
	}
}

// NewInvalidPaginationError creates a QueryError for a bad limit or offset.
func NewInvalidPaginationError(field string, value, max int) *QueryError {
	return &QueryError{
		Code:    ErrCodeInvalidPagination,
		Message: fmt.Sprintf("%s %d out of range", field, value),
		Field:   field,
		Details: map[string]string{
			"value": fmt.Sprintf("%d", value),
			"max":   fmt.Sprintf("%d", max),
		},
	}
}

// NewInvalidDateRangeError creates a QueryError for a reversed date range.
func NewInvalidDateRangeError(from, to string) *QueryError {
	return &QueryError{
		Code:    ErrCodeInvalidDateRange,
		Message: fmt.Sprintf("range start %s is after end %s", from, to),
		Details: map[string]string{"from": from, "to": to},
	}
}
