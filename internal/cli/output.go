package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/worklens/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Request rejected by the engine or failed validation
	ExitCommandError = 2 // Command error (unreadable file, database failure, bad config)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Summary   string    `json:"summary,omitempty"`    // one-line description of results
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // optional log correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E201", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// Text output prints data with fmt; use Text for custom rendering.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Result outputs data with a summary line. JSON output carries both in one
// response; text output prints the summary followed by the rendered lines.
func (f *OutputFormatter) Result(data any, summary string, lines []string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			Summary: summary,
		})
	}

	if summary != "" {
		fmt.Fprintln(f.Writer, summary)
	}
	for _, line := range lines {
		fmt.Fprintln(f.Writer, line)
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// QueryError outputs an engine error, mapping its code to a CLI code and
// carrying its structured fields as details. Returns the ExitError the
// command should return.
func (f *OutputFormatter) QueryError(message string, err error) error {
	var qe *model.QueryError
	if !errors.As(err, &qe) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, message, err)
	}

	details := map[string]string{"query_code": string(qe.Code)}
	if qe.Entity != "" {
		details["entity"] = qe.Entity
	}
	if qe.Field != "" {
		details["field"] = qe.Field
	}
	for k, v := range qe.Details {
		details[k] = v
	}
	_ = f.Error(queryErrorCode(qe.Code), qe.Message, details)
	return WrapExitError(ExitFailure, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Path not found
	ErrCodeReadFailed   = "E003" // File read error
	ErrCodeParseFailed  = "E004" // YAML/JSON/CUE syntax error
	ErrCodeSchema       = "E005" // Document does not match #Request
	ErrCodeUnsupported  = "E006" // Unsupported file extension
	ErrCodeDatabase     = "E007" // Database open/query error
	ErrCodeConfig       = "E008" // Configuration error
	ErrCodeImportFailed = "E009" // Fixture import error

	// Request validation errors reported by the validate command
	ErrCodeInvalidRequest = "E100"

	// Engine errors
	ErrCodeUnsupportedEntityType    = "E201"
	ErrCodeFieldNotFound            = "E202"
	ErrCodeRelationshipPathNotFound = "E203"
	ErrCodeUnsupportedOperator      = "E204"
	ErrCodeInvalidFilterValue       = "E205"
	ErrCodeInvalidAggregationSpec   = "E206"
	ErrCodeInvalidPagination        = "E207"
	ErrCodeInvalidDateRange         = "E208"
)

// queryErrorCode maps an engine error code to a CLI error code.
func queryErrorCode(code model.ErrorCode) string {
	switch code {
	case model.ErrCodeUnsupportedEntityType:
		return ErrCodeUnsupportedEntityType
	case model.ErrCodeFieldNotFound:
		return ErrCodeFieldNotFound
	case model.ErrCodeRelationshipPathNotFound:
		return ErrCodeRelationshipPathNotFound
	case model.ErrCodeUnsupportedOperator:
		return ErrCodeUnsupportedOperator
	case model.ErrCodeInvalidFilterValue:
		return ErrCodeInvalidFilterValue
	case model.ErrCodeInvalidAggregationSpec:
		return ErrCodeInvalidAggregationSpec
	case model.ErrCodeInvalidPagination:
		return ErrCodeInvalidPagination
	case model.ErrCodeInvalidDateRange:
		return ErrCodeInvalidDateRange
	default:
		return ErrCodeGeneric
	}
}
