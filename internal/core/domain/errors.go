package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotImplemented indicates a required collaborator is not configured.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file type or migration target.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrVersionConflict indicates a compare-and-append lost a race: the
	// latest stored version is not the one the caller read.
	// Callers must re-read the latest version and retry.
	ErrVersionConflict = errors.New("schema version conflict")

	// ErrValidation indicates a structural business rule was violated.
	// Returned errors are *ValidationError values that match this sentinel.
	ErrValidation = errors.New("validation failed")

	// ErrEmptySchema indicates nothing could be inferred from the input.
	ErrEmptySchema = errors.New("empty schema")
)

// ValidationRule names a structural check.
type ValidationRule string

// Available validation rules.
const (
	RuleMinRows        ValidationRule = "min_rows"
	RuleRequiredColumn ValidationRule = "required_columns"
	RuleKeyNotNull     ValidationRule = "key_not_null"
	RuleUniqueColumn   ValidationRule = "unique_column"
	RuleValueRange     ValidationRule = "value_range"
)

// ValidationError reports a failed structural check with the offending values.
// It is fatal to the current ingestion only.
type ValidationError struct {
	// Rule is the check that failed.
	Rule ValidationRule

	// Column is the offending column, empty for table-level rules.
	Column string

	// Values lists offending values (missing column names, duplicates, ...).
	Values []string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Message)
	}
	if len(e.Values) > 0 {
		return fmt.Sprintf("%s: %s", e.Rule, strings.Join(e.Values, ", "))
	}
	return string(e.Rule)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PipelineError wraps a logic failure inside an ingestion step.
// Step names the stage that failed (extract, infer, submit, ...).
type PipelineError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}
