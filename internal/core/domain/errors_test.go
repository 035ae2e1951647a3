package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrVersionConflict", ErrVersionConflict},
		{"ErrValidation", ErrValidation},
		{"ErrEmptySchema", ErrEmptySchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrNotImplemented,
		ErrInvalidInput,
		ErrUnsupportedType,
		ErrVersionConflict,
		ErrValidation,
		ErrEmptySchema,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

// TestErrors_ErrorMessages tests the sentinel messages
func TestErrors_ErrorMessages(t *testing.T) {
	tests := map[string]error{
		"not found":               ErrNotFound,
		"not implemented":         ErrNotImplemented,
		"invalid input":           ErrInvalidInput,
		"unsupported type":        ErrUnsupportedType,
		"schema version conflict": ErrVersionConflict,
		"validation failed":       ErrValidation,
		"empty schema":            ErrEmptySchema,
	}

	for expected, err := range tests {
		assert.Equal(t, expected, err.Error())
	}
}

// TestErrors_WithWrapping tests error wrapping behavior
func TestErrors_WithWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submit schema for %q after %d attempts: %w", "orders", 6, ErrVersionConflict)

	assert.True(t, errors.Is(wrapped, ErrVersionConflict))
	assert.Contains(t, wrapped.Error(), "schema version conflict")

	joined := errors.Join(errors.New("context"), ErrInvalidInput)
	assert.True(t, errors.Is(joined, ErrInvalidInput))
}

// TestValidationError_Error tests message rendering
func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "message wins",
			err:      &ValidationError{Rule: RuleMinRows, Message: "got 0 rows, need 1"},
			expected: "min_rows: got 0 rows, need 1",
		},
		{
			name:     "values listed",
			err:      &ValidationError{Rule: RuleRequiredColumn, Values: []string{"email", "id"}},
			expected: "required_columns: email, id",
		},
		{
			name:     "rule only",
			err:      &ValidationError{Rule: RuleKeyNotNull},
			expected: "key_not_null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

// TestPipelineError_Error tests step-prefixed messages
func TestPipelineError_Error(t *testing.T) {
	err := &PipelineError{Step: "extract", Err: ErrUnsupportedType}
	assert.Equal(t, "extract: unsupported type", err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
