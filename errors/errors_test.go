package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *AppError
		expected string
	}{
		{
			name: "ErrorWithoutCause",
			setup: func() *AppError {
				return New(ValidationError, "test validation error")
			},
			expected: "VALIDATION_ERROR: test validation error",
		},
		{
			name: "ErrorWithCause",
			setup: func() *AppError {
				cause := fmt.Errorf("original error")
				return Wrap(DatabaseError, "database operation failed", cause)
			},
			expected: "DATABASE_ERROR: database operation failed (caused by: original error)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup()
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	tests := []struct {
		name  string
		setup func() (*AppError, error)
	}{
		{
			name: "ErrorWithCause",
			setup: func() (*AppError, error) {
				cause := fmt.Errorf("original error")
				err := Wrap(ExternalAPIError, "API call failed", cause)
				return err, cause
			},
		},
		{
			name: "ErrorWithoutCause",
			setup: func() (*AppError, error) {
				err := New(NotFoundError, "resource not found")
				return err, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, expectedCause := tt.setup()
			unwrapped := err.Unwrap()
			assert.Equal(t, expectedCause, unwrapped)
		})
	}
}

func TestNew(t *testing.T) {
	err := New(SerializationError, "corrupt cache payload")

	assert.Equal(t, SerializationError, err.Type)
	assert.Equal(t, "corrupt cache payload", err.Message)
	assert.Nil(t, err.Cause)
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name     string
		err      *AppError
		expected ErrorType
	}{
		{"Validation", NewValidationError("bad input"), ValidationError},
		{"NotFound", NewNotFoundError("missing"), NotFoundError},
		{"Database", NewDatabaseError("db", cause), DatabaseError},
		{"ExternalAPI", NewExternalAPIError("api", cause), ExternalAPIError},
		{"Search", NewSearchError("search", cause), SearchError},
		{"Serialization", NewSerializationError("decode", cause), SerializationError},
		{"Configuration", NewConfigurationError("config", cause), ConfigurationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type)
		})
	}
}
