package error

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", ErrInvalidInput, CodeInvalidInput},
		{"duplicate identity", ErrDuplicateIdentity, CodeDuplicateIdentity},
		{"invalid credentials", ErrInvalidCredentials, CodeInvalidCredential},
		{"pin rejected", ErrPinRejected, CodePinRejected},
		{"session locked", ErrSessionLocked, CodeSessionLocked},
		{"not found", ErrNotFound, CodeNotFound},
		{"storage failure", ErrStorageFailure, CodeStorageFailure},
		{"schema init", ErrSchemaInit, CodeSchemaInit},
		{"unknown", fmt.Errorf("boom"), CodeInternal},
		{"wrapped not found", fmt.Errorf("context: %w", ErrNotFound), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "must not be empty")

	assert.EqualError(t, err, "invalid email: must not be empty")
	assert.True(t, IsInvalidInputError(err))
	assert.Equal(t, CodeInvalidInput, ErrorCode(err))

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.LogFields()["field"])
}

func TestStorageError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("createTransaction", cause)

	assert.True(t, IsStorageFailure(err))
	assert.ErrorIs(t, err, ErrStorageFailure)

	var sErr *StorageError
	assert.ErrorAs(t, err, &sErr)
	assert.Equal(t, cause, sErr.Unwrap())
	assert.Equal(t, "createTransaction", sErr.LogFields()["operation"])
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(ErrInvalidCredentials))
	assert.True(t, IsAuthError(ErrPinRejected))
	assert.True(t, IsAuthError(ErrSessionLocked))
	assert.False(t, IsAuthError(ErrNotFound))
}
