package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized results surfaced to the UI layer
const (
	// 4xxx - caller errors
	CodeInvalidInput      = 4001
	CodeDuplicateIdentity = 4002
	CodeInvalidCredential = 4003
	CodePinRejected       = 4004
	CodeSessionLocked     = 4005
	CodeNotFound          = 4040

	// 5xxx - store errors
	CodeInternal       = 5000
	CodeStorageFailure = 5001
	CodeSchemaInit     = 5002
)

// Base error types
var (
	// ErrInvalidInput is returned when a required field is missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateIdentity is returned when registering an email that already exists
	ErrDuplicateIdentity = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned on a failed login; it deliberately does not
	// distinguish an unknown email from a wrong secret
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPinRejected is returned when a submitted PIN does not match the stored one
	ErrPinRejected = errors.New("pin rejected")

	// ErrSessionLocked is returned when a resumed session has not passed its PIN
	// hurdle yet; data access must wait for a successful PIN submission
	ErrSessionLocked = errors.New("session is locked")

	// ErrNotFound is returned when an update/delete target does not exist for the
	// given owner
	ErrNotFound = errors.New("record not found")

	// ErrStorageFailure is returned when the durable snapshot write failed; the
	// in-memory state has been rolled back and the operation may be retried
	ErrStorageFailure = errors.New("failed to persist snapshot")

	// ErrSchemaInit is returned when the schema could not be created at startup;
	// the store must not be used in this case
	ErrSchemaInit = errors.New("schema initialization failed")

	// ErrInternal is returned for unexpected engine-side errors
	ErrInternal = errors.New("internal store error")
)

// ErrorCode returns the standardized code for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrDuplicateIdentity):
		return CodeDuplicateIdentity
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredential
	case errors.Is(err, ErrPinRejected):
		return CodePinRejected
	case errors.Is(err, ErrSessionLocked):
		return CodeSessionLocked
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrStorageFailure):
		return CodeStorageFailure
	case errors.Is(err, ErrSchemaInit):
		return CodeSchemaInit
	default:
		return CodeInternal
	}
}

// ValidationError carries the field that failed validation
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation_error",
		"field":      e.Field,
		"reason":     e.Reason,
		"error_code": CodeInvalidInput,
	}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a failed snapshot write together with the operation
// that triggered it
type StorageError struct {
	Operation string
	Err       error
}

// Error implements the error interface for StorageError
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrStorageFailure
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// LogFields returns a map of fields for structured logging
func (e *StorageError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "storage_error",
		"operation":  e.Operation,
		"error":      e.Err.Error(),
		"error_code": CodeStorageFailure,
	}
}

// NewStorageError creates a storage error for the named gateway operation
func NewStorageError(operation string, err error) error {
	return &StorageError{Operation: operation, Err: err}
}

// IsNotFoundError checks if the error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInputError checks if the error is a validation error
func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsStorageFailure checks if the error is a failed durable save
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

// IsAuthError checks if the error is any authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrPinRejected) ||
		errors.Is(err, ErrSessionLocked)
}
