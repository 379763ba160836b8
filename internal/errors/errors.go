package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound               = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists          = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation             = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation       = new(ErrCodeInvalidOperation, "invalid operation")
	ErrInvalidStateTransition = new(ErrCodeInvalidStateTransition, "invalid state transition")
	ErrAlreadyCorrected       = new(ErrCodeAlreadyCorrected, "invoice already corrected")
	ErrImmutableField         = new(ErrCodeImmutableField, "immutable field violation")
	ErrConcurrencyConflict    = new(ErrCodeConcurrencyConflict, "concurrency conflict")
	ErrDatabase               = new(ErrCodeDatabase, "database error")
	ErrSystem                 = new(ErrCodeSystemError, "system error")

	// maps errors to http status codes for the presentation layer
	statusCodeMap = map[error]int{
		ErrNotFound:               http.StatusNotFound,
		ErrAlreadyExists:          http.StatusConflict,
		ErrValidation:             http.StatusBadRequest,
		ErrInvalidOperation:       http.StatusBadRequest,
		ErrInvalidStateTransition: http.StatusConflict,
		ErrAlreadyCorrected:       http.StatusConflict,
		ErrImmutableField:         http.StatusConflict,
		ErrConcurrencyConflict:    http.StatusConflict,
		ErrDatabase:               http.StatusInternalServerError,
		ErrSystem:                 http.StatusInternalServerError,
	}
)

const (
	ErrCodeNotFound               = "not_found"
	ErrCodeAlreadyExists          = "already_exists"
	ErrCodeValidation             = "validation_error"
	ErrCodeInvalidOperation       = "invalid_operation"
	ErrCodeInvalidStateTransition = "invalid_state_transition"
	ErrCodeAlreadyCorrected       = "already_corrected"
	ErrCodeImmutableField         = "immutable_field_violation"
	ErrCodeConcurrencyConflict    = "concurrency_conflict"
	ErrCodeDatabase               = "database_error"
	ErrCodeSystemError            = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsInvalidStateTransition checks if an error is an invalid state transition error
func IsInvalidStateTransition(err error) bool {
	return errors.Is(err, ErrInvalidStateTransition)
}

// IsAlreadyCorrected checks if an error is an already corrected error
func IsAlreadyCorrected(err error) bool {
	return errors.Is(err, ErrAlreadyCorrected)
}

// IsImmutableField checks if an error is an immutable field violation
func IsImmutableField(err error) bool {
	return errors.Is(err, ErrImmutableField)
}

// IsConcurrencyConflict checks if an error is a concurrency conflict error
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
