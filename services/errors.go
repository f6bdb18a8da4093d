package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is. Two domain errors match when their types match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// Domain error variables. These are comparison targets for errors.Is;
// build returned errors with the New* helpers so details never leak between calls.

var (
	// Not Found Errors
	ErrCandidateNotFound = NewDomainError(ErrorTypeNotFound, "candidate not found", nil)
	ErrSelectionNotFound = NewDomainError(ErrorTypeNotFound, "selection not found", nil)

	// Validation Errors
	ErrInvalidInput      = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrInvalidTokenCount = NewDomainError(ErrorTypeValidation, "token counts must be non-negative", nil)

	// Configuration Errors
	ErrEmptyCatalog       = NewDomainError(ErrorTypeConfiguration, "candidate catalog is empty", nil)
	ErrDuplicateCandidate = NewDomainError(ErrorTypeConfiguration, "duplicate candidate id", nil)
	ErrInvalidCandidate   = NewDomainError(ErrorTypeConfiguration, "invalid candidate record", nil)

	// Internal Errors
	ErrInternal      = NewDomainError(ErrorTypeInternal, "internal server error", nil)
	ErrDatabaseError = NewDomainError(ErrorTypeInternal, "database error", nil)
)

// NewNotFoundError creates a not found error carrying the missing identifier
func NewNotFoundError(message, id string) *DomainError {
	return NewDomainError(ErrorTypeNotFound, message, nil).WithDetail("id", id)
}

// NewValidationError creates a validation error
func NewValidationError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeValidation, message, err)
}

// NewConfigurationError creates a configuration error. Configuration errors
// are raised before any selection attempt and are not retried.
func NewConfigurationError(message string, err error) *DomainError {
	return NewDomainError(ErrorTypeConfiguration, message, err)
}

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return GetErrorType(err) == ErrorTypeConfiguration
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapError wraps an error with additional context
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
