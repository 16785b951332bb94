// FilePath: internal/errors/errors.go
package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeTransport    ErrorType = "transport"
	ErrorTypePartialFetch ErrorType = "partial_fetch"
	ErrorTypeAggregation  ErrorType = "aggregation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeInternal     ErrorType = "internal"
)

// DashError represents a structured dashboard error
type DashError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Code      int       `json:"code"`
	RequestID string    `json:"request_id,omitempty"`
	Details   any       `json:"details,omitempty"`
	err       error     // Internal error for logging
}

// Error implements the error interface
func (e *DashError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *DashError) Unwrap() error {
	return e.err
}

// WithRequestID adds a request ID to the error
func (e *DashError) WithRequestID(id string) *DashError {
	e.RequestID = id
	return e
}

// WithDetails adds additional details to the error
func (e *DashError) WithDetails(details any) *DashError {
	e.Details = details
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, err error) *DashError {
	return &DashError{
		Type:    ErrorTypeValidation,
		Message: msg,
		Code:    http.StatusBadRequest,
		err:     err,
	}
}

// NewTransportError creates an error for a failed remote call
func NewTransportError(msg string, err error) *DashError {
	return &DashError{
		Type:    ErrorTypeTransport,
		Message: msg,
		Code:    http.StatusBadGateway,
		err:     err,
	}
}

// NewPartialFetchError creates an error for a fetch where both the
// incremental feed and its bounded fallback failed
func NewPartialFetchError(msg string, err error) *DashError {
	return &DashError{
		Type:    ErrorTypePartialFetch,
		Message: msg,
		Code:    http.StatusBadGateway,
		err:     err,
	}
}

// NewAggregationError creates an error for a malformed or inconsistent
// result set, such as a batch response that does not line up with the
// batch request
func NewAggregationError(msg string, err error) *DashError {
	return &DashError{
		Type:    ErrorTypeAggregation,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *DashError {
	return &DashError{
		Type:    ErrorTypeNotFound,
		Message: msg,
		Code:    http.StatusNotFound,
		err:     err,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *DashError {
	return &DashError{
		Type:    ErrorTypeInternal,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	if dashErr, ok := err.(*DashError); ok {
		return dashErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool {
	if dashErr, ok := err.(*DashError); ok {
		return dashErr.Type == ErrorTypeValidation
	}
	return false
}

// IsTransport checks if an error is a Transport error
func IsTransport(err error) bool {
	if dashErr, ok := err.(*DashError); ok {
		return dashErr.Type == ErrorTypeTransport
	}
	return false
}

// IsPartialFetch checks if an error is a PartialFetch error
func IsPartialFetch(err error) bool {
	if dashErr, ok := err.(*DashError); ok {
		return dashErr.Type == ErrorTypePartialFetch
	}
	return false
}

// IsAggregation checks if an error is an Aggregation error
func IsAggregation(err error) bool {
	if dashErr, ok := err.(*DashError); ok {
		return dashErr.Type == ErrorTypeAggregation
	}
	return false
}
