package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a standardized API error response
type APIError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Field    string    `json:"field,omitempty"`
	Details  string    `json:"details,omitempty"`
	Messages []string  `json:"messages,omitempty"`
	Status   int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// ValidationError creates a VALIDATION_ERROR for a single field
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusUnprocessableEntity,
	}
}

// ValidationFailed creates a VALIDATION_ERROR carrying every failed rule
func ValidationFailed(messages []string) *APIError {
	return &APIError{
		Code:     ErrValidation,
		Message:  strings.Join(messages, "; "),
		Messages: messages,
		Status:   http.StatusUnprocessableEntity,
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// PayloadTooLarge creates a PAYLOAD_TOO_LARGE error
func PayloadTooLarge(limit int64) *APIError {
	return &APIError{
		Code:    ErrPayloadTooBig,
		Message: fmt.Sprintf("upload exceeds %d bytes", limit),
		Status:  http.StatusRequestEntityTooLarge,
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// ServiceUnavailable creates a SERVICE_UNAVAILABLE error
func ServiceUnavailable(service string) *APIError {
	return &APIError{
		Code:    ErrServiceUnavail,
		Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Status:  http.StatusServiceUnavailable,
	}
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// IsNotFound reports whether err is a NOT_FOUND error
func IsNotFound(err error) bool {
	var ae *APIError
	return stderrors.As(err, &ae) && ae.Code == ErrNotFound
}
