package errors

import "net/http"

// ErrorCode represents the type of error returned by the proposals API
type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrValidation     ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrPayloadTooBig  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
)

// StatusCodeMap maps ErrorCode to HTTP status code
var StatusCodeMap = map[ErrorCode]int{
	ErrNotFound:       http.StatusNotFound,
	ErrValidation:     http.StatusUnprocessableEntity,
	ErrBadRequest:     http.StatusBadRequest,
	ErrInternalError:  http.StatusInternalServerError,
	ErrPayloadTooBig:  http.StatusRequestEntityTooLarge,
	ErrServiceUnavail: http.StatusServiceUnavailable,
}

// StatusCode returns the HTTP status code for this error code
func (e ErrorCode) StatusCode() int {
	if code, ok := StatusCodeMap[e]; ok {
		return code
	}
	return http.StatusInternalServerError
}
