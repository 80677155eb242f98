package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the error body written by the proposals API
type ErrorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message,omitempty"`
	Field    string   `json:"field,omitempty"`
	Details  string   `json:"details,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// APIError represents an API error response
type APIError struct {
	Code       string
	Message    string
	Messages   []string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Code, e.Message)
}

// DisplayMessages returns the messages to show the user
func (e *APIError) DisplayMessages() []string {
	if len(e.Messages) > 0 {
		return e.Messages
	}
	return []string{e.Message}
}

// ParseError parses an error response from the API
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil && errResp.Code != "" {
		return &APIError{
			Code:       errResp.Code,
			Message:    errResp.Message,
			Messages:   errResp.Messages,
			StatusCode: statusCode,
		}
	}

	msg := strings.TrimSpace(string(resp.Body()))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{
		Code:       "unknown_error",
		Message:    msg,
		StatusCode: statusCode,
	}
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusInternalServerError
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return ParseError(resp)
	}
	return nil
}
