package util

import (
	"errors"
	"net/http"

	apperrors "github.com/Galinha2/super-nova-2177/internal/errors"
	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message,omitempty"`
	Field    string   `json:"field,omitempty"`
	Details  string   `json:"details,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// RespondWithAPIError sends a structured API error response
func RespondWithAPIError(c *gin.Context, apiErr *apperrors.APIError) {
	fields := []zap.Field{
		zap.String("code", string(apiErr.Code)),
		zap.String("message", apiErr.Message),
		zap.String("path", c.FullPath()),
	}
	if apiErr.Field != "" {
		fields = append(fields, zap.String("field", apiErr.Field))
	}
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Log.Error("API error", append(fields, logger.WithStatus(apiErr.Status))...)
	} else if apiErr.Status >= http.StatusBadRequest {
		logger.Log.Warn("API error", fields...)
	}

	c.JSON(apiErr.Status, ErrorResponse{
		Code:     string(apiErr.Code),
		Message:  apiErr.Message,
		Field:    apiErr.Field,
		Details:  apiErr.Details,
		Messages: apiErr.Messages,
	})
}

// RespondWithError converts any error to an API error response. Errors that
// are not APIErrors become 500s and are attached to the gin context.
func RespondWithError(c *gin.Context, err error, message string) {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		RespondWithAPIError(c, apiErr)
		return
	}
	_ = c.Error(err)
	RespondWithAPIError(c, apperrors.InternalError(message).WithDetails(err.Error()))
}

// RespondNotFound sends a 404 Not Found response
func RespondNotFound(c *gin.Context, resource string) {
	RespondWithAPIError(c, apperrors.NotFound(resource))
}

// RespondBadRequest sends a 400 Bad Request response
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithAPIError(c, apperrors.BadRequest(message))
}

// RespondValidationErrors sends a 422 response listing every failed rule
func RespondValidationErrors(c *gin.Context, err error) {
	RespondWithAPIError(c, apperrors.ValidationFailed(apperrors.Messages(apperrors.Validation("", err))))
}
