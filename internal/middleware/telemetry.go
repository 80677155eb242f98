package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware returns otelgin followed by a handler that tags the
// request span with feed attributes while it is still open.
func TracingMiddleware(serviceName string) gin.HandlersChain {
	return gin.HandlersChain{otelgin.Middleware(serviceName), annotateSpan}
}

func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}

	if id := c.Param("id"); id != "" {
		span.SetAttributes(attribute.String("proposal.id", id))
	}
	if order := c.Query("order"); order != "" {
		span.SetAttributes(attribute.String("feed.order", order))
	}
	if species := c.Query("species"); species != "" {
		span.SetAttributes(attribute.String("feed.species", species))
	}
	if requestID := c.GetString(RequestIDKey); requestID != "" {
		span.SetAttributes(attribute.String("request.id", requestID))
	}

	c.Next()

	for _, ginErr := range c.Errors {
		if ginErr.Err != nil {
			span.RecordError(ginErr.Err, trace.WithStackTrace(true))
			span.SetStatus(codes.Error, ginErr.Error())
		}
	}
}
