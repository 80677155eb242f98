package middleware

import (
	"strconv"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware collects HTTP metrics for Prometheus. Paths are
// labelled by route template so proposal IDs do not explode cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPActiveConnections.WithLabelValues(method, path).Inc()
		defer m.HTTPActiveConnections.WithLabelValues(method, path).Dec()

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())

		if size := c.Writer.Size(); size > 0 {
			m.HTTPResponseSize.WithLabelValues(method, path, status).Observe(float64(size))
		}
	}
}
