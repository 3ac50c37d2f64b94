package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, path, status, duration)
	}
}

// Handler returns the /metrics endpoint handler for this collector
func Handler(metrics *Metrics) gin.HandlerFunc {
	h := promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
