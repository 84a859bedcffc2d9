package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appointly/appointly-api/internal/service"
)

// unmatchedPath labels requests that hit no registered route. Folding
// them into one value keeps scanners from inflating label cardinality
// with arbitrary URLs.
const unmatchedPath = "unmatched"

// Metrics records per-request duration and count metrics. The path label
// is the route template ("/services/:id"), never the raw URL.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
