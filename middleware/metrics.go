package middleware

import (
	"strconv"
	"time"

	"cafe-api/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per matched route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPActiveRequests.Inc()
		defer metrics.HTTPActiveRequests.Dec()

		start := time.Now()
		c.Next()

		// FullPath keeps label cardinality bounded (":id" instead of real ids)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
