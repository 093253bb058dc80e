package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/market_api/internal/metrics"
)

// MetricsMiddleware records request count, latency and in-flight gauge per
// route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(c.Request.Method, route, c.Writer.Status())
	}
}
