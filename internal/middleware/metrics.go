package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jouyai/midtrans-dik/internal/metrics"
)

// Metrics returns middleware that records request counts and latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
