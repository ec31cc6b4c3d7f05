package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id on requests and responses.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
)

// RequestID returns middleware that tags every request with an id, reusing the
// caller's X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
