package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/codeloft/termdeck/backend/internal/shared/id"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestID tags every request with a unique id for log correlation and
// echoes it back in the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := id.NewRequestID().String()
		c.Set(RequestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}
