package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tabshell/tabshell/backend/internal/shared/id"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// RequestIDHeader is the response header carrying the request id.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a ULID-backed id. A non-empty id
// supplied by the client is kept for cross-service correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set(RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or empty.
func GetRequestID(c *gin.Context) string {
	rid, _ := c.Get(RequestIDKey)
	s, _ := rid.(string)
	return s
}
