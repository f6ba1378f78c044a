package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-dashboard/internal/core/trace"
)

const (
	HeaderRequestID = "X-Request-ID"
	// KeyRequestID is the gin context key holding the request id.
	KeyRequestID = "rid"
)

// RequestID reuses an inbound X-Request-ID or mints one, and puts it on the
// request context so background work started by the request can log it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
