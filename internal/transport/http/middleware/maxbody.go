package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "social-dashboard/internal/transport/http/response"
)

// MaxBodyBytes limits the request body to n bytes. Handlers report the read
// failure with c.Error; the envelope is written only if they wrote nothing.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				resp.Abort(c, resp.CodeBadRequest, "request body too large")
				return
			}
		}
	}
}
