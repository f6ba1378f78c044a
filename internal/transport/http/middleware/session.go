package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-dashboard/internal/core/auth"
)

// KeySessionID is the gin context key holding the dashboard session id.
const KeySessionID = "sid"

type SessionCookie struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// Session resolves the dashboard session from its signed cookie, issuing a new
// one when the cookie is missing, expired or forged. It never rejects a request.
func Session(s *auth.Sessions, ck SessionCookie, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, err := c.Cookie(ck.Name); err == nil && tok != "" {
			if sid, err := s.Parse(tok); err == nil {
				c.Set(KeySessionID, sid)
				c.Next()
				return
			}
		}

		tok, sid, err := s.Issue()
		if err != nil {
			l.Error("issue session failed", zap.Error(err), zap.String("rid", c.GetString(KeyRequestID)))
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ck.Name, tok, ck.MaxAge, "/", "", ck.Secure, true)
		c.Set(KeySessionID, sid)
		c.Next()
	}
}
