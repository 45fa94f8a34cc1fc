package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/priceapp/backoffice/internal/session"
)

const sessionContextKey = "session_id"

// SessionMiddleware resolves the operator session from a cookie, creating
// a session (and setting the cookie) when none is valid. Every handler
// behind it can rely on SessionID returning a live session.
func SessionMiddleware(sessions *session.Manager, cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cookieName)
		id, created := sessions.Ensure(cookie)
		if created {
			c.SetCookie(cookieName, id, int(ttl.Seconds()), "/", "", false, true)
		}
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

// SessionID returns the operator session resolved by SessionMiddleware
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
