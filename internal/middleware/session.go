// Package middleware holds the gin middlewares shared by every API route.
package middleware

import (
	"net/http"
	"time"

	"buildings-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "buildings_session"
	sessionContextKey = "session"
	sessionIssuedKey  = "session_issued"
	sessionMaxAge     = 30 * 24 * time.Hour
)

// Session attaches a *session.Session to every request, issuing a new session cookie when the request
// carries none or a malformed one.
func Session(tracker *session.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = session.NewID()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(sessionIssuedKey, true)
		}

		c.Set(sessionContextKey, tracker.Session(id))
		c.Next()
	}
}

// SessionFrom returns the request's session, or nil when the Session middleware did not run.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// sessionIssued reports whether the Session middleware minted the id on this request.
func sessionIssued(c *gin.Context) bool {
	return c.GetBool(sessionIssuedKey)
}
