package middleware

import (
	"context"
	"net/http"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"
	"github.com/Danii44/PRIMEHODDIE/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"

	sessionIDKey = "session_id"
	storeKey     = "store"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// SessionResolver is satisfied by sessions.Registry.
type SessionResolver interface {
	Get(ctx context.Context, sessionID string) (*store.Store, error)
}

// Session binds the request to the shopper's store. The id comes from the
// X-Session-ID header, then the session_id cookie; anything that is not a
// uuid is replaced by a fresh one. The id is echoed in both places. A store
// whose saved state cannot be read fails the request with 503.
func Session(sessions SessionResolver, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionCookieMaxAge, "/", "", secureCookie, true)

		c.Set(sessionIDKey, id)
		s, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(apperrors.Wrap(apperrors.ErrStateUnavailable, err))
			c.Abort()
			return
		}
		c.Set(storeKey, s)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// GetStore returns the store bound by Session, or nil outside it.
func GetStore(c *gin.Context) *store.Store {
	if v, ok := c.Get(storeKey); ok {
		if s, ok := v.(*store.Store); ok {
			return s
		}
	}
	return nil
}
