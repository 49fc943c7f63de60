package middleware

import (
	apperrors "github.com/Danii44/PRIMEHODDIE/errors"

	"github.com/gin-gonic/gin"
)

// RequireAdmin lets the request through only when the session's identity
// slot holds an admin. Must run after Session.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetStore(c)
		if s == nil || !s.IsAuthenticated() {
			_ = c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !s.IsAdmin() {
			_ = c.Error(apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
