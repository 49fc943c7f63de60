package middleware

import (
	"net/http"

	apperrors "github.com/Danii44/PRIMEHODDIE/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMiddleware renders the last error attached with c.Error as
// {code, message}. Anything that is not an application error becomes a 500.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		appErr := apperrors.As(c.Errors.Last().Err)
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("session_id", GetSessionID(c)),
				zap.Error(appErr),
			)
		}
		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(appErr.Code, appErr)
	}
}

// Recovery turns a panic into a logged 500.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.ErrInternalServer)
	})
}
