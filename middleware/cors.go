package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// CORS allows the listed origins, or every origin when the list is ["*"].
// An empty list falls back to the local dev servers. Credentials are allowed
// so the session cookie travels with cross-origin requests.
func CORS(allowed []string) gin.HandlerFunc {
	if len(allowed) == 0 {
		allowed = defaultOrigins
	}

	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", SessionHeader, RequestIDHeader},
		ExposeHeaders:    []string{SessionHeader, RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowed) == 1 && allowed[0] == "*" {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = allowed
	}
	return cors.New(cfg)
}
