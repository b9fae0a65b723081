package middleware

import (
	"net/http"
	"strings"

	"chirp/internal/auth"

	"github.com/gin-gonic/gin"
)

// UserIDKey is where the authenticated user id lives on the gin context.
const UserIDKey = "userId"

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth verifies the bearer token and attaches the caller's user id.
// Missing, malformed, expired and badly signed tokens all get the same 401.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "権限がありません。"})
			return
		}

		userID, err := auth.VerifyToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "権限がありません。"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth attaches the user id when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := auth.VerifyToken(token, secret); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// CurrentUserID reads the id set by RequireAuth/OptionalAuth.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
