package middleware

import (
	"net/http"
	"strings"

	"medibook/models"
	"medibook/utils"

	"github.com/gin-gonic/gin"
)

const identityContextKey = "identity"

// isTokenRevoked is a variable so tests can stub the denylist lookup.
var isTokenRevoked = utils.IsTokenRevoked

// JWTAuthMiddleware validates the bearer token and places the caller's
// identity in the request context. The booking flow never reads auth state
// from anywhere else.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		identity, err := utils.IdentityFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if isTokenRevoked(c.Request.Context(), tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the authenticated identity set by
// JWTAuthMiddleware, or nil when the request is unauthenticated.
func IdentityFromContext(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
