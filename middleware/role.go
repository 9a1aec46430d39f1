package middleware

import (
	"net/http"

	"medibook/models"

	"github.com/gin-gonic/gin"
)

// RequirePatient gates an endpoint on the caller being an authenticated
// patient. This is the same guard the booking flow applies internally;
// enforcing it at the edge keeps doctors and anonymous callers out of the
// booking surface entirely.
func RequirePatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		if identity.Role != models.RolePatient || identity.UserID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Booking is available to patients only"})
			return
		}
		c.Next()
	}
}
