package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers token lifecycle endpoints. Logout requires a
// still-valid bearer token; revoked or expired tokens are rejected upstream
// by the auth middleware.
func RegisterAuthRoutes(r *gin.Engine, ah *handlers.AuthHandler) {
	auth := r.Group("/api/auth")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.POST("/logout", ah.Logout)
	}
}
