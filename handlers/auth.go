package handlers

import (
	"context"
	"net/http"

	"medibook/middleware"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes token lifecycle endpoints.
type AuthHandler struct {
	// Revoke writes the bearer token to the shared denylist.
	Revoke func(ctx context.Context, token string) error
	Logger *zap.Logger
}

// NewAuthHandler builds the handler backed by the auth cache denylist.
func NewAuthHandler(logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Revoke: utils.RevokeToken, Logger: logger}
}

// Logout revokes the caller's bearer token. Any session the token was
// driving stays in Redis until its TTL; only the credential dies.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := middleware.IdentityFromContext(c)
	if identity == nil || identity.Token == "" {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	if err := h.Revoke(c.Request.Context(), identity.Token); err != nil {
		h.Logger.Error("failed to revoke token",
			zap.String("userID", identity.UserID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "logout failed", "")
		return
	}

	h.Logger.Info("token revoked", zap.String("userID", identity.UserID))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
