package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"medibook/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newLogoutRouter(handler *AuthHandler, identity *models.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set("identity", identity)
		}
	})
	router.POST("/api/auth/logout", handler.Logout)
	return router
}

func postLogout(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogout_RevokesBearerToken(t *testing.T) {
	var revoked string
	handler := &AuthHandler{
		Revoke: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
		Logger: zap.NewNop(),
	}
	router := newLogoutRouter(handler, &models.Identity{UserID: "patient-1", Role: models.RolePatient, Token: "tok-123"})

	w := postLogout(router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123", revoked)
}

func TestLogout_DenylistWriteFailure(t *testing.T) {
	handler := &AuthHandler{
		Revoke: func(context.Context, string) error { return errors.New("redis down") },
		Logger: zap.NewNop(),
	}
	router := newLogoutRouter(handler, &models.Identity{UserID: "patient-1", Role: models.RolePatient, Token: "tok-123"})

	w := postLogout(router)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogout_NoIdentity(t *testing.T) {
	handler := NewAuthHandler(zap.NewNop())
	router := newLogoutRouter(handler, nil)

	w := postLogout(router)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
