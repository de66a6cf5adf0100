package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/auth"
)

// AuthHandler serves login and account endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var creds auth.Credentials
	if !h.BindJSON(c, &creds) {
		return
	}

	token, user, err := h.service.Login(ctx, creds)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token.AccessToken,
		"expiresAt":   token.ExpiresAt,
		"tokenType":   token.TokenType,
		"user":        user,
	})
}

// Register handles POST /auth/register. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req auth.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, user)
}

// Me handles GET /auth/me, returning the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID := h.GetUserID(c)
	if userID == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	parsed, err := id.Parse(userID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid user identity"))
		return
	}

	user, err := h.service.GetUserByID(ctx, parsed)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}
