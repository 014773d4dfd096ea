package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/session"
	"github.com/GTDGit/vendor_console/internal/utils"
)

// PageLoader fetches the console's current page after a login.
type PageLoader interface {
	Load(ctx context.Context) error
}

type AuthHandler struct {
	logins *session.LoginService
	loader PageLoader
}

func NewAuthHandler(logins *session.LoginService, loader PageLoader) *AuthHandler {
	return &AuthHandler{logins: logins, loader: loader}
}

// Login handles POST /v1/console/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.ErrInvalidRequest.Error(), "Invalid request body")
		return
	}

	res, err := h.logins.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.loader != nil {
		if err := h.loader.Load(c.Request.Context()); err != nil {
			log.Warn().Err(err).Msg("Initial vendor page load failed after login")
		}
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"landing":   res.Landing,
		"userId":    res.Session.UserID,
		"name":      res.Session.Name,
		"email":     res.Session.Email,
		"role":      res.Session.Role,
		"expiresAt": res.Session.ExpiresAt,
	})
}

// Logout handles POST /v1/console/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.logins.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Logout successful", nil)
}
