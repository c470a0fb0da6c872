package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supabase-community/supabase-go"

	"github.com/business-partner/leads-backend/config"
	"github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/logger"
)

// AuthHandler handles the admin sign-in endpoints. Credentials are checked
// by the auth provider; on success the session token is also set as the
// admin area cookie so browser navigation works without extra headers.
type AuthHandler struct {
	supabase *supabase.Client
	config   *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(supabaseClient *supabase.Client, config *config.Config) *AuthHandler {
	return &AuthHandler{
		supabase: supabaseClient,
		config:   config,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		h.config.Session.CookieName,
		token,
		h.config.Session.CookieMaxAgeSeconds,
		"/", "",
		h.config.IsProduction(),
		true,
	)
}

// LoginHandler signs an admin in with email and password
// POST /v1/auth/login
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.Error(errors.ValidationFailed("Invalid request format", "Expected email and password")); err != nil {
			log.Errorw("Failed to set error in context", "error", err)
		}
		return
	}

	session, err := h.supabase.Auth.SignInWithEmailPassword(req.Email, req.Password)
	if err != nil {
		log.Warnw("Login failed", "email", logger.MaskEmail(req.Email), "error", err)
		if err := c.Error(errors.Unauthorized("login_failed", "Неверный email или пароль")); err != nil {
			log.Errorw("Failed to set error in context", "error", err)
		}
		return
	}

	h.setSessionCookie(c, session.AccessToken)
	log.Infow("Admin signed in", "email", logger.MaskEmail(req.Email))

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"token_type":    "bearer",
		"redirect_to":   h.config.Session.AdminLandingPath,
	})
}

// RefreshTokenHandler handles token refresh requests
// POST /v1/auth/refresh
func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	log := logger.GetLogger()

	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.Error(errors.ValidationFailed("Invalid request format", "Expected refresh_token")); err != nil {
			log.Errorw("Failed to set error in context", "error", err)
		}
		return
	}

	log.Debugw("Attempting to refresh token")

	session, err := h.supabase.Auth.RefreshToken(req.RefreshToken)
	if err != nil {
		log.Warnw("Failed to refresh token", "error", err)
		if err := c.Error(errors.Unauthorized("refresh_failed", "Failed to refresh token")); err != nil {
			log.Errorw("Failed to set error in context", "error", err)
		}
		return
	}

	h.setSessionCookie(c, session.AccessToken)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_in":    session.ExpiresIn,
		"token_type":    "bearer",
	})
}

// LogoutHandler clears the admin session cookie
// POST /v1/auth/logout
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	c.SetCookie(h.config.Session.CookieName, "", -1, "/", "", h.config.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"redirect_to": h.config.Session.LoginPath})
}
