package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/business-partner/leads-backend/config"
	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/logger"
)

// extractToken pulls the session token from the Authorization header or,
// failing that, from the session cookie. Browser navigation carries the
// cookie; API clients send a bearer token.
func extractToken(c *gin.Context, cookieName string) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// wantsHTML reports whether the request is a browser navigation rather
// than an API call. Navigations get redirects; API calls get JSON errors.
func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// SessionGuard protects the admin area. Requests without a valid session
// are turned away before the handler runs: browser navigations are
// redirected to the login page, API calls receive 401. A valid session has
// its cookie re-issued so the expiry slides while the admin keeps working.
func SessionGuard(cfg *config.Config, validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		token := extractToken(c, cfg.Session.CookieName)
		if token == "" {
			rejectUnauthenticated(c, cfg, "missing_session", "Authorization required")
			return
		}

		userID, email, err := validator.Validate(token)
		if err != nil {
			log.Debugw("Session token rejected",
				"path", c.Request.URL.Path,
				"expired", errors.Is(err, ErrTokenExpired),
				"error", err)

			code := "invalid_session"
			message := "Invalid authentication token"
			if errors.Is(err, ErrTokenExpired) {
				code = "session_expired"
				message = "Your session has expired"
			}
			clearSessionCookie(c, cfg)
			rejectUnauthenticated(c, cfg, code, message)
			return
		}

		refreshSessionCookie(c, cfg, token)

		c.Set(UserIDKey, userID)
		if email != "" {
			c.Set(UserEmailKey, email)
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends an already signed-in admin from the login
// page straight to the dashboard. Anonymous visitors pass through.
func RedirectIfAuthenticated(cfg *config.Config, validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cfg.Session.CookieName)
		if token == "" {
			c.Next()
			return
		}

		if _, _, err := validator.Validate(token); err != nil {
			// Stale cookie: let the visitor log in again.
			clearSessionCookie(c, cfg)
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, cfg.Session.AdminLandingPath)
		c.Abort()
	}
}

func rejectUnauthenticated(c *gin.Context, cfg *config.Config, code, message string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, cfg.Session.LoginPath)
		c.Abort()
		return
	}

	_ = c.Error(apperrors.Unauthorized(code, message))
	c.Abort()
}

func refreshSessionCookie(c *gin.Context, cfg *config.Config, token string) {
	// Re-issue only when the request carried the cookie; bearer-token API
	// clients manage their own token lifetime.
	if _, err := c.Cookie(cfg.Session.CookieName); err != nil {
		return
	}
	c.SetCookie(cfg.Session.CookieName, token, cfg.Session.CookieMaxAgeSeconds, "/", "", cfg.IsProduction(), true)
}

func clearSessionCookie(c *gin.Context, cfg *config.Config) {
	if _, err := c.Cookie(cfg.Session.CookieName); err != nil {
		return
	}
	c.SetCookie(cfg.Session.CookieName, "", -1, "/", "", cfg.IsProduction(), true)
}
