package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/business-partner/leads-backend/config"
	"github.com/business-partner/leads-backend/handlers"
	"github.com/business-partner/leads-backend/middleware"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config            *config.Config
	JWTValidator      middleware.Validator
	RedisClient       *redis.Client
	SubmissionHandler *handlers.SubmissionHandler
	AdminHandler      *handlers.AdminHandler
	AuthHandler       *handlers.AuthHandler
	RevalidateHandler *handlers.RevalidateHandler
	ContentHandler    *handlers.ContentHandler
	HealthHandler     *handlers.HealthHandler
	Logger            *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes (don't require auth)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		// Public submission endpoints, rate limited per client IP.
		submitRoutes := v1.Group("/requests")
		if deps.RedisClient != nil {
			window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
			submitRoutes.Use(middleware.SubmitRateLimiter(deps.RedisClient, deps.Config.RateLimit.SubmitRequestsPerMinute, window))
		}
		{
			submitRoutes.POST("/contact", deps.SubmissionHandler.SubmitContactRequest)
			submitRoutes.POST("/equipment", deps.SubmissionHandler.SubmitEquipmentRequest)
		}

		// Public read-only content proxy.
		contentRoutes := v1.Group("/content")
		{
			contentRoutes.GET("/equipment", deps.ContentHandler.ListEquipment)
			contentRoutes.GET("/equipment/:slug", deps.ContentHandler.GetEquipment)
			contentRoutes.GET("/news", deps.ContentHandler.ListNews)
			contentRoutes.GET("/news/:slug", deps.ContentHandler.GetNews)
		}

		// Cache invalidation webhook, guarded by the shared secret.
		v1.POST("/revalidate", deps.RevalidateHandler.Revalidate)

		// Auth endpoints. Login redirects signed-in admins to the dashboard.
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login",
				middleware.RedirectIfAuthenticated(deps.Config, deps.JWTValidator),
				deps.AuthHandler.LoginHandler)
			authRoutes.POST("/refresh", deps.AuthHandler.RefreshTokenHandler)
			authRoutes.POST("/logout", deps.AuthHandler.LogoutHandler)
		}

		// Admin review area behind the session guard.
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.SessionGuard(deps.Config, deps.JWTValidator))
		{
			adminRoutes.GET("/dashboard", deps.AdminHandler.GetDashboard)

			requestRoutes := adminRoutes.Group("/requests")
			{
				requestRoutes.GET("/contact", deps.AdminHandler.ListContactRequests)
				requestRoutes.GET("/equipment", deps.AdminHandler.ListEquipmentRequests)
				requestRoutes.PATCH("/contact/:id/status", deps.AdminHandler.UpdateContactRequestStatus)
				requestRoutes.PATCH("/equipment/:id/status", deps.AdminHandler.UpdateEquipmentRequestStatus)
			}
		}
	}

	return r
}
