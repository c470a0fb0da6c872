package main

import (
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"

	"github.com/business-partner/leads-backend/config"
	"github.com/business-partner/leads-backend/handlers"
	"github.com/business-partner/leads-backend/internal/store/postgrest"
	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/middleware"
	"github.com/business-partner/leads-backend/pkg/sanity"
	"github.com/business-partner/leads-backend/router"
	"github.com/business-partner/leads-backend/services"
)

func main() {
	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// REST data plane. The process holds no SQL connection; every write
	// goes through the restricted procedure and every read through
	// filtered selects.
	pgClient := postgrest.NewClient(postgrest.Config{
		BaseURL: cfg.Supabase.URL,
		APIKey:  cfg.Supabase.ServiceKey,
	})
	if !pgClient.Configured() {
		log.Warnw("Data plane not configured; submissions and review will fail closed",
			"supabase_url_set", cfg.Supabase.URL != "")
	}
	leadStore := postgrest.NewLeadStore(pgClient, cfg.Supabase.SubmitFunction)

	// Initialize Redis client with TLS in production
	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}

	redisClient := redis.NewClient(redisOptions)
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warnw("Failed to close Redis client", "error", err)
		}
	}()

	// Read-only content store
	sanityClient := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		APIVersion: cfg.Sanity.APIVersion,
		UseCDN:     cfg.Sanity.UseCDN,
	})

	// Initialize services
	contentService := services.NewContentService(
		sanityClient,
		redisClient,
		time.Duration(cfg.ContentCache.TTLSeconds)*time.Second,
	)
	revalidationService := services.NewRevalidationService(&cfg.Revalidation, contentService)
	defer revalidationService.Stop()

	notificationService := services.NewNotificationService(&cfg.Email)
	submissionService := services.NewSubmissionService(&cfg.Supabase, leadStore, notificationService, revalidationService)
	reviewService := services.NewReviewService(leadStore)
	healthService := services.NewHealthService(pgClient, redisClient, cfg.Server.Version)

	// Admin session validation
	jwtValidator, err := middleware.NewJWTValidator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT validator: %v", err)
	}

	// Auth provider client for the login endpoints
	supabaseClient, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, &supabase.ClientOptions{})
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	// Handlers
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	adminHandler := handlers.NewAdminHandler(reviewService)
	authHandler := handlers.NewAuthHandler(supabaseClient, cfg)
	revalidateHandler := handlers.NewRevalidateHandler(revalidationService)
	contentHandler := handlers.NewContentHandler(contentService)
	healthHandler := handlers.NewHealthHandler(healthService)

	// Router setup
	r := router.SetupRouter(router.Dependencies{
		Config:            cfg,
		JWTValidator:      jwtValidator,
		RedisClient:       redisClient,
		SubmissionHandler: submissionHandler,
		AdminHandler:      adminHandler,
		AuthHandler:       authHandler,
		RevalidateHandler: revalidateHandler,
		ContentHandler:    contentHandler,
		HealthHandler:     healthHandler,
		Logger:            log,
	})

	log.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
