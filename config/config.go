// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/business-partner/leads-backend/logger"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minSecretLength = 16
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	Version        string      `mapstructure:"VERSION"`
	// FrontendURL is the public site origin, used for redirect targets.
	FrontendURL string `mapstructure:"FRONTEND_URL"`
}

// SupabaseConfig holds the credentials of the database's REST data plane
// and auth provider.
type SupabaseConfig struct {
	URL        string `mapstructure:"URL"`
	AnonKey    string `mapstructure:"ANON_KEY"`
	ServiceKey string `mapstructure:"SERVICE_KEY"`
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	// SubmitFunction names the restricted procedure that is the only
	// sanctioned write path for untrusted lead submissions.
	SubmitFunction string `mapstructure:"SUBMIT_FUNCTION"`
}

// SessionConfig holds the session-cookie protocol settings of the admin area.
type SessionConfig struct {
	CookieName string `mapstructure:"COOKIE_NAME"`
	// CookieMaxAgeSeconds is the sliding expiry re-applied on every
	// guarded request.
	CookieMaxAgeSeconds int    `mapstructure:"COOKIE_MAX_AGE_SECONDS"`
	LoginPath           string `mapstructure:"LOGIN_PATH"`
	AdminLandingPath    string `mapstructure:"ADMIN_LANDING_PATH"`
}

// RedisConfig holds Redis connection details for the content cache and
// rate limiting.
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
	UseTLS   bool   `mapstructure:"USE_TLS"`
}

// SanityConfig holds the read-only content store settings.
type SanityConfig struct {
	ProjectID  string `mapstructure:"PROJECT_ID"`
	Dataset    string `mapstructure:"DATASET"`
	APIVersion string `mapstructure:"API_VERSION"`
	UseCDN     bool   `mapstructure:"USE_CDN"`
}

// RevalidationConfig holds the cache-invalidation endpoint settings.
type RevalidationConfig struct {
	// Secret guards the public revalidation endpoint; requests with a
	// different secret are rejected with 401.
	Secret string `mapstructure:"SECRET"`
	// DebounceMilliseconds is the quiet period used to coalesce bursts of
	// invalidation triggers into a single pass.
	DebounceMilliseconds int `mapstructure:"DEBOUNCE_MILLISECONDS"`
}

// EmailConfig holds configuration for operator notification e-mails.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"ENABLED"`
	FromAddress  string `mapstructure:"FROM_ADDRESS"`
	FromName     string `mapstructure:"FROM_NAME"`
	ToAddress    string `mapstructure:"TO_ADDRESS"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY"`
}

// RateLimitConfig holds configuration for rate limiting the public
// submission endpoints.
type RateLimitConfig struct {
	SubmitRequestsPerMinute int `mapstructure:"SUBMIT_REQUESTS_PER_MINUTE"`
	WindowSeconds           int `mapstructure:"WINDOW_SECONDS"`
}

// ContentCacheConfig holds the read-through cache settings of the content
// proxy.
type ContentCacheConfig struct {
	TTLSeconds int `mapstructure:"TTL_SECONDS"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server       ServerConfig       `mapstructure:"SERVER"`
	Supabase     SupabaseConfig     `mapstructure:"SUPABASE"`
	Session      SessionConfig      `mapstructure:"SESSION"`
	Redis        RedisConfig        `mapstructure:"REDIS"`
	Sanity       SanityConfig       `mapstructure:"SANITY"`
	Revalidation RevalidationConfig `mapstructure:"REVALIDATION"`
	Email        EmailConfig        `mapstructure:"EMAIL"`
	RateLimit    RateLimitConfig    `mapstructure:"RATE_LIMIT"`
	ContentCache ContentCacheConfig `mapstructure:"CONTENT_CACHE"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("SUPABASE.SUBMIT_FUNCTION", "insert_request_untrusted")
	v.SetDefault("SESSION.COOKIE_NAME", "sb-access-token")
	v.SetDefault("SESSION.COOKIE_MAX_AGE_SECONDS", 3600)
	v.SetDefault("SESSION.LOGIN_PATH", "/login")
	v.SetDefault("SESSION.ADMIN_LANDING_PATH", "/admin/dashboard")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("SANITY.API_VERSION", "2024-03-10")
	v.SetDefault("SANITY.USE_CDN", true)
	v.SetDefault("REVALIDATION.DEBOUNCE_MILLISECONDS", 500)
	v.SetDefault("EMAIL.ENABLED", false)
	v.SetDefault("EMAIL.FROM_NAME", "Бизнес-Партнер")
	v.SetDefault("RATE_LIMIT.SUBMIT_REQUESTS_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("CONTENT_CACHE.TTL_SECONDS", 300)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.FRONTEND_URL", "FRONTEND_URL"},
		// Supabase config
		{"SUPABASE.URL", "SUPABASE_URL"},
		{"SUPABASE.ANON_KEY", "SUPABASE_ANON_KEY"},
		{"SUPABASE.SERVICE_KEY", "SUPABASE_SERVICE_KEY"},
		{"SUPABASE.JWT_SECRET", "SUPABASE_JWT_SECRET"},
		{"SUPABASE.SUBMIT_FUNCTION", "SUPABASE_SUBMIT_FUNCTION"},
		// Session config
		{"SESSION.COOKIE_NAME", "SESSION_COOKIE_NAME"},
		{"SESSION.COOKIE_MAX_AGE_SECONDS", "SESSION_COOKIE_MAX_AGE_SECONDS"},
		{"SESSION.LOGIN_PATH", "SESSION_LOGIN_PATH"},
		{"SESSION.ADMIN_LANDING_PATH", "SESSION_ADMIN_LANDING_PATH"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Sanity config
		{"SANITY.PROJECT_ID", "SANITY_PROJECT_ID"},
		{"SANITY.DATASET", "SANITY_DATASET"},
		{"SANITY.API_VERSION", "SANITY_API_VERSION"},
		{"SANITY.USE_CDN", "SANITY_USE_CDN"},
		// Revalidation config
		{"REVALIDATION.SECRET", "REVALIDATION_SECRET"},
		{"REVALIDATION.DEBOUNCE_MILLISECONDS", "REVALIDATION_DEBOUNCE_MILLISECONDS"},
		// Email config
		{"EMAIL.ENABLED", "EMAIL_ENABLED"},
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.TO_ADDRESS", "EMAIL_TO_ADDRESS"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		// Rate limit config
		{"RATE_LIMIT.SUBMIT_REQUESTS_PER_MINUTE", "RATE_LIMIT_SUBMIT_REQUESTS_PER_MINUTE"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		// Content cache config
		{"CONTENT_CACHE.TTL_SECONDS", "CONTENT_CACHE_TTL_SECONDS"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"supabase_url_set", v.GetString("SUPABASE.URL") != "",
		"redis_address", v.GetString("REDIS.ADDRESS"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validateConfig enforces the credentials required to run. Production
// fails closed: the process refuses to start without the data-plane keys
// and the revalidation secret rather than running with a write path that
// would reject every lead.
func validateConfig(cfg *Config) error {
	if !cfg.IsProduction() {
		return nil
	}

	var missing []string
	if cfg.Supabase.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cfg.Supabase.AnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if cfg.Supabase.ServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if cfg.Supabase.JWTSecret == "" {
		missing = append(missing, "SUPABASE_JWT_SECRET")
	}
	if cfg.Revalidation.Secret == "" {
		missing = append(missing, "REVALIDATION_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if len(cfg.Revalidation.Secret) < minSecretLength {
		return fmt.Errorf("REVALIDATION_SECRET must be at least %d characters", minSecretLength)
	}
	if len(cfg.Supabase.JWTSecret) < minSecretLength {
		return fmt.Errorf("SUPABASE_JWT_SECRET must be at least %d characters", minSecretLength)
	}

	return nil
}
