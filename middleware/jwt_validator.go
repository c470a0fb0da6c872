package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/business-partner/leads-backend/config"
)

var (
	// ErrTokenExpired is returned when JWT validation fails due to expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for general token validation failures (signature, format).
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenMissingClaim is returned if a required claim (like 'sub') is missing.
	ErrTokenMissingClaim = errors.New("token missing required claim")
)

// Validator defines the interface for validating session tokens.
type Validator interface {
	// Validate returns the subject and e-mail claims of a valid token.
	Validate(tokenString string) (userID string, email string, err error)
}

// JWTValidator validates the HS256 session tokens issued by the auth
// provider against the project's shared secret.
type JWTValidator struct {
	secret []byte
	skew   time.Duration
}

var _ Validator = (*JWTValidator)(nil)

// NewJWTValidator creates a validator from application configuration.
func NewJWTValidator(cfg *config.Config) (*JWTValidator, error) {
	if cfg.Supabase.JWTSecret == "" {
		return nil, fmt.Errorf("jwt validator: SUPABASE_JWT_SECRET is not set")
	}
	return &JWTValidator{
		secret: []byte(cfg.Supabase.JWTSecret),
		skew:   30 * time.Second,
	}, nil
}

// Validate parses and validates the token, returning the subject and e-mail
// claims. Expired tokens map to ErrTokenExpired so the guard can distinguish
// a stale session from a forged one.
func (v *JWTValidator) Validate(tokenString string) (string, string, error) {
	token, err := jwt.Parse([]byte(tokenString),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.skew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return "", "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return "", "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	sub := token.Subject()
	if sub == "" {
		return "", "", ErrTokenMissingClaim
	}

	email, _ := token.PrivateClaims()["email"].(string)
	return sub, email, nil
}
