package middleware

// Keys under which request-scoped values are stored in the gin context.
const (
	// UserIDKey holds the authenticated user's subject claim.
	UserIDKey = "user_id"
	// UserEmailKey holds the authenticated user's e-mail when known.
	UserEmailKey = "user_email"
)
