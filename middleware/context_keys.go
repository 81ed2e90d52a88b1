package middleware

// Context keys set by the auth middleware and read by handlers.
const (
	// UserIDKey holds the authenticated user's profile ID (string).
	UserIDKey = "user_id"
	// UserEmailKey holds the authenticated user's email (string).
	UserEmailKey = "user_email"
	// UserNameKey holds the authenticated user's display name (string).
	UserNameKey = "user_name"
)
