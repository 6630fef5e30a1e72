package constants

const (
	// SessionCookieName is the name of the cookie carrying the session token.
	SessionCookieName = "task_session"

	// ContextKeyUserID is the key under which the resolved user ID is stored
	// in both the session payload and the request context.
	ContextKeyUserID = "user_id"

	// SessionMaxAge is the session lifetime in seconds (24 hours).
	SessionMaxAge = 24 * 60 * 60
)
