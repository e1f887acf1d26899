package session

import (
	"net/http"

	"github.com/gin-contrib/sessions"
)

// Session value keys
const (
	KeyUserID     = "user_id"
	KeyOAuthState = "oauth_state"
	KeyProvider   = "oauth_provider"
)

// CookieOptions returns the options every session store is configured with.
func CookieOptions(maxAgeSeconds int, secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
