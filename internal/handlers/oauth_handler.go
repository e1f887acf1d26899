package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const oauthFailureMessage = "Sign-in with that provider failed. Please try again."

// OAuthHandler handles OAuth authentication
type OAuthHandler struct {
	providers   map[string]core.IdentityProvider
	userService *services.UserService
	metrics     core.Recorder
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(
	providers map[string]core.IdentityProvider,
	userService *services.UserService,
	m core.Recorder,
) *OAuthHandler {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &OAuthHandler{
		providers:   providers,
		userService: userService,
		metrics:     m,
	}
}

// LoginWithProvider redirects user to OAuth provider
func (h *OAuthHandler) LoginWithProvider(c *gin.Context) {
	name := c.Param("provider")
	log := logutil.GetOrDefault(c.Request.Context())

	provider, exists := h.providers[name]
	if !exists {
		log.Warn().Str("provider", name).Msg("oauth provider not configured")
		redirectWithFlash(c, pathLogin, oauthFailureMessage)
		return
	}

	state, err := generateRandomState(32)
	if err != nil {
		log.Error().Err(err).Msg("generate oauth state")
		redirectWithFlash(c, pathLogin, oauthFailureMessage)
		return
	}

	s := sessions.Default(c)
	s.Set(session.KeyOAuthState, state)
	s.Set(session.KeyProvider, name)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Msg("save oauth state")
		redirectWithFlash(c, pathLogin, oauthFailureMessage)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, provider.GetAuthURL(state))
}

// OAuthCallback completes the authorization code flow. Every failure lands on
// the login page.
func (h *OAuthHandler) OAuthCallback(c *gin.Context) {
	name := c.Param("provider")
	ctx := c.Request.Context()
	log := logutil.GetOrDefault(ctx).With().Str("provider", name).Logger()

	fail := func(reason string, err error) {
		h.metrics.RecordOAuthCallback(name, false)
		log.Warn().Err(err).Msg(reason)
		redirectWithFlash(c, pathLogin, oauthFailureMessage)
	}

	provider, exists := h.providers[name]
	if !exists {
		fail("oauth provider not configured", nil)
		return
	}

	// The state is single use whatever the outcome
	s := sessions.Default(c)
	savedState, _ := s.Get(session.KeyOAuthState).(string)
	savedProvider, _ := s.Get(session.KeyProvider).(string)
	s.Delete(session.KeyOAuthState)
	s.Delete(session.KeyProvider)

	if denied := c.Query("error"); denied != "" {
		fail("oauth consent denied: "+denied, nil)
		return
	}

	state := c.Query("state")
	if savedState == "" || savedProvider != name ||
		subtle.ConstantTimeCompare([]byte(state), []byte(savedState)) != 1 {
		fail("oauth state mismatch", nil)
		return
	}

	code := c.Query("code")
	if code == "" {
		fail("oauth callback without code", nil)
		return
	}

	token, err := provider.ExchangeCode(ctx, code)
	if err != nil {
		fail("exchange oauth code", err)
		return
	}

	profile, err := provider.GetUserInfo(ctx, token)
	if err != nil {
		fail("fetch oauth profile", err)
		return
	}

	user, err := h.userService.AuthenticateWithOAuth(ctx, profile)
	if err != nil {
		fail("resolve oauth user", err)
		return
	}

	if err := establishSession(c, user); err != nil {
		fail("save session after oauth", err)
		return
	}

	h.metrics.RecordOAuthCallback(name, true)
	log.Info().Str("user_id", user.ID).Msg("oauth login")
	c.Redirect(http.StatusFound, pathSecrets)
}

// generateRandomState generates a random state string for OAuth CSRF protection
func generateRandomState(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
