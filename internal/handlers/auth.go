package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/session"
	"github.com/go-authgate/secrets/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	pathHome     = "/"
	pathRegister = "/register"
	pathLogin    = "/login"
	pathSecrets  = "/secrets"
)

type AuthHandler struct {
	userService  *services.UserService
	providers    []templates.OAuthProvider
	secureCookie bool
	metrics      core.Recorder
}

// NewAuthHandler builds the local account handler. providers only feed the
// sign-in buttons on the login page.
func NewAuthHandler(
	us *services.UserService,
	providers map[string]core.IdentityProvider,
	secureCookie bool,
	m core.Recorder,
) *AuthHandler {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}

	buttons := make([]templates.OAuthProvider, 0, len(providers))
	for name, p := range providers {
		buttons = append(buttons, templates.OAuthProvider{
			Name:        name,
			DisplayName: p.DisplayName(),
		})
	}
	sort.Slice(buttons, func(i, j int) bool { return buttons[i].Name < buttons[j].Name })

	return &AuthHandler{
		userService:  us,
		providers:    buttons,
		secureCookie: secureCookie,
		metrics:      m,
	}
}

// RegisterPage renders the registration form
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.RegisterPage(templates.RegisterPageProps{
		BaseProps: baseProps(c),
	}))
}

// LoginPage renders the login form with the configured OAuth providers
func (h *AuthHandler) LoginPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.LoginPage(templates.LoginPageProps{
		BaseProps:      baseProps(c),
		OAuthProviders: h.providers,
	}))
}

// Register creates a local account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	user, err := h.userService.Register(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
	)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, services.ErrDuplicateUsername):
			msg = "That username is already taken."
		case errors.Is(err, services.ErrPasswordTooLong):
			msg = "Passwords can be at most 72 bytes long."
		case errors.Is(err, services.ErrUsernameTooLong):
			msg = fmt.Sprintf("Usernames can be at most %d characters long.", services.MaxUsernameLength)
		case errors.Is(err, services.ErrInvalidInput):
			msg = "Please enter a username and a password."
		default:
			log := logutil.GetOrDefault(c.Request.Context())
			log.Error().Err(err).Msg("register user")
			msg = "Registration is unavailable right now. Please try again later."
		}
		redirectWithFlash(c, pathRegister, msg)
		return
	}

	if err := establishSession(c, user); err != nil {
		log := logutil.GetOrDefault(c.Request.Context())
		log.Error().Err(err).Msg("save session after register")
		redirectWithFlash(c, pathLogin, "Your account was created. Please log in.")
		return
	}
	c.Redirect(http.StatusFound, pathSecrets)
}

// Login verifies local credentials. The session is only written after the
// credentials check out; any failure is sent to the registration page.
func (h *AuthHandler) Login(c *gin.Context) {
	user, err := h.userService.Authenticate(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
	)
	if err != nil {
		msg := "Invalid username or password."
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log := logutil.GetOrDefault(c.Request.Context())
			log.Error().Err(err).Msg("authenticate user")
			msg = "Login is unavailable right now. Please try again later."
		}
		redirectWithFlash(c, pathRegister, msg)
		return
	}

	if err := establishSession(c, user); err != nil {
		log := logutil.GetOrDefault(c.Request.Context())
		log.Error().Err(err).Msg("save session after login")
		redirectWithFlash(c, pathRegister, "Login is unavailable right now. Please try again later.")
		return
	}
	c.Redirect(http.StatusFound, pathSecrets)
}

// Logout deletes the session and expires its cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	s.Options(session.CookieOptions(-1, h.secureCookie))
	if err := s.Save(); err != nil {
		log := logutil.GetOrDefault(c.Request.Context())
		log.Error().Err(err).Msg("delete session")
	}
	h.metrics.RecordLogout()
	c.Redirect(http.StatusFound, pathHome)
}
