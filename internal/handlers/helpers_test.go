package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-authgate/secrets/internal/auth"
	"github.com/go-authgate/secrets/internal/cache"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/middleware"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/session"
	"github.com/go-authgate/secrets/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testCookieName = "secrets_session"

type testEnv struct {
	db       *store.Store
	users    *services.UserService
	secrets  *services.SecretService
	gate     *services.GateService
	handlers struct {
		auth    *AuthHandler
		oauth   *OAuthHandler
		secrets *SecretsHandler
		gate    *GateHandler
	}
}

func newTestEnv(t *testing.T, providers map[string]core.IdentityProvider) *testEnv {
	t.Helper()

	db, err := store.New(context.Background(), "sqlite", ":memory:", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{db: db}
	env.users = services.NewUserService(
		db,
		auth.NewLocalAuthProvider(db),
		nil,
		cache.NewMemoryCache[models.User](),
		time.Minute,
	)
	env.secrets = services.NewSecretService(db, nil)
	env.gate = services.NewGateService("open-sesame", "the cake is a lie", nil)

	env.handlers.auth = NewAuthHandler(env.users, providers, false, nil)
	env.handlers.oauth = NewOAuthHandler(providers, env.users, nil)
	env.handlers.secrets = NewSecretsHandler(env.secrets)
	env.handlers.gate = NewGateHandler(env.gate)
	return env
}

// router mounts the handlers behind the same middleware chain production uses.
func (env *testEnv) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	sessionStore := session.NewMemoryStore(cache.NewMemoryCache[[]byte](), []byte("test-secret"))
	sessionStore.Options(session.CookieOptions(3600, false))
	r.Use(sessions.Sessions(testCookieName, sessionStore))
	r.Use(middleware.LoadIdentity(env.users))

	r.GET("/", env.handlers.secrets.Home)
	r.GET("/register", env.handlers.auth.RegisterPage)
	r.POST("/register", env.handlers.auth.Register)
	r.GET("/login", env.handlers.auth.LoginPage)
	r.POST("/login", env.handlers.auth.Login)
	r.GET("/auth/:provider", env.handlers.oauth.LoginWithProvider)
	r.GET("/auth/:provider/secrets", env.handlers.oauth.OAuthCallback)

	protected := r.Group("", middleware.RequireAuth())
	protected.GET("/secrets", env.handlers.secrets.ListSecrets)
	protected.GET("/submit", env.handlers.secrets.SubmitPage)
	protected.POST("/submit", env.handlers.secrets.Submit)
	protected.GET("/password", env.handlers.gate.PasswordPage)
	protected.POST("/password", env.handlers.gate.Reveal)
	protected.GET("/logout", env.handlers.auth.Logout)
	return r
}

// browser replays cookies between requests like a user agent would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(context.Background(), method, path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func credentials(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func newDisabledGate() *services.GateService {
	return services.NewGateService("", "hidden", nil)
}
