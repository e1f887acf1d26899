package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	r := env.router()

	alice := newBrowser(t, r)
	w := alice.post("/register", credentials("alice", "wonderland"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/secrets", w.Header().Get("Location"))

	// Registration signs the user in
	w = alice.get("/secrets")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")

	fresh := newBrowser(t, r)
	w = fresh.post("/login", credentials("alice", "wonderland"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/secrets", w.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, fresh.get("/secrets").Code)
}

func TestLogin_WrongPasswordEstablishesNoSession(t *testing.T) {
	env := newTestEnv(t, nil)
	r := env.router()
	_ = newBrowser(t, r).post("/register", credentials("bob", "builder"))

	for _, password := range []string{"wrong", ""} {
		b := newBrowser(t, r)
		w := b.post("/login", credentials("bob", password))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/register", w.Header().Get("Location"))

		w = b.get("/secrets")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	}

	// Unknown users take the same path
	b := newBrowser(t, r)
	w := b.post("/login", credentials("nobody", "builder"))
	assert.Equal(t, "/register", w.Header().Get("Location"))

	// The failure is explained on the next page
	w = b.get("/register")
	assert.Contains(t, w.Body.String(), "Invalid username or password.")
}

func TestLogin_IssuesNewSessionID(t *testing.T) {
	env := newTestEnv(t, nil)
	r := env.router()
	_ = newBrowser(t, r).post("/register", credentials("bob", "builder"))

	// A cookie planted before login, here from a failed attempt
	b := newBrowser(t, r)
	_ = b.post("/login", credentials("bob", "wrong"))
	planted := b.cookies[testCookieName]
	require.NotNil(t, planted)

	_ = b.post("/login", credentials("bob", "builder"))
	require.Equal(t, http.StatusOK, b.get("/secrets").Code)
	assert.NotEqual(t, planted.Value, b.cookies[testCookieName].Value)

	attacker := newBrowser(t, r)
	attacker.cookies[testCookieName] = planted
	w := attacker.get("/secrets")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRegister_Failures(t *testing.T) {
	env := newTestEnv(t, nil)
	r := env.router()
	_ = newBrowser(t, r).post("/register", credentials("carol", "pw"))

	tests := []struct {
		name     string
		username string
		password string
		flash    string
	}{
		{"duplicate", "carol", "other", "already taken"},
		{"duplicate after trim", " carol ", "other", "already taken"},
		{"empty username", "", "pw", "Please enter a username"},
		{"empty password", "dave", "", "Please enter a username"},
		{"password over 72 bytes", "dave", strings.Repeat("p", 73), "at most 72 bytes"},
		{"username too long", strings.Repeat("d", 65), "pw", "at most 64 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, r)
			w := b.post("/register", credentials(tt.username, tt.password))
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/register", w.Header().Get("Location"))

			assert.Contains(t, b.get("/register").Body.String(), tt.flash)
			assert.Equal(t, "/login", b.get("/secrets").Header().Get("Location"))
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	b := newBrowser(t, env.router())
	_ = b.post("/register", credentials("erin", "pw"))
	require.Equal(t, http.StatusOK, b.get("/secrets").Code)

	w := b.get("/logout")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = b.get("/secrets")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLogout_ReplayedCookieIsDead(t *testing.T) {
	env := newTestEnv(t, nil)
	b := newBrowser(t, env.router())
	_ = b.post("/register", credentials("frank", "pw"))

	stolen := map[string]*http.Cookie{}
	for k, v := range b.cookies {
		stolen[k] = v
	}
	_ = b.get("/logout")

	b.cookies = stolen
	assert.Equal(t, "/login", b.get("/secrets").Header().Get("Location"))
}

func TestLoginPage_ListsProviders(t *testing.T) {
	ctrl := gomock.NewController(t)
	google := mocks.NewMockIdentityProvider(ctrl)
	google.EXPECT().DisplayName().Return("Google").AnyTimes()

	env := newTestEnv(t, map[string]core.IdentityProvider{"google": google})
	w := newBrowser(t, env.router()).get("/login")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/auth/google"`)
	assert.NotContains(t, w.Body.String(), "/auth/facebook")
}
