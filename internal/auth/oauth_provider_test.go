package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-authgate/secrets/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProviderServer serves a token endpoint and a userinfo endpoint.
type fakeProviderServer struct {
	*httptest.Server
	profile map[string]any

	mu       sync.Mutex
	idToken  string
	lastCode string
}

func (f *fakeProviderServer) setIDToken(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idToken = raw
}

func (f *fakeProviderServer) code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCode
}

func newFakeProviderServer(t *testing.T, profile map[string]any) *fakeProviderServer {
	t.Helper()
	f := &fakeProviderServer{profile: profile}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.lastCode = r.PostForm.Get("code")
		idToken := f.idToken
		f.mu.Unlock()
		if r.PostForm.Get("code") == "bad-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		resp := map[string]any{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		}
		if idToken != "" {
			resp["id_token"] = idToken
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.profile)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeProviderServer) options() []ProviderOption {
	return []ProviderOption{
		WithHTTPClient(f.Client()),
		WithEndpoints(oauth2.Endpoint{
			AuthURL:  f.URL + "/authorize",
			TokenURL: f.URL + "/token",
		}, f.URL+"/userinfo"),
	}
}

func testProviderConfig() OAuthProviderConfig {
	return OAuthProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/auth/google/secrets",
		Scopes:       []string{"openid", "profile"},
	}
}

func TestGoogleProvider_ExchangeAndProfile(t *testing.T) {
	srv := newFakeProviderServer(t, map[string]any{"sub": "g-123", "name": "Grace Hopper"})
	p := NewGoogleProvider(testProviderConfig(), srv.options()...)
	ctx := context.Background()

	token, err := p.ExchangeCode(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "good-code", srv.code())
	assert.Equal(t, "access-123", token.AccessToken)

	profile, err := p.GetUserInfo(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, profile.Provider)
	assert.Equal(t, "g-123", profile.ProviderUserID)
	assert.Equal(t, "Grace Hopper", profile.DisplayName)
}

func TestFacebookProvider_Profile(t *testing.T) {
	srv := newFakeProviderServer(t, map[string]any{"id": "fb-9", "name": "Ada"})
	p := NewFacebookProvider(testProviderConfig(), srv.options()...)
	ctx := context.Background()

	token, err := p.ExchangeCode(ctx, "good-code")
	require.NoError(t, err)

	profile, err := p.GetUserInfo(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderFacebook, profile.Provider)
	assert.Equal(t, "fb-9", profile.ProviderUserID)
	assert.Equal(t, "Ada", profile.DisplayName)
}

func TestProvider_ExchangeFailure(t *testing.T) {
	srv := newFakeProviderServer(t, nil)
	p := NewGoogleProvider(testProviderConfig(), srv.options()...)

	_, err := p.ExchangeCode(context.Background(), "bad-code")
	require.Error(t, err)
}

func TestProvider_ProfileWithoutID(t *testing.T) {
	srv := newFakeProviderServer(t, map[string]any{"name": "Nobody"})
	p := NewFacebookProvider(testProviderConfig(), srv.options()...)

	_, err := p.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "access-123"})
	assert.ErrorIs(t, err, ErrProfileIncomplete)
}

func TestProvider_ProfileHTTPError(t *testing.T) {
	srv := newFakeProviderServer(t, map[string]any{"sub": "g-1"})
	p := NewGoogleProvider(testProviderConfig(), srv.options()...)

	_, err := p.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "expired"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Google API error")
}

func TestProvider_AuthURL(t *testing.T) {
	p := NewGoogleProvider(testProviderConfig())

	authURL, err := url.Parse(p.GetAuthURL("state-xyz"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", authURL.Host)

	q := authURL.Query()
	assert.Equal(t, "state-xyz", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "openid profile", q.Get("scope"))
	assert.Equal(t, "http://localhost:3000/auth/google/secrets", q.Get("redirect_uri"))
}

func TestProvider_Names(t *testing.T) {
	g := NewGoogleProvider(testProviderConfig())
	f := NewFacebookProvider(testProviderConfig())

	assert.Equal(t, "google", g.Name())
	assert.Equal(t, "Google", g.DisplayName())
	assert.Equal(t, "facebook", f.Name())
	assert.Equal(t, "Facebook", f.DisplayName())
}

func TestProvider_RequiresIDTokenWhenVerifying(t *testing.T) {
	signer := newTestSigner(t)
	srv := newFakeProviderServer(t, map[string]any{"sub": "g-42", "name": "Linus"})
	verifier := NewStaticIDTokenVerifier(testIssuer, "client-id", signer.keySet())
	opts := append(srv.options(), WithIDTokenVerifier(verifier))
	p := NewGoogleProvider(testProviderConfig(), opts...)
	ctx := context.Background()

	t.Run("missing id_token", func(t *testing.T) {
		srv.setIDToken("")
		token, err := p.ExchangeCode(ctx, "good-code")
		require.NoError(t, err)
		_, err = p.GetUserInfo(ctx, token)
		assert.ErrorIs(t, err, ErrMissingIDToken)
	})

	t.Run("matching subject", func(t *testing.T) {
		srv.setIDToken(signer.sign(t, "g-42", "client-id", time.Hour))
		token, err := p.ExchangeCode(ctx, "good-code")
		require.NoError(t, err)
		profile, err := p.GetUserInfo(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "g-42", profile.ProviderUserID)
	})

	t.Run("mismatched subject", func(t *testing.T) {
		srv.setIDToken(signer.sign(t, "someone-else", "client-id", time.Hour))
		token, err := p.ExchangeCode(ctx, "good-code")
		require.NoError(t, err)
		_, err = p.GetUserInfo(ctx, token)
		assert.ErrorIs(t, err, ErrIDTokenMismatch)
	})
}
