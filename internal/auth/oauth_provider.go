package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL   = "https://openidconnect.googleapis.com/v1/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name"
)

// OAuthProviderConfig contains configuration for an OAuth provider
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// ProviderOption customizes an OAuthProvider
type ProviderOption func(*OAuthProvider)

// WithHTTPClient routes token exchange and profile requests through client
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *OAuthProvider) {
		p.httpClient = client
	}
}

// WithIDTokenVerifier requires a verified id_token whose subject matches the
// profile id.
func WithIDTokenVerifier(v *IDTokenVerifier) ProviderOption {
	return func(p *OAuthProvider) {
		p.idTokens = v
	}
}

// WithEndpoints overrides the provider endpoints (used against test servers)
func WithEndpoints(endpoint oauth2.Endpoint, userInfoURL string) ProviderOption {
	return func(p *OAuthProvider) {
		p.config.Endpoint = endpoint
		p.userInfoURL = userInfoURL
	}
}

// Compile-time interface check.
var _ core.IdentityProvider = (*OAuthProvider)(nil)

// OAuthProvider handles OAuth authentication
type OAuthProvider struct {
	config      *oauth2.Config
	provider    string // "google" or "facebook"
	userInfoURL string
	httpClient  *http.Client
	idTokens    *IDTokenVerifier
}

func newProvider(
	provider string,
	cfg OAuthProviderConfig,
	endpoint oauth2.Endpoint,
	userInfoURL string,
	opts []ProviderOption,
) *OAuthProvider {
	p := &OAuthProvider{
		provider:    provider,
		userInfoURL: userInfoURL,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(cfg OAuthProviderConfig, opts ...ProviderOption) *OAuthProvider {
	return newProvider(models.ProviderGoogle, cfg, google.Endpoint, googleUserInfoURL, opts)
}

// NewFacebookProvider creates a new Facebook OAuth provider
func NewFacebookProvider(cfg OAuthProviderConfig, opts ...ProviderOption) *OAuthProvider {
	return newProvider(models.ProviderFacebook, cfg, facebook.Endpoint, facebookUserInfoURL, opts)
}

// GetAuthURL returns the OAuth authorization URL
func (p *OAuthProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// withClient attaches the configured HTTP client for the oauth2 package
func (p *OAuthProvider) withClient(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// ExchangeCode exchanges authorization code for access token
func (p *OAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.config.Exchange(p.withClient(ctx), code)
}

// GetUserInfo retrieves the profile of the token owner from the provider
func (p *OAuthProvider) GetUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*core.OAuthProfile, error) {
	ctx = p.withClient(ctx)

	var (
		profile *core.OAuthProfile
		err     error
	)
	switch p.provider {
	case models.ProviderGoogle:
		profile, err = p.getGoogleUserInfo(ctx, token)
	case models.ProviderFacebook:
		profile, err = p.getFacebookUserInfo(ctx, token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p.provider)
	}
	if err != nil {
		return nil, err
	}

	if p.idTokens != nil {
		if err := p.checkIDToken(ctx, token, profile.ProviderUserID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (p *OAuthProvider) checkIDToken(ctx context.Context, token *oauth2.Token, sub string) error {
	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return ErrMissingIDToken
	}
	subject, err := p.idTokens.Verify(ctx, raw)
	if err != nil {
		return err
	}
	if subject != sub {
		return ErrIDTokenMismatch
	}
	return nil
}

// Name returns the provider name
func (p *OAuthProvider) Name() string {
	return p.provider
}

// DisplayName returns the human-readable provider name
func (p *OAuthProvider) DisplayName() string {
	switch p.provider {
	case models.ProviderGoogle:
		return "Google"
	case models.ProviderFacebook:
		return "Facebook"
	default:
		return p.provider
	}
}

type googleUser struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
}

type facebookUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (p *OAuthProvider) getGoogleUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*core.OAuthProfile, error) {
	var user googleUser
	if err := p.fetchJSON(ctx, token, &user); err != nil {
		return nil, err
	}
	if user.Sub == "" {
		return nil, ErrProfileIncomplete
	}
	return &core.OAuthProfile{
		Provider:       p.provider,
		ProviderUserID: user.Sub,
		DisplayName:    user.Name,
	}, nil
}

func (p *OAuthProvider) getFacebookUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*core.OAuthProfile, error) {
	var user facebookUser
	if err := p.fetchJSON(ctx, token, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrProfileIncomplete
	}
	return &core.OAuthProfile{
		Provider:       p.provider,
		ProviderUserID: user.ID,
		DisplayName:    user.Name,
	}, nil
}

// fetchJSON GETs the userinfo endpoint with the access token and decodes it
func (p *OAuthProvider) fetchJSON(ctx context.Context, token *oauth2.Token, out any) error {
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s API error: %s - %s", p.DisplayName(), resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}
	return nil
}
