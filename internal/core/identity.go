package core

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthProfile is the minimal identity a federated provider returns.
type OAuthProfile struct {
	Provider       string
	ProviderUserID string
	DisplayName    string
}

// IdentityProvider is implemented by each federated login strategy.
type IdentityProvider interface {
	// Name returns the route name of the provider, e.g. "google".
	Name() string
	// DisplayName returns the label shown on the login page.
	DisplayName() string
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthProfile, error)
}
