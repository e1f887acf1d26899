package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// GoogleIssuer is the OpenID issuer for Google accounts
const GoogleIssuer = "https://accounts.google.com"

// IDTokenVerifier checks OpenID Connect ID tokens issued alongside the
// access token.
type IDTokenVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewIDTokenVerifier discovers issuer's keys and verifies tokens for clientID
func NewIDTokenVerifier(ctx context.Context, issuer, clientID string) (*IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &IDTokenVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// NewStaticIDTokenVerifier verifies against a fixed key set without discovery
func NewStaticIDTokenVerifier(issuer, clientID string, keySet oidc.KeySet) *IDTokenVerifier {
	return &IDTokenVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID}),
	}
}

// Verify checks signature, issuer, audience and expiry, returning the subject
func (v *IDTokenVerifier) Verify(ctx context.Context, rawIDToken string) (string, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("failed to verify ID token: %w", err)
	}
	return idToken.Subject, nil
}
