package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-authgate/secrets/internal/auth"
	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/models"

	"github.com/appleboy/go-httpclient"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
)

// initializeOAuthProviders initializes configured OAuth providers. Providers
// with missing credentials are skipped.
func initializeOAuthProviders(
	ctx context.Context,
	cfg *config.Config,
	httpClient *http.Client,
) (map[string]core.IdentityProvider, error) {
	providers := make(map[string]core.IdentityProvider)

	// Google OAuth
	switch {
	case !cfg.GoogleOAuthEnabled:
		// Skip Google OAuth
	case cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "":
		// Reported by validateAllConfiguration
	default:
		opts := []auth.ProviderOption{auth.WithHTTPClient(httpClient)}
		if cfg.GoogleVerifyIDToken {
			verifier, err := auth.NewIDTokenVerifier(
				oidc.ClientContext(ctx, httpClient),
				auth.GoogleIssuer,
				cfg.GoogleClientID,
			)
			if err != nil {
				return nil, fmt.Errorf("google id token verifier: %w", err)
			}
			opts = append(opts, auth.WithIDTokenVerifier(verifier))
		}
		providers[models.ProviderGoogle] = auth.NewGoogleProvider(auth.OAuthProviderConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       cfg.GoogleScopes,
		}, opts...)
		log.Info().
			Str("redirect", cfg.GoogleRedirectURL).
			Bool("verify_id_token", cfg.GoogleVerifyIDToken).
			Msg("Google OAuth configured")
	}

	// Facebook OAuth
	switch {
	case !cfg.FacebookOAuthEnabled:
		// Skip Facebook OAuth
	case cfg.FacebookAppID == "" || cfg.FacebookAppSecret == "":
		// Reported by validateAllConfiguration
	default:
		providers[models.ProviderFacebook] = auth.NewFacebookProvider(auth.OAuthProviderConfig{
			ClientID:     cfg.FacebookAppID,
			ClientSecret: cfg.FacebookAppSecret,
			RedirectURL:  cfg.FacebookRedirectURL,
			Scopes:       cfg.FacebookScopes,
		}, auth.WithHTTPClient(httpClient))
		log.Info().Str("redirect", cfg.FacebookRedirectURL).Msg("Facebook OAuth configured")
	}

	return providers, nil
}

// getProviderNames returns the sorted provider names
func getProviderNames(providers map[string]core.IdentityProvider) []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// createOAuthHTTPClient creates the HTTP client used for token exchange,
// profile lookups and OIDC discovery
func createOAuthHTTPClient(cfg *config.Config) (*http.Client, error) {
	if cfg.OAuthInsecureSkipVerify {
		log.Warn().Msg("OAuth TLS verification is disabled (OAUTH_INSECURE_SKIP_VERIFY=true)")
	}

	client, err := httpclient.NewAuthClient(httpclient.AuthModeNone, "",
		httpclient.WithTimeout(cfg.OAuthTimeout),
		httpclient.WithInsecureSkipVerify(cfg.OAuthInsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth HTTP client: %w", err)
	}
	return client, nil
}

// logOAuthProvidersStatus logs enabled OAuth providers
func logOAuthProvidersStatus(providers map[string]core.IdentityProvider) {
	if len(providers) > 0 {
		log.Info().Strs("providers", getProviderNames(providers)).Msg("OAuth providers enabled")
	}
}
