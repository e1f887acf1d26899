package bootstrap

import (
	"fmt"

	"github.com/go-authgate/secrets/internal/config"

	"github.com/rs/zerolog/log"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	warnIncompleteOAuth(cfg)
	return nil
}

// warnIncompleteOAuth flags providers that are enabled without credentials.
// Such providers are skipped rather than failing startup.
func warnIncompleteOAuth(cfg *config.Config) {
	if cfg.GoogleOAuthEnabled && (cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "") {
		log.Warn().Msg("Google OAuth enabled but GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET missing")
	}
	if cfg.FacebookOAuthEnabled && (cfg.FacebookAppID == "" || cfg.FacebookAppSecret == "") {
		log.Warn().Msg("Facebook OAuth enabled but FACEBOOK_APP_ID or FACEBOOK_APP_SECRET missing")
	}
	if cfg.SuperSecretPassword == "" {
		log.Warn().Msg("SUPER_SECRET_PASSWORD is empty, the /password gate will reject every attempt")
	}
}
