package bootstrap

import (
	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/handlers"
	"github.com/go-authgate/secrets/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth    *handlers.AuthHandler
	oauth   *handlers.OAuthHandler
	secrets *handlers.SecretsHandler
	gate    *handlers.GateHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	cfg *config.Config,
	userService *services.UserService,
	secretService *services.SecretService,
	gateService *services.GateService,
	oauthProviders map[string]core.IdentityProvider,
	prometheusMetrics core.Recorder,
) handlerSet {
	return handlerSet{
		auth: handlers.NewAuthHandler(
			userService,
			oauthProviders,
			cfg.IsProduction,
			prometheusMetrics,
		),
		oauth:   handlers.NewOAuthHandler(oauthProviders, userService, prometheusMetrics),
		secrets: handlers.NewSecretsHandler(secretService),
		gate:    handlers.NewGateHandler(gateService),
	}
}
