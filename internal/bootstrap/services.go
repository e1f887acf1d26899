package bootstrap

import (
	"github.com/go-authgate/secrets/internal/auth"
	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/store"
)

// initializeServices creates all business services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	userCache core.Cache[models.User],
	prometheusMetrics core.Recorder,
) (*services.UserService, *services.SecretService, *services.GateService) {
	userService := services.NewUserService(
		db,
		auth.NewLocalAuthProvider(db),
		prometheusMetrics,
		userCache,
		cfg.UserCacheTTL,
	)
	secretService := services.NewSecretService(db, prometheusMetrics)
	gateService := services.NewGateService(
		cfg.SuperSecretPassword,
		cfg.SuperSecretMessage,
		prometheusMetrics,
	)
	return userService, secretService, gateService
}
