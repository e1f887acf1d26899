package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB               *store.Store
	MetricsRecorder  core.Recorder
	UserCache        core.Cache[models.User]
	UserCacheCloser  func() error
	SessionRedis     *redis.Client
	SessionStore     sessions.Store
	IdentityProvider map[string]core.IdentityProvider

	// Services
	UserService   *services.UserService
	SecretService *services.SecretService
	GateService   *services.GateService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(ctx); err != nil {
		app.closeInfrastructure()
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown(ctx)

	return nil
}

// initializeInfrastructure sets up database, metrics, cache and the session store
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)

	// User cache
	app.UserCache, app.UserCacheCloser, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for server-side sessions)
	app.SessionRedis, err = initializeSessionRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}
	app.SessionStore = initializeSessionStore(app.Config, app.SessionRedis)

	return nil
}

// closeInfrastructure releases whatever initializeInfrastructure managed to open
func (app *Application) closeInfrastructure() {
	if app.SessionRedis != nil {
		_ = app.SessionRedis.Close()
	}
	if app.UserCacheCloser != nil {
		_ = app.UserCacheCloser()
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	app.UserService, app.SecretService, app.GateService = initializeServices(
		app.Config,
		app.DB,
		app.UserCache,
		app.MetricsRecorder,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer(ctx context.Context) error {
	// OAuth setup
	oauthHTTPClient, err := createOAuthHTTPClient(app.Config)
	if err != nil {
		return err
	}
	app.IdentityProvider, err = initializeOAuthProviders(ctx, app.Config, oauthHTTPClient)
	if err != nil {
		return err
	}
	logOAuthProvidersStatus(app.IdentityProvider)

	// Handlers
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.UserService,
		app.SecretService,
		app.GateService,
		app.IdentityProvider,
		app.MetricsRecorder,
	)

	// Router
	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.UserService,
		app.HandlerSet,
		app.MetricsRecorder,
		app.SessionStore,
	)

	// HTTP Server
	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown.
// Cancelling ctx triggers the same shutdown path as a signal.
func (app *Application) startWithGracefulShutdown(ctx context.Context) {
	m := graceful.NewManager(graceful.WithContext(ctx))

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server, app.Config.ServerShutdownTimeout)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder)
	addRedisClientShutdownJob(m, app.SessionRedis)
	addCacheCleanupJob(m, app.UserCacheCloser)
	addDatabaseShutdownJob(m, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}
