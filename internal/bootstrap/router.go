package bootstrap

import (
	"net/http"

	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/handlers"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/middleware"
	"github.com/go-authgate/secrets/internal/services"
	"github.com/go-authgate/secrets/internal/store"
	"github.com/go-authgate/secrets/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	userService *services.UserService,
	h handlerSet,
	prometheusMetrics core.Recorder,
	sessionStore sessions.Store,
) *gin.Engine {
	// Setup Gin mode
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(middleware.IPMiddleware())
	r.Use(middleware.RequestLogger(log.Logger), gin.Recovery())

	// Session handling and identity restoration
	r.Use(sessions.Sessions(cfg.SessionName, sessionStore))
	r.Use(middleware.LoadIdentity(userService))

	// Serve embedded static files
	r.StaticFS("/static", http.FS(templates.StaticFS()))

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck(db))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup all routes
	setupAllRoutes(r, h)

	// Log server startup info
	logServerStartup(cfg)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Info().Msg("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Info().Msg("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Info().Msg("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet) {
	// Public routes
	r.GET("/", h.secrets.Home)
	r.GET("/register", h.auth.RegisterPage)
	r.POST("/register", h.auth.Register)
	r.GET("/login", h.auth.LoginPage)
	r.POST("/login", h.auth.Login)

	// OAuth routes (public). Unknown providers are rejected by the handler.
	oauthGroup := r.Group("/auth")
	{
		oauthGroup.GET("/:provider", h.oauth.LoginWithProvider)
		oauthGroup.GET("/:provider/secrets", h.oauth.OAuthCallback)
	}

	// Protected routes (require login)
	protected := r.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/secrets", h.secrets.ListSecrets)
		protected.GET("/submit", h.secrets.SubmitPage)
		protected.POST("/submit", h.secrets.Submit)
		protected.GET("/password", h.gate.PasswordPage)
		protected.POST("/password", h.gate.Reveal)
		protected.GET("/logout", h.auth.Logout)
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Info().Str("mode", ginModeLogMessage[cfg.IsProduction]).Msg("Gin mode configured")
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Info().
		Str("addr", cfg.ServerAddr).
		Str("base_url", cfg.BaseURL).
		Str("session_store", cfg.SessionStore).
		Str("database", cfg.DatabaseDriver).
		Msg("Secrets server starting")
}
