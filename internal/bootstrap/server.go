package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("failed to start server")
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server, timeout time.Duration) {
	m.AddShutdownJob(func() error {
		log.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
			return err
		}

		log.Info().Msg("server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Info().Msg("closing Redis connection")
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing Redis client")
			return err
		}
		log.Info().Msg("Redis connection closed")
		return nil
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	prometheusMetrics core.Recorder,
) {
	if !cfg.MetricsEnabled || cfg.MetricsGaugeUpdateInterval <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		runGaugeUpdates(ctx, db, prometheusMetrics, cfg.MetricsGaugeUpdateInterval)
		return nil
	})
}

// runGaugeUpdates refreshes gauges immediately and then on every tick until
// ctx is cancelled.
func runGaugeUpdates(
	ctx context.Context,
	s core.CountStore,
	m core.Recorder,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Update immediately on startup
	metrics.UpdateGauges(ctx, s, m)

	for {
		select {
		case <-ticker.C:
			metrics.UpdateGauges(ctx, s, m)
		case <-ctx.Done():
			return
		}
	}
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, userCacheCloser func() error) {
	if userCacheCloser == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := userCacheCloser(); err != nil {
			log.Error().Err(err).Msg("error closing user cache")
		} else {
			log.Info().Msg("user cache closed")
		}
		return nil
	})
}

// addDatabaseShutdownJob closes the database connection pool on shutdown
func addDatabaseShutdownJob(m *graceful.Manager, db *store.Store) {
	m.AddShutdownJob(func() error {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
			return err
		}
		log.Info().Msg("database closed")
		return nil
	})
}
