package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/secrets/internal/cache"
	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/models"

	"github.com/rs/zerolog/log"
)

const userCacheKeyPrefix = "secrets:users:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Info().Msg("Prometheus metrics initialized")
	} else {
		log.Info().Msg("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeUserCache initializes the user cache (always enabled, defaults to memory)
func initializeUserCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[models.User], func() error, error) {
	switch cfg.UserCacheType {
	case config.UserCacheTypeRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
		defer cancel()

		c, err := cache.NewRueidisCache[models.User](ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, userCacheKeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis user cache: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Msg("user cache: redis")
		return c, c.Close, nil

	default: // memory
		c := cache.NewMemoryCache[models.User]()
		log.Info().Msg("user cache: memory (single instance only)")
		return c, c.Close, nil
	}
}
