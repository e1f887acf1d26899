package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-authgate/secrets/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// initializeSessionRedisClient initializes the go-redis client backing
// server-side sessions. Returns nil unless SESSION_STORE=redis.
func initializeSessionRedisClient(
	ctx context.Context,
	cfg *config.Config,
) (*redis.Client, error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		return nil, nil //nolint:nilnil // redis client not needed in this configuration
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Info().
		Str("addr", cfg.RedisAddr).
		Int("db", cfg.RedisDB).
		Msg("session Redis client initialized")
	return client, nil
}
