package bootstrap

import (
	"github.com/go-authgate/secrets/internal/cache"
	"github.com/go-authgate/secrets/internal/config"
	"github.com/go-authgate/secrets/internal/session"

	"github.com/gin-contrib/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// initializeSessionStore picks the session backend. redisClient is only
// used for SESSION_STORE=redis. Both backends keep values server-side and
// expire entries after SESSION_MAX_AGE.
func initializeSessionStore(cfg *config.Config, redisClient *redis.Client) sessions.Store {
	secret := []byte(cfg.SessionSecret)

	var store *session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		store = session.NewRedisStore(redisClient, secret)
	default: // memory
		store = session.NewMemoryStore(cache.NewMemoryCache[[]byte](), secret)
	}

	store.Options(session.CookieOptions(cfg.SessionMaxAgeSeconds(), cfg.IsProduction))
	log.Info().
		Str("store", cfg.SessionStore).
		Dur("max_age", cfg.SessionMaxAge).
		Msg("session store initialized")
	return store
}
