package session

import (
	"context"
	"errors"
	"time"

	"github.com/go-authgate/secrets/internal/cache"
	"github.com/go-authgate/secrets/internal/core"
)

type cacheBackend struct {
	cache core.Cache[[]byte]
}

// NewMemoryStore returns a store keeping values in c, typically a
// cache.MemoryCache. Entries expire after MaxAge and are swept by the cache.
func NewMemoryStore(c core.Cache[[]byte], keyPairs ...[]byte) *Store {
	return newStore(&cacheBackend{cache: c}, keyPairs...)
}

func (b *cacheBackend) load(ctx context.Context, id string) ([]byte, error) {
	data, err := b.cache.Get(ctx, id)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, errNotFound
	}
	return data, err
}

func (b *cacheBackend) save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return b.cache.Set(ctx, id, data, ttl)
}

func (b *cacheBackend) delete(ctx context.Context, id string) error {
	return b.cache.Delete(ctx, id)
}
