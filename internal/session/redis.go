package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "secrets:session:"

type redisBackend struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore returns a store keeping values in Redis with TTL = MaxAge.
// keyPairs are passed to securecookie for signing (and optionally
// encrypting) the session id.
func NewRedisStore(client redis.UniversalClient, keyPairs ...[]byte) *Store {
	return newStore(&redisBackend{client: client, keyPrefix: defaultKeyPrefix}, keyPairs...)
}

func (b *redisBackend) key(id string) string {
	return b.keyPrefix + id
}

func (b *redisBackend) load(ctx context.Context, id string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errNotFound
	}
	return data, err
}

func (b *redisBackend) save(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return b.client.Set(ctx, b.key(id), data, ttl).Err()
}

func (b *redisBackend) delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, b.key(id)).Err()
}
