package cache

import (
	"context"
	"sync"
	"time"

	"github.com/go-authgate/secrets/internal/core"
)

// sweepThreshold is the number of writes between expired-entry sweeps.
const sweepThreshold = 256

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

type fetchCall[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Compile-time interface check.
var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// MemoryCache implements core.Cache with in-memory storage.
// Expired entries are hidden on read and swept periodically on write.
// Suitable for single-instance deployments.
type MemoryCache[T any] struct {
	mu       sync.RWMutex
	items    map[string]cacheItem[T]
	writes   int
	inflight map[string]*fetchCall[T]
}

// NewMemoryCache creates a new memory cache instance.
func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{
		items:    make(map[string]cacheItem[T]),
		inflight: make(map[string]*fetchCall[T]),
	}
}

// Get retrieves a value from cache.
func (m *MemoryCache[T]) Get(ctx context.Context, key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, exists := m.items[key]
	if !exists || time.Now().After(item.expiresAt) {
		var zero T
		return zero, ErrCacheMiss
	}

	return item.value, nil
}

// Set stores a value in cache with TTL.
func (m *MemoryCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = cacheItem[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}

	m.writes++
	if m.writes >= sweepThreshold {
		m.sweepLocked()
	}

	return nil
}

func (m *MemoryCache[T]) sweepLocked() {
	now := time.Now()
	for key, item := range m.items {
		if now.After(item.expiresAt) {
			delete(m.items, key)
		}
	}
	m.writes = 0
}

// Delete removes a key from cache.
func (m *MemoryCache[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *MemoryCache[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close cleans up resources.
func (m *MemoryCache[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]cacheItem[T])
	return nil
}

// Health checks if the cache is healthy (always true for memory cache).
func (m *MemoryCache[T]) Health(ctx context.Context) error {
	return nil
}

// GetWithFetch retrieves a value using the cache-aside pattern.
// Concurrent misses for the same key share a single fetchFunc call.
// Errors from fetchFunc are returned and never cached.
func (m *MemoryCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	if value, err := m.Get(ctx, key); err == nil {
		return value, nil
	}

	m.mu.Lock()
	if call, ok := m.inflight[key]; ok {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.value, call.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	call := &fetchCall[T]{done: make(chan struct{})}
	m.inflight[key] = call
	m.mu.Unlock()

	call.value, call.err = fetchFunc(ctx, key)
	if call.err == nil {
		_ = m.Set(ctx, key, call.value, ttl)
	}

	m.mu.Lock()
	delete(m.inflight, key)
	m.mu.Unlock()
	close(call.done)

	if call.err != nil {
		var zero T
		return zero, call.err
	}
	return call.value, nil
}
