package cache

import "errors"

// Sentinel errors shared by every Cache[T] backend.
var (
	// ErrCacheMiss means the key is absent or expired; callers fall back to the store.
	ErrCacheMiss = errors.New("cache: miss")

	// ErrCacheUnavailable wraps backend I/O failures
	ErrCacheUnavailable = errors.New("cache: backend unavailable")

	// ErrInvalidValue is returned when a value cannot be encoded or decoded
	ErrInvalidValue = errors.New("cache: invalid value")
)
