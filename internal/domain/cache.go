package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key holds no value.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is a string key/value store with per-entry expiry. It backs the
// model response cache.
type Cache interface {
	// Get returns ErrCacheMiss for an absent or expired key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl keeps the entry until deleted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}
