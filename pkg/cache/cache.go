package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get for absent or expired keys. Both backends
// return it so callers need no backend-specific miss handling.
var ErrCacheMiss = errors.New("cache: key not found")

// Service is the cache abstraction shared by the Redis and in-memory
// backends. Values are JSON-encoded on write and decoded into dest on read.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}
