// Package cache provides a TTL key-value cache for generated documentation
// artifacts and embedding vectors.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys with a TTL.
type Cache interface {
	// Get returns the cached payload and whether the key was present and
	// not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
