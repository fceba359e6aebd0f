// Package cache persists serialized layout snapshots so an embedding
// application can tear a list view down and recreate it without recomputing
// layout. Backends range from an in-process map for tests to Redis and
// MongoDB for multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached snapshots.
const (
	// TTLSnapshot is the default lifetime of a stored layout snapshot.
	TTLSnapshot = 24 * time.Hour
)

// Cache is the byte-level storage interface for all backends.
type Cache interface {
	// Get retrieves a value from the cache.
	// The second return value reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value in the cache. A ttl of zero or less means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
