// Package cache stores fetched asset bytes between renders.
//
// # Backends
//
//   - [NullCache]: stores nothing; the default when caching is disabled
//   - [FileCache]: hash-sharded files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//
// # Keys
//
// Keys come from a [Keyer] so every backend hashes the same way:
//
//	k := cache.NewDefaultKeyer()
//	data, hit, err := c.Get(ctx, k.AssetKey(coverURL))
//
// [NewScopedKeyer] prefixes keys so several deployments can share one Redis
// database.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	// TTLAsset is how long a fetched cover or avatar stays cached.
	TTLAsset = 24 * time.Hour
)

// Cache is a byte store with per-entry expiration. Implementations must be
// safe for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// AssetKey is the key for the raw bytes behind an asset URL.
	AssetKey(url string) string
}

// DefaultKeyer hashes URLs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AssetKey returns "asset:" followed by the SHA-256 of url.
func (DefaultKeyer) AssetKey(url string) string {
	return hashKey("asset", url)
}
