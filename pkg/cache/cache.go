// Package cache stores rendered drawings so that identical requests are served
// without re-running the layout.
//
// Three backends implement [Cache]: [FileCache] for the CLI (one JSON file per
// entry under the user cache directory), [RedisCache] for servers sharing a
// cache, and [NullCache] when caching is disabled. Keys come from a [Keyer],
// which hashes the Parameter Set fingerprint together with the output options.
package cache

import (
	"context"
	"time"
)

// Default lifetimes.
const (
	// ArtifactTTL applies to rendered files. Rendering is deterministic for a
	// given key, so entries only expire to bound disk usage.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A miss is not an
	// error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
