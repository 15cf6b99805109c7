// Package cache provides a small key/value cache for decoded tables.
//
// Reading large spreadsheets is the slowest part of a databroom run, so the
// CLI stores every decoded input table under a key derived from the file's
// bytes. A second run over an unchanged file skips the format parser and
// decodes the cached split-JSON payload instead.
//
// Two implementations are provided:
//
//   - [FileCache] stores JSON entries with an expiry under a directory
//   - [NullCache] never stores anything and is used with --no-cache
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a decoded table stays valid.
const DefaultTTL = 24 * time.Hour

// Cache stores opaque byte payloads by key.
type Cache interface {
	// Get returns the payload for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
