// Package cache provides artifact caching for rendered output.
//
// Rendering the same dataset in the same disclosure state is
// deterministic, so rendered SVG and DOT artifacts are cached keyed by a
// hash of the dataset bytes plus a fingerprint of the state. Two
// implementations exist: a file-based cache for CLI use and a null cache
// for --no-cache runs and tests.
package cache

import (
	"context"
	"time"
)

// Cache stores and retrieves rendered artifacts by key.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
