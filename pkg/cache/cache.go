// Package cache provides pluggable byte caches for rendered diagrams.
//
// Rendering a large model is cheap but not free; the HTTP service and
// CLI both cache finished artifacts keyed by a hash of the model and
// every rendering option. Three backends are provided:
//
//   - FileCache: directory-backed storage for CLI usage
//   - RedisCache: shared storage for multi-instance service deployments
//   - NullCache: no-op backend for tests and --no-cache runs
//
// Keys are produced by a [Keyer] so callers never concatenate hash
// input by hand; [ScopedKeyer] prefixes keys for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts as opaque byte payloads.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
