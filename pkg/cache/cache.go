// Package cache provides pluggable caching backends for PyPI metadata
// and rendered artifacts.
//
// Three backends are available:
//
//   - [FileCache]: file-based cache under the user cache directory,
//     suitable for normal CLI usage
//   - [RedisCache]: Redis-backed cache for CI runners that share
//     lookups across jobs
//   - [NullCache]: no-op cache for tests and --no-cache runs
//
// All backends implement the [Cache] interface and store opaque byte
// slices. Callers are responsible for serialization; see
// pkg/integrations for the JSON read-through layer built on top.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all caching backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Errors are reserved for backend failures (I/O, connection loss); an
// expired or corrupt entry is reported as a miss, not an error.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources (connections, file handles).
	Close() error
}
