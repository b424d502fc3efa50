// Package cache provides pluggable caching for Atlan API responses.
//
// The SDK only caches reference data that changes rarely (type definitions,
// workspace roles). Backends:
//   - [FileCache]: JSON files under the user's cache directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for services running many clients
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer]. Use [NewScopedKeyer] to isolate tenants that
// share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached bytes for key. The bool is false on a miss or an
	// expired entry; errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
