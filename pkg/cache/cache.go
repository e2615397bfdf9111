// Package cache stores downloaded registry payloads between runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance, for CI machines
//   - [NullCache]: caching disabled
//
// A cache only ever holds raw payload bytes. Decoding and validation happen
// after every read, so a cached registry goes through the same checks as a
// freshly downloaded one.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the stored bytes and whether the key was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// RegistryKey returns the cache key for the registry payload served at url.
func RegistryKey(url string) string {
	return hashKey("registry", url)
}

// NullCache stores nothing. It backs cache.backend = "none".
type NullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)           { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
