// Package cache provides pluggable byte caches used to memoize embedding
// vectors across evaluation runs.
//
// Backends:
//   - [FileCache]: file-based storage for CLI usage
//   - [RedisCache]: Redis-backed storage for service deployments
//   - [NullCache]: no-op cache for tests or --no-cache
//
// Keys are SHA-256 hashed, so arbitrary label text is safe to use as key
// material. [ScopedCache] prefixes keys to namespace entries per embedding
// model, keeping vectors from different models apart.
package cache

import (
	"context"
	"time"
)

// TTLEmbedding is how long cached embedding vectors remain valid.
// Embeddings are deterministic for a fixed model version, so the TTL mainly
// bounds disk growth rather than staleness.
const TTLEmbedding = 30 * 24 * time.Hour

// Cache stores opaque byte values with optional expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// EmbeddingKey builds the cache key for one label's vector. Model
// isolation is the caller's concern: wrap the backend in a [ScopedCache]
// with a per-model prefix.
func EmbeddingKey(text string) string {
	return hashKey("emb", text)
}
