// Package cache provides response caching for rendered diagrams.
//
// The server caches complete rendered pages keyed by a hash of the input
// text and the request options, so repeated views of an unchanged profile
// skip parsing and layout entirely. Backends: in-process LRU for a single
// instance, Redis for shared deployments, and a no-op cache for the CLI
// and tests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache stores rendered artifacts by key.
type Cache interface {
	// Get returns the cached bytes for key and whether they were present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key if present.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Key builds a stable cache key from arbitrary components by hashing their
// JSON encoding. The prefix keeps key spaces of different artifact kinds
// apart.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(hash[:])
}
