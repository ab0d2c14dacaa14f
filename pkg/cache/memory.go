package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache is a bounded in-process cache backed by an LRU. Suitable for
// single-instance deployments; rendered pages for hot profiles stay warm
// while cold entries age out by capacity.
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an in-process cache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	l, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{lru: l}, nil
}

// Get returns the cached bytes for key, treating expired entries as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores data under key.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, entry)
	return nil
}

// Delete removes key if present.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
