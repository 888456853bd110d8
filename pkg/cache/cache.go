// Package cache provides the thread-safe eviction cache for inscription
// content, with LRU or FIFO eviction, lazy TTL expiration, built-in statistics
// and optional Prometheus metrics integration.
package cache

import (
	"context"
	"time"

	"github.com/ordkit/contentgrid/content"
	"github.com/ordkit/contentgrid/errors"
)

// Cache is the content cache contract. Implementations are thread-safe.
type Cache interface {
	// Get retrieves a payload by inscription id. Expired entries are removed
	// on detection and reported as misses.
	Get(id string) (content.Payload, bool)

	// Set stores a payload, evicting per the configured strategy until there
	// is room. Returns true if a new entry was created, false if updated.
	Set(id string, payload content.Payload) (bool, error)

	// Contains reports whether the id is cached and unexpired, without
	// touching hit/miss accounting or recency.
	Contains(id string) bool

	// Delete removes an entry by id. Returns true if the id existed.
	Delete(id string) bool

	// Clear removes all entries and resets hit/miss counters.
	Clear()

	// Size returns the current number of entries.
	Size() int

	// Keys returns all cached ids in eviction order (next candidate last).
	Keys() []string

	// Stats returns a snapshot of cache statistics.
	Stats() Summary

	// GetContent is the read-through path: return the cached payload on a hit,
	// otherwise fetch from source, store and return. Fetch errors propagate
	// and nothing is cached.
	GetContent(ctx context.Context, id string, source content.Source) (content.Payload, error)

	// Preload warms the cache for ids not already present, in fixed-size
	// sequential batches with a pause between them. Best-effort: per-item
	// failures are logged and skipped, never returned.
	Preload(ctx context.Context, ids []string, source content.Source)

	// Close releases any resources held by the cache.
	Close() error
}

// EvictCallback is called when an entry is evicted from the cache.
type EvictCallback func(id string, payload content.Payload)

// New creates a cache from the provided configuration. A disabled config
// yields a pass-through cache that never stores anything.
func New(cfg Config, options ...Option) (Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "cache", "New", "config validation")
	}

	if !cfg.Enabled {
		return &noopCache{}, nil
	}

	opts := applyOptions(options...)
	return newStore(cfg, opts)
}

// noopCache is used when caching is disabled: every read misses, every write
// is dropped, and the read-through path degrades to a plain fetch.
type noopCache struct{}

func (c *noopCache) Get(string) (content.Payload, bool)        { return content.Payload{}, false }
func (c *noopCache) Set(string, content.Payload) (bool, error) { return false, nil }
func (c *noopCache) Contains(string) bool                      { return false }
func (c *noopCache) Delete(string) bool                        { return false }
func (c *noopCache) Clear()                                    {}
func (c *noopCache) Size() int                                 { return 0 }
func (c *noopCache) Keys() []string                            { return nil }
func (c *noopCache) Stats() Summary                            { return Summary{} }
func (c *noopCache) Close() error                              { return nil }

func (c *noopCache) GetContent(ctx context.Context, id string, source content.Source) (content.Payload, error) {
	payload, err := source.Fetch(ctx, id)
	if err != nil {
		return content.Payload{}, errors.WrapTransient(err, "cache", "GetContent", "content fetch")
	}
	return payload, nil
}

func (c *noopCache) Preload(context.Context, []string, content.Source) {}

// expiresAt computes the expiry instant for an entry created at the given
// time, or the zero time when the cache has no TTL.
func expiresAt(createdAt time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return createdAt.Add(ttl)
}
