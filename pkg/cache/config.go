package cache

import (
	"fmt"
	"time"

	"github.com/ordkit/contentgrid/errors"
)

// Strategy defines the eviction strategy for the cache.
type Strategy string

const (
	// StrategyLRU evicts the entry with the oldest last access.
	StrategyLRU Strategy = "lru"

	// StrategyFIFO evicts the entry inserted earliest, ignoring access recency.
	StrategyFIFO Strategy = "fifo"
)

// Config contains configuration for cache creation.
type Config struct {
	// Enabled determines if caching is enabled.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Strategy determines the eviction strategy.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// MaxSize is the maximum number of entries. Eviction happens before an
	// insert would exceed it, so the cache never transiently overflows.
	MaxSize int `json:"max_size" yaml:"max_size"`

	// TTL is the time-to-live for entries; 0 disables expiration. Expiration
	// is lazy: an expired entry is deleted when a read detects it.
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// PreloadBatchSize is how many ids each preload batch drives at once.
	PreloadBatchSize int `json:"preload_batch_size" yaml:"preload_batch_size"`

	// PreloadPause is the pause between preload batches, to avoid bursting
	// the underlying source.
	PreloadPause time.Duration `json:"preload_pause" yaml:"preload_pause"`
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		Strategy:         StrategyLRU,
		MaxSize:          100,
		TTL:              5 * time.Minute,
		PreloadBatchSize: 5,
		PreloadPause:     100 * time.Millisecond,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil // No validation needed if disabled
	}

	switch c.Strategy {
	case StrategyLRU, StrategyFIFO:
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("unknown eviction strategy: %q", c.Strategy))
	}

	// A zero or negative capacity would make the eviction loop unable to free
	// room for any insert; reject it outright.
	if c.MaxSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("max_size must be positive, got %d", c.MaxSize))
	}

	if c.TTL < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			fmt.Sprintf("ttl cannot be negative, got %v", c.TTL))
	}

	if c.PreloadBatchSize < 0 || c.PreloadPause < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "cache", "Validate",
			"preload settings cannot be negative")
	}

	return nil
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.PreloadBatchSize == 0 {
		c.PreloadBatchSize = 5
	}
	if c.PreloadPause == 0 {
		c.PreloadPause = 100 * time.Millisecond
	}
	return c
}
