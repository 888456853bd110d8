package cache

import (
	"log/slog"
	"time"

	"github.com/ordkit/contentgrid/metric"
)

// Option configures cache behavior using the functional options pattern.
type Option func(*cacheOptions)

// cacheOptions holds internal configuration for cache instances.
// Stats are ALWAYS collected; metrics are optional via WithMetrics().
type cacheOptions struct {
	metricsReg    *metric.MetricsRegistry
	metricsPrefix string
	evictCallback EvictCallback
	logger        *slog.Logger
	now           func() time.Time
}

// WithMetrics enables Prometheus metrics export for cache statistics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics(registry *metric.MetricsRegistry, prefix string) Option {
	return func(opts *cacheOptions) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithEvictionCallback sets a callback invoked when entries are evicted.
func WithEvictionCallback(callback EvictCallback) Option {
	return func(opts *cacheOptions) {
		opts.evictCallback = callback
	}
}

// WithLogger sets the logger used for preload and read-through diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *cacheOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithClock overrides the time source. Intended for TTL tests.
func WithClock(now func() time.Time) Option {
	return func(opts *cacheOptions) {
		if now != nil {
			opts.now = now
		}
	}
}

// applyOptions applies functional options to create final cache configuration.
func applyOptions(options ...Option) *cacheOptions {
	opts := &cacheOptions{
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
