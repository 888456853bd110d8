package fetch

import (
	"log/slog"

	"github.com/ordkit/contentgrid/metric"
)

// Option configures fetcher behavior using the functional options pattern.
type Option func(*fetcherOptions)

type fetcherOptions struct {
	metricsReg    *metric.MetricsRegistry
	metricsPrefix string
	logger        *slog.Logger
}

// WithMetrics enables Prometheus metrics export for fetcher activity.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics(registry *metric.MetricsRegistry, prefix string) Option {
	return func(opts *fetcherOptions) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithLogger sets the logger used for batch progress and retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *fetcherOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func applyOptions(options ...Option) *fetcherOptions {
	opts := &fetcherOptions{
		logger: slog.Default(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
