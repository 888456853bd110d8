package config

import (
	"fmt"
	"time"

	"github.com/ordkit/contentgrid/errors"
	"github.com/ordkit/contentgrid/pkg/cache"
	"github.com/ordkit/contentgrid/pkg/fetch"
	"github.com/ordkit/contentgrid/pkg/scroll"
)

// Config is the aggregate configuration for one gallery instance.
type Config struct {
	// Columns is the grid width used for row grouping.
	Columns int `json:"columns" yaml:"columns"`

	// Virtualized selects the windowed render path; when false the full item
	// list is treated as visible.
	Virtualized bool `json:"virtualized" yaml:"virtualized"`

	Cache   cache.Config  `json:"cache" yaml:"cache"`
	Fetcher fetch.Config  `json:"fetcher" yaml:"fetcher"`
	Monitor MonitorConfig `json:"monitor" yaml:"monitor"`
	Scroll  scroll.Config `json:"scroll" yaml:"scroll"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// MonitorConfig configures the performance monitor.
type MonitorConfig struct {
	// Capacity is the event ring buffer size.
	Capacity int `json:"capacity" yaml:"capacity"`

	// Window is the default trailing window for aggregate reports.
	Window time.Duration `json:"window" yaml:"window"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Port    int    `json:"port" yaml:"port"`
	Path    string `json:"path" yaml:"path"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		Columns:     3,
		Virtualized: true,
		Cache:       cache.DefaultConfig(),
		Fetcher:     fetch.DefaultConfig(),
		Monitor: MonitorConfig{
			Capacity: 1000,
			Window:   time.Minute,
		},
		Scroll: scroll.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Validate checks the aggregate configuration, delegating to each component.
func (c Config) Validate() error {
	if c.Columns <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "config", "Validate",
			fmt.Sprintf("columns must be positive, got %d", c.Columns))
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Fetcher.Validate(); err != nil {
		return err
	}
	if c.Monitor.Capacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "config", "Validate",
			fmt.Sprintf("monitor capacity must be positive, got %d", c.Monitor.Capacity))
	}
	if c.Monitor.Window <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "config", "Validate",
			fmt.Sprintf("monitor window must be positive, got %v", c.Monitor.Window))
	}
	if err := c.Scroll.Validate(); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			return errors.WrapInvalid(errors.ErrInvalidData, "config", "Validate",
				fmt.Sprintf("metrics port must be in 1..65535, got %d", c.Metrics.Port))
		}
		if c.Metrics.Path == "" {
			return errors.WrapInvalid(errors.ErrInvalidData, "config", "Validate",
				"metrics path cannot be empty")
		}
	}
	return nil
}
