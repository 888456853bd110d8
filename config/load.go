package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ordkit/contentgrid/errors"
	"github.com/ordkit/contentgrid/pkg/cache"
	"github.com/ordkit/contentgrid/pkg/fetch"
	"github.com/ordkit/contentgrid/pkg/scroll"
)

// fileConfig mirrors Config with string-typed durations so YAML files can say
// "5m" instead of nanosecond integers. It is pre-filled from Default(), so
// fields absent from the file keep their defaults.
type fileConfig struct {
	Columns     int               `yaml:"columns"`
	Virtualized bool              `yaml:"virtualized"`
	Cache       fileCacheConfig   `yaml:"cache"`
	Fetcher     fileFetcherConfig `yaml:"fetcher"`
	Monitor     fileMonitorConfig `yaml:"monitor"`
	Scroll      scroll.Config     `yaml:"scroll"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type fileCacheConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Strategy         string `yaml:"strategy"`
	MaxSize          int    `yaml:"max_size"`
	TTL              string `yaml:"ttl"`
	PreloadBatchSize int    `yaml:"preload_batch_size"`
	PreloadPause     string `yaml:"preload_pause"`
}

type fileFetcherConfig struct {
	BatchSize       int    `yaml:"batch_size"`
	MaxConcurrency  int    `yaml:"max_concurrency"`
	RetryAttempts   int    `yaml:"retry_attempts"`
	RetryDelay      string `yaml:"retry_delay"`
	Timeout         string `yaml:"timeout"`
	InterBatchDelay string `yaml:"inter_batch_delay"`
	PriorityQueue   bool   `yaml:"priority_queue"`
}

type fileMonitorConfig struct {
	Capacity int    `yaml:"capacity"`
	Window   string `yaml:"window"`
}

// Load reads a YAML configuration file. A missing file is not an error: the
// defaults are returned, so a bare deployment needs no config at all.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, errors.WrapTransient(err, "config", "Load", "read config file")
	}

	fc := fromConfig(cfg)
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, errors.WrapInvalid(err, "config", "Load", "parse config file")
	}

	cfg, err = fc.toConfig()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromConfig(c Config) fileConfig {
	return fileConfig{
		Columns:     c.Columns,
		Virtualized: c.Virtualized,
		Cache: fileCacheConfig{
			Enabled:          c.Cache.Enabled,
			Strategy:         string(c.Cache.Strategy),
			MaxSize:          c.Cache.MaxSize,
			TTL:              c.Cache.TTL.String(),
			PreloadBatchSize: c.Cache.PreloadBatchSize,
			PreloadPause:     c.Cache.PreloadPause.String(),
		},
		Fetcher: fileFetcherConfig{
			BatchSize:       c.Fetcher.BatchSize,
			MaxConcurrency:  c.Fetcher.MaxConcurrency,
			RetryAttempts:   c.Fetcher.RetryAttempts,
			RetryDelay:      c.Fetcher.RetryDelay.String(),
			Timeout:         c.Fetcher.Timeout.String(),
			InterBatchDelay: c.Fetcher.InterBatchDelay.String(),
			PriorityQueue:   c.Fetcher.PriorityQueue,
		},
		Monitor: fileMonitorConfig{
			Capacity: c.Monitor.Capacity,
			Window:   c.Monitor.Window.String(),
		},
		Scroll:  c.Scroll,
		Metrics: c.Metrics,
	}
}

func (fc fileConfig) toConfig() (Config, error) {
	parse := func(field, value string) (time.Duration, error) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, errors.WrapInvalid(err, "config", "Load",
				fmt.Sprintf("invalid duration for %s: %q", field, value))
		}
		return d, nil
	}

	cfg := Config{
		Columns:     fc.Columns,
		Virtualized: fc.Virtualized,
		Cache: cache.Config{
			Enabled:          fc.Cache.Enabled,
			Strategy:         cache.Strategy(fc.Cache.Strategy),
			MaxSize:          fc.Cache.MaxSize,
			PreloadBatchSize: fc.Cache.PreloadBatchSize,
		},
		Fetcher: fetch.Config{
			BatchSize:      fc.Fetcher.BatchSize,
			MaxConcurrency: fc.Fetcher.MaxConcurrency,
			RetryAttempts:  fc.Fetcher.RetryAttempts,
			PriorityQueue:  fc.Fetcher.PriorityQueue,
		},
		Monitor: MonitorConfig{Capacity: fc.Monitor.Capacity},
		Scroll:  fc.Scroll,
		Metrics: fc.Metrics,
	}

	var err error
	if cfg.Cache.TTL, err = parse("cache.ttl", fc.Cache.TTL); err != nil {
		return Config{}, err
	}
	if cfg.Cache.PreloadPause, err = parse("cache.preload_pause", fc.Cache.PreloadPause); err != nil {
		return Config{}, err
	}
	if cfg.Fetcher.RetryDelay, err = parse("fetcher.retry_delay", fc.Fetcher.RetryDelay); err != nil {
		return Config{}, err
	}
	if cfg.Fetcher.Timeout, err = parse("fetcher.timeout", fc.Fetcher.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.Fetcher.InterBatchDelay, err = parse("fetcher.inter_batch_delay", fc.Fetcher.InterBatchDelay); err != nil {
		return Config{}, err
	}
	if cfg.Monitor.Window, err = parse("monitor.window", fc.Monitor.Window); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
