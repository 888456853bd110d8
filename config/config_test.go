package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordkit/contentgrid/pkg/cache"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero columns", mutate: func(c *Config) { c.Columns = 0 }},
		{name: "bad cache strategy", mutate: func(c *Config) { c.Cache.Strategy = "random" }},
		{name: "zero fetch batch size", mutate: func(c *Config) { c.Fetcher.BatchSize = 0 }},
		{name: "zero monitor capacity", mutate: func(c *Config) { c.Monitor.Capacity = 0 }},
		{name: "zero scroll item height", mutate: func(c *Config) { c.Scroll.ItemHeight = 0 }},
		{name: "metrics enabled without port", mutate: func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentgrid.yaml")
	data := []byte(`
columns: 4
cache:
  strategy: fifo
  max_size: 50
  ttl: 10m
fetcher:
  retry_delay: 500ms
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Columns)
	assert.Equal(t, cache.StrategyFIFO, cfg.Cache.Strategy)
	assert.Equal(t, 50, cfg.Cache.MaxSize)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Fetcher.RetryDelay)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Fetcher.Timeout, cfg.Fetcher.Timeout)
	assert.Equal(t, Default().Monitor, cfg.Monitor)
	assert.True(t, cfg.Virtualized)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  ttl: soon\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentgrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
