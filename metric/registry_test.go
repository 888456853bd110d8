package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_hits_total",
		Help: "test counter",
	})

	require.NoError(t, registry.RegisterCounter("cache", "hits", counter))

	// Same key must be rejected.
	dup := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_hits_total_other",
		Help: "test counter",
	})
	err := registry.RegisterCounter("cache", "hits", dup)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate metric registration")
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_size",
		Help: "test gauge",
	})
	require.NoError(t, registry.RegisterGauge("cache", "size", gauge))

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_duration_seconds",
		Help: "test histogram",
	})
	require.NoError(t, registry.RegisterHistogram("fetcher", "duration", histogram))
}

func TestUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_total",
		Help: "test counter",
	})
	require.NoError(t, registry.RegisterCounter("monitor", "events", counter))

	assert.True(t, registry.Unregister("monitor", "events"))
	assert.False(t, registry.Unregister("monitor", "events"))

	// Re-registration after unregister should succeed.
	require.NoError(t, registry.RegisterCounter("monitor", "events", counter))
}

func TestPrometheusConflict(t *testing.T) {
	registry := NewMetricsRegistry()

	a := prometheus.NewCounter(prometheus.CounterOpts{Name: "same_name_total", Help: "h"})
	b := prometheus.NewCounter(prometheus.CounterOpts{Name: "same_name_total", Help: "h"})

	require.NoError(t, registry.RegisterCounter("x", "a", a))
	// Different registry key, but colliding Prometheus name.
	err := registry.RegisterCounter("x", "b", b)
	assert.Error(t, err)
}
