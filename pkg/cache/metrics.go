package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ordkit/contentgrid/metric"
)

// cacheMetrics holds Prometheus metrics for cache operations.
type cacheMetrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	sets        prometheus.Counter
	deletes     prometheus.Counter
	evictions   prometheus.Counter
	expirations prometheus.Counter

	size   prometheus.Gauge
	memory prometheus.Gauge
}

// newCacheMetrics creates and registers cache metrics with the provided registry.
func newCacheMetrics(registry *metric.MetricsRegistry, prefix string) (*cacheMetrics, error) {
	newCounter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "contentgrid",
			Subsystem:   "cache",
			Name:        name,
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        help,
		})
	}

	m := &cacheMetrics{
		hits:        newCounter("hits_total", "Total number of cache hits"),
		misses:      newCounter("misses_total", "Total number of cache misses"),
		sets:        newCounter("sets_total", "Total number of cache set operations"),
		deletes:     newCounter("deletes_total", "Total number of cache delete operations"),
		evictions:   newCounter("evictions_total", "Total number of capacity evictions"),
		expirations: newCounter("expirations_total", "Total number of TTL expirations"),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "contentgrid",
			Subsystem:   "cache",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of entries in cache",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "contentgrid",
			Subsystem:   "cache",
			Name:        "memory_bytes",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Estimated memory usage of cached entries in bytes",
		}),
	}

	registrations := []struct {
		name      string
		collector prometheus.Collector
	}{
		{"cache_hits", m.hits},
		{"cache_misses", m.misses},
		{"cache_sets", m.sets},
		{"cache_deletes", m.deletes},
		{"cache_evictions", m.evictions},
		{"cache_expirations", m.expirations},
	}
	for _, reg := range registrations {
		if err := registry.RegisterCounter(prefix, reg.name, reg.collector.(prometheus.Counter)); err != nil {
			return nil, err
		}
	}
	if err := registry.RegisterGauge(prefix, "cache_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "cache_memory_bytes", m.memory); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) recordHit()        { m.hits.Inc() }
func (m *cacheMetrics) recordMiss()       { m.misses.Inc() }
func (m *cacheMetrics) recordSet()        { m.sets.Inc() }
func (m *cacheMetrics) recordDelete()     { m.deletes.Inc() }
func (m *cacheMetrics) recordEviction()   { m.evictions.Inc() }
func (m *cacheMetrics) recordExpiration() { m.expirations.Inc() }

func (m *cacheMetrics) updateSize(size int, memory int64) {
	m.size.Set(float64(size))
	m.memory.Set(float64(memory))
}
