package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ordkit/contentgrid/metric"
)

// monitorMetrics mirrors the event stream as Prometheus counters.
type monitorMetrics struct {
	events *prometheus.CounterVec
}

func newMonitorMetrics(registry *metric.MetricsRegistry, prefix string) (*monitorMetrics, error) {
	m := &monitorMetrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "contentgrid",
			Subsystem:   "monitor",
			Name:        "events_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Performance events recorded by type",
		}, []string{"type"}),
	}

	if err := registry.RegisterCounterVec(prefix, "monitor_events_total", m.events); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *monitorMetrics) recordEvent(t EventType) {
	m.events.WithLabelValues(string(t)).Inc()
}
