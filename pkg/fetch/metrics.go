package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ordkit/contentgrid/metric"
)

// fetcherMetrics holds Prometheus metrics for batch fetch activity.
type fetcherMetrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	active   prometheus.Gauge
	queued   prometheus.Gauge
}

func newFetcherMetrics(registry *metric.MetricsRegistry, prefix string) (*fetcherMetrics, error) {
	m := &fetcherMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "contentgrid",
			Subsystem:   "fetch",
			Name:        "requests_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total fetch requests by terminal status",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "contentgrid",
			Subsystem:   "fetch",
			Name:        "response_duration_seconds",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Wall-clock duration of successful fetch attempts",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 15.0},
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "contentgrid",
			Subsystem:   "fetch",
			Name:        "active_requests",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Requests currently mid-flight",
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "contentgrid",
			Subsystem:   "fetch",
			Name:        "queued_requests",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Accepted requests not yet started",
		}),
	}

	if err := registry.RegisterCounterVec(prefix, "fetch_requests_total", m.requests); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(prefix, "fetch_response_duration_seconds", m.duration); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "fetch_active_requests", m.active); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "fetch_queued_requests", m.queued); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *fetcherMetrics) recordRequest(success bool, elapsed time.Duration) {
	if success {
		m.requests.WithLabelValues("success").Inc()
		m.duration.Observe(elapsed.Seconds())
	} else {
		m.requests.WithLabelValues("failed").Inc()
	}
}

func (m *fetcherMetrics) updateGauges(active, queued int) {
	m.active.Set(float64(active))
	m.queued.Set(float64(queued))
}
