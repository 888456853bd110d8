package monitor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ordkit/contentgrid/metric"
)

// DefaultCapacity bounds the event buffer; the oldest events are silently
// dropped past it, so statistics over windows longer than the buffer's reach
// degrade gracefully rather than grow memory.
const DefaultCapacity = 1000

// DefaultWindow is the trailing window used when Metrics is called with a
// non-positive duration.
const DefaultWindow = time.Minute

// Monitor is a thread-safe ring buffer of performance events with rolling
// aggregate statistics. One Monitor is owned per gallery instance.
type Monitor struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	head     int // next write position
	size     int
	dropped  int64

	logger  *slog.Logger
	metrics *monitorMetrics
	now     func() time.Time

	metricsReg    *metric.MetricsRegistry
	metricsPrefix string
}

// Option configures monitor behavior.
type Option func(*Monitor)

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics mirrors event counts as Prometheus metrics.
// If registry is nil or prefix is empty, this option is ignored.
func WithMetrics(registry *metric.MetricsRegistry, prefix string) Option {
	return func(m *Monitor) {
		if registry != nil && prefix != "" {
			m.metricsReg = registry
			m.metricsPrefix = prefix
		}
	}
}

// WithClock overrides the time source. Intended for windowing tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a monitor with the given event capacity. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int, options ...Option) *Monitor {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	m := &Monitor{
		events:   make([]Event, capacity),
		capacity: capacity,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	m.logger = m.logger.With("component", "monitor")

	if m.metricsReg != nil && m.metricsPrefix != "" {
		metrics, err := newMonitorMetrics(m.metricsReg, m.metricsPrefix)
		if err != nil {
			m.logger.Warn("metrics registration failed, continuing without", "error", err)
		} else {
			m.metrics = metrics
		}
	}

	return m
}

// Record appends an event, stamping it with the current time if the caller
// left Timestamp zero. The oldest event is dropped once the buffer is full.
func (m *Monitor) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = m.now()
	}

	m.mu.Lock()
	if m.size == m.capacity {
		// head == tail when full; overwriting head drops the oldest.
		m.dropped++
		m.size--
	}
	m.events[m.head] = event
	m.head = (m.head + 1) % m.capacity
	m.size++
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.recordEvent(event.Type)
	}
}

// EventCount returns the number of retained events.
func (m *Monitor) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Dropped returns how many events have been lost to the capacity cap.
func (m *Monitor) Dropped() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dropped
}

// Clear resets the buffer.
func (m *Monitor) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero Event
	for i := range m.events {
		m.events[i] = zero
	}
	m.head = 0
	m.size = 0
	m.dropped = 0
}

// Export returns a snapshot copy of all retained events, oldest first.
func (m *Monitor) Export() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// snapshotLocked copies retained events oldest first. Must be called with at
// least a read lock held.
func (m *Monitor) snapshotLocked() []Event {
	out := make([]Event, 0, m.size)
	tail := (m.head - m.size + m.capacity) % m.capacity
	for i := 0; i < m.size; i++ {
		out = append(out, m.events[(tail+i)%m.capacity])
	}
	return out
}
