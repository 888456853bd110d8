package monitor

import (
	"math"
	"sort"
	"time"

	"github.com/ordkit/contentgrid/errors"
)

// Report aggregates the events inside one trailing window.
type Report struct {
	// Window is the trailing duration the report covers.
	Window time.Duration `json:"window"`

	// EventCount is the number of events inside the window.
	EventCount int `json:"event_count"`

	// LoadDurations lists individual load durations, ascending.
	LoadDurations []time.Duration `json:"load_durations"`

	// CacheHitRate is hits / (hits + misses), 0 if neither occurred.
	CacheHitRate float64 `json:"cache_hit_rate"`

	// ErrorRate is errors / (errors + completions), 0 if neither occurred.
	ErrorRate float64 `json:"error_rate"`

	// AvgLoadTime is the mean of LoadDurations.
	AvgLoadTime time.Duration `json:"avg_load_time"`

	// P95LoadTime and P99LoadTime are trailing-window load percentiles.
	P95LoadTime time.Duration `json:"p95_load_time"`
	P99LoadTime time.Duration `json:"p99_load_time"`

	// BytesTransferred sums the sizes recorded on completions.
	BytesTransferred int64 `json:"bytes_transferred"`

	// ErrorCounts groups load errors by classified kind.
	ErrorCounts map[string]int `json:"error_counts"`

	// RequestsPerSecond approximates throughput as events / window seconds.
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// Metrics computes aggregate statistics over the trailing window. A
// non-positive window falls back to DefaultWindow.
func (m *Monitor) Metrics(window time.Duration) Report {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := m.now().Add(-window)

	m.mu.RLock()
	events := m.snapshotLocked()
	m.mu.RUnlock()

	report := Report{
		Window:      window,
		ErrorCounts: make(map[string]int),
	}

	var hits, misses, completions, loadErrors int
	var totalLoad time.Duration

	for _, event := range events {
		if event.Timestamp.Before(cutoff) {
			continue
		}
		report.EventCount++

		switch event.Type {
		case EventCacheHit:
			hits++
		case EventCacheMiss:
			misses++
		case EventLoadComplete:
			completions++
			report.LoadDurations = append(report.LoadDurations, event.Duration)
			totalLoad += event.Duration
			report.BytesTransferred += event.Size
		case EventLoadError:
			loadErrors++
			kind := "unknown"
			if event.Err != nil {
				kind = errors.Classify(event.Err).String()
			}
			report.ErrorCounts[kind]++
		}
	}

	if hits+misses > 0 {
		report.CacheHitRate = float64(hits) / float64(hits+misses)
	}
	if loadErrors+completions > 0 {
		report.ErrorRate = float64(loadErrors) / float64(loadErrors+completions)
	}
	if completions > 0 {
		report.AvgLoadTime = totalLoad / time.Duration(completions)
	}

	sort.Slice(report.LoadDurations, func(i, j int) bool {
		return report.LoadDurations[i] < report.LoadDurations[j]
	})
	report.P95LoadTime = percentile(report.LoadDurations, 95)
	report.P99LoadTime = percentile(report.LoadDurations, 99)

	report.RequestsPerSecond = float64(report.EventCount) / window.Seconds()

	return report
}

// percentile indexes sorted durations at ceil(p/100 * n) - 1, clamped.
func percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	idx := int(math.Ceil(p/100*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
