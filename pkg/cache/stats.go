package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks cache performance counters. Counters are always collected;
// Prometheus export is a separate, optional track.
type Statistics struct {
	// Atomic counters for thread-safe updates
	hits        int64
	misses      int64
	sets        int64
	deletes     int64
	evictions   int64
	expirations int64

	// Protected by mutex
	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	memoryUsage int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{startTime: time.Now()}
}

// Hit records a cache hit.
func (s *Statistics) Hit() { atomic.AddInt64(&s.hits, 1) }

// Miss records a cache miss.
func (s *Statistics) Miss() { atomic.AddInt64(&s.misses, 1) }

// Set records a cache set operation.
func (s *Statistics) Set() { atomic.AddInt64(&s.sets, 1) }

// Delete records a cache delete operation.
func (s *Statistics) Delete() { atomic.AddInt64(&s.deletes, 1) }

// Eviction records a capacity eviction.
func (s *Statistics) Eviction() { atomic.AddInt64(&s.evictions, 1) }

// Expiration records a TTL expiration detected on read.
func (s *Statistics) Expiration() { atomic.AddInt64(&s.expirations, 1) }

// UpdateSize updates the current entry count.
func (s *Statistics) UpdateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	s.mu.Unlock()
}

// UpdateMemoryUsage updates the estimated memory usage.
func (s *Statistics) UpdateMemoryUsage(usage int64) {
	s.mu.Lock()
	s.memoryUsage = usage
	s.mu.Unlock()
}

// Hits returns the total number of cache hits.
func (s *Statistics) Hits() int64 { return atomic.LoadInt64(&s.hits) }

// Misses returns the total number of cache misses.
func (s *Statistics) Misses() int64 { return atomic.LoadInt64(&s.misses) }

// Evictions returns the total number of capacity evictions.
func (s *Statistics) Evictions() int64 { return atomic.LoadInt64(&s.evictions) }

// Expirations returns the total number of TTL expirations.
func (s *Statistics) Expirations() int64 { return atomic.LoadInt64(&s.expirations) }

// HitRate returns hits/(hits+misses), or 0 if there were no requests.
func (s *Statistics) HitRate() float64 {
	hits := s.Hits()
	total := hits + s.Misses()
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// Reset zeroes all counters. Used by Clear, which by contract also resets
// hit/miss accounting.
func (s *Statistics) Reset() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.sets, 0)
	atomic.StoreInt64(&s.deletes, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.expirations, 0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.currentSize = 0
	s.memoryUsage = 0
	s.mu.Unlock()
}

// Summary is a point-in-time snapshot of cache statistics.
type Summary struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	Sets        int64   `json:"sets"`
	Deletes     int64   `json:"deletes"`
	Evictions   int64   `json:"evictions"`
	Expirations int64   `json:"expirations"`
	Size        int     `json:"size"`
	MemoryUsage int64   `json:"memory_usage"`
	HitRate     float64 `json:"hit_rate"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() Summary {
	s.mu.RLock()
	size := s.currentSize
	memory := s.memoryUsage
	s.mu.RUnlock()

	return Summary{
		Hits:        s.Hits(),
		Misses:      s.Misses(),
		Sets:        atomic.LoadInt64(&s.sets),
		Deletes:     atomic.LoadInt64(&s.deletes),
		Evictions:   s.Evictions(),
		Expirations: s.Expirations(),
		Size:        int(size),
		MemoryUsage: memory,
		HitRate:     s.HitRate(),
	}
}
