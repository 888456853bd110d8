package cache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ordkit/contentgrid/content"
	"github.com/ordkit/contentgrid/errors"
)

// entry is a cached payload with its bookkeeping metadata.
type entry struct {
	id           string
	payload      content.Payload
	size         int64
	createdAt    time.Time
	expiresAt    time.Time // zero means no expiration
	lastAccessed time.Time
	accessCount  uint64
}

// isExpired checks if the entry has expired at the given instant.
func (e *entry) isExpired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// store is the real cache implementation: a map for O(1) lookup plus a
// doubly-linked list maintaining eviction order. Under LRU a hit moves the
// entry to the front, so the back is always the least recently used; under
// FIFO entries never move, so the back is always the earliest insert.
type store struct {
	mu       sync.Mutex
	cfg      Config
	items    map[string]*list.Element // id -> list element holding *entry
	order    *list.List
	memory   int64       // running sum of entry size estimates
	stats    *Statistics // ALWAYS initialized
	metrics  *cacheMetrics
	evictFn  EvictCallback
	logger   *slog.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration)
}

func newStore(cfg Config, opts *cacheOptions) (*store, error) {
	cfg = cfg.withDefaults()

	var metrics *cacheMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "cache", "newStore", "metrics registration")
		}
	}

	return &store{
		cfg:     cfg,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		stats:   NewStatistics(),
		metrics: metrics,
		evictFn: opts.evictCallback,
		logger:  opts.logger.With("component", "cache"),
		now:     opts.now,
		sleep:   ctxSleep,
	}, nil
}

// Get retrieves a payload by id. Hits refresh access metadata; under LRU they
// also refresh recency. Expired entries are removed and counted as misses.
func (s *store) Get(id string) (content.Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	element, exists := s.items[id]
	if !exists {
		s.recordMiss()
		return content.Payload{}, false
	}

	ent := element.Value.(*entry)
	now := s.now()

	if ent.isExpired(now) {
		s.removeElement(element)
		s.stats.Expiration()
		if s.metrics != nil {
			s.metrics.recordExpiration()
		}
		s.recordMiss()
		return content.Payload{}, false
	}

	ent.accessCount++
	ent.lastAccessed = now
	if s.cfg.Strategy == StrategyLRU {
		s.order.MoveToFront(element)
	}

	s.stats.Hit()
	if s.metrics != nil {
		s.metrics.recordHit()
	}
	return ent.payload, true
}

// Set stores a payload under id, evicting until there is room for a new entry.
func (s *store) Set(id string, payload content.Payload) (bool, error) {
	if id == "" {
		return false, errors.WrapInvalid(errors.ErrInvalidData, "cache", "Set", "empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	size := payload.EstimateSize()

	if element, exists := s.items[id]; exists {
		// Overwrite keeps the FIFO position; LRU treats it as an access.
		ent := element.Value.(*entry)
		s.memory += size - ent.size
		ent.payload = payload
		ent.size = size
		ent.createdAt = now
		ent.expiresAt = expiresAt(now, s.cfg.TTL)
		ent.lastAccessed = now
		ent.accessCount = 1
		if s.cfg.Strategy == StrategyLRU {
			s.order.MoveToFront(element)
		}
		s.afterWrite()
		return false, nil
	}

	// Evict-then-insert: free room before adding so the cache never exceeds
	// MaxSize, even transiently. MaxSize >= 1 is guaranteed by Validate, so
	// this loop always terminates with room for the new entry.
	for len(s.items) >= s.cfg.MaxSize {
		if !s.evictOne() {
			break
		}
	}

	ent := &entry{
		id:           id,
		payload:      payload,
		size:         size,
		createdAt:    now,
		expiresAt:    expiresAt(now, s.cfg.TTL),
		lastAccessed: now,
		accessCount:  1,
	}
	s.items[id] = s.order.PushFront(ent)
	s.memory += size

	s.afterWrite()
	return true, nil
}

// Contains reports presence without disturbing stats or recency.
func (s *store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	element, exists := s.items[id]
	if !exists {
		return false
	}
	return !element.Value.(*entry).isExpired(s.now())
}

// Delete removes an entry by id.
func (s *store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	element, exists := s.items[id]
	if !exists {
		return false
	}

	s.removeElement(element)
	s.stats.Delete()
	s.syncSizeStats()
	if s.metrics != nil {
		s.metrics.recordDelete()
		s.metrics.updateSize(len(s.items), s.memory)
	}
	return true
}

// Clear removes all entries and resets hit/miss accounting.
func (s *store) Clear() {
	var evicted []*entry

	s.mu.Lock()
	if s.evictFn != nil {
		evicted = make([]*entry, 0, len(s.items))
		for element := s.order.Back(); element != nil; element = element.Prev() {
			evicted = append(evicted, element.Value.(*entry))
		}
	}

	s.items = make(map[string]*list.Element)
	s.order.Init()
	s.memory = 0
	s.stats.Reset()
	if s.metrics != nil {
		s.metrics.updateSize(0, 0)
	}
	s.mu.Unlock()

	// Eviction callbacks run outside the lock to prevent deadlock.
	for _, ent := range evicted {
		s.evictFn(ent.id, ent.payload)
	}
}

// Size returns the current number of entries.
func (s *store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Keys returns all cached ids, next eviction candidate last.
func (s *store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.items))
	for element := s.order.Front(); element != nil; element = element.Next() {
		keys = append(keys, element.Value.(*entry).id)
	}
	return keys
}

// Stats returns a snapshot of cache statistics.
func (s *store) Stats() Summary {
	s.mu.Lock()
	size := len(s.items)
	memory := s.memory
	s.mu.Unlock()

	summary := s.stats.Summary()
	summary.Size = size
	summary.MemoryUsage = memory
	return summary
}

// Close releases resources. The store has no background goroutines.
func (s *store) Close() error {
	return nil
}

// evictOne removes the current eviction candidate (list back). Returns false
// when the cache is already empty.
// Must be called with mutex held.
func (s *store) evictOne() bool {
	element := s.order.Back()
	if element == nil {
		return false
	}

	ent := element.Value.(*entry)
	s.removeElement(element)

	s.stats.Eviction()
	if s.metrics != nil {
		s.metrics.recordEviction()
	}

	if s.evictFn != nil {
		// Temporarily release the lock for the callback.
		s.mu.Unlock()
		s.evictFn(ent.id, ent.payload)
		s.mu.Lock()
	}
	return true
}

// removeElement removes an element from both the list and map and adjusts the
// memory accounting. Must be called with mutex held.
func (s *store) removeElement(element *list.Element) {
	ent := element.Value.(*entry)
	delete(s.items, ent.id)
	s.order.Remove(element)
	s.memory -= ent.size
}

// recordMiss tracks a miss in stats and metrics. Must be called with mutex held.
func (s *store) recordMiss() {
	s.stats.Miss()
	if s.metrics != nil {
		s.metrics.recordMiss()
	}
}

// afterWrite updates write accounting. Must be called with mutex held.
func (s *store) afterWrite() {
	s.stats.Set()
	s.syncSizeStats()
	if s.metrics != nil {
		s.metrics.recordSet()
		s.metrics.updateSize(len(s.items), s.memory)
	}
}

// syncSizeStats pushes current size/memory into the statistics tracker.
// Must be called with mutex held.
func (s *store) syncSizeStats() {
	s.stats.UpdateSize(int64(len(s.items)))
	s.stats.UpdateMemoryUsage(s.memory)
}

// ctxSleep pauses for d or until the context is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
