package monitor

import "time"

// EventType tags a performance event.
type EventType string

const (
	// EventLoadStart marks the beginning of a content fetch.
	EventLoadStart EventType = "load_start"

	// EventLoadComplete marks a successful fetch, carrying its duration and
	// payload size.
	EventLoadComplete EventType = "load_complete"

	// EventLoadError marks a failed fetch, carrying the error.
	EventLoadError EventType = "load_error"

	// EventCacheHit marks a cache read served from memory.
	EventCacheHit EventType = "cache_hit"

	// EventCacheMiss marks a cache read that fell through to the source.
	EventCacheMiss EventType = "cache_miss"
)

// Event is one timestamped performance record. Duration and Size are only
// meaningful for EventLoadComplete, Err only for EventLoadError.
type Event struct {
	Type      EventType
	ID        string
	Timestamp time.Time
	Duration  time.Duration
	Size      int64
	Err       error
}
