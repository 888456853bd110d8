// Package contentgrid provides the caching and prefetch engine behind an
// inscription content gallery: an in-memory eviction cache, a
// concurrency-bounded batch fetcher, a sliding-window performance monitor, and
// virtual-scroll windowing, wired together by a gallery orchestrator.
//
// # Architecture
//
// The module is a library of small, composable packages. Leaves first:
//
//	┌─────────────────────────────────────┐
//	│           Gallery                   │  Orchestration: one cache,
//	│         (gallery)                   │  fetcher, windower, monitor
//	└─────────────────────────────────────┘  per instance
//	           ↓ composes
//	┌──────────┬──────────┬───────────────┐
//	│ pkg/cache│ pkg/fetch│  pkg/scroll   │  Eviction cache, batch
//	│          │          │  pkg/monitor  │  fetcher, windowing, stats
//	└──────────┴──────────┴───────────────┘
//	           ↓ built on
//	┌─────────────────────────────────────┐
//	│  content, errors, metric, config    │  Payload model, classified
//	│            pkg/retry                │  errors, Prometheus, backoff
//	└─────────────────────────────────────┘
//
// Data flows from an ordered list of inscription ids: the scroll windower
// computes visible and prefetch index ranges as the viewport moves, the gallery
// issues batch fetches for prefetch-range ids that miss the cache, fetch
// results populate the cache, and the monitor records an event for every fetch,
// hit and miss so callers can read aggregate statistics.
//
// # Ownership
//
// Nothing in this module is a process-wide singleton. Every cache, fetcher,
// monitor and windower is explicitly constructed and owned by its gallery (or
// by the caller directly); lifecycle is tied to the owner's Close.
//
// # Content sources
//
// The engine is agnostic to where content comes from. Callers supply a
// content.Source - any function or type that can resolve an inscription id to a
// typed payload - and the engine handles scheduling, retries, caching and
// accounting around it.
package contentgrid
