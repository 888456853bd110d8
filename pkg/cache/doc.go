// Package cache provides the thread-safe content cache at the heart of
// contentgrid, with configurable eviction, lazy TTL expiration, built-in
// statistics and optional Prometheus metrics.
//
// # Eviction Strategies
//
// Two strategies are supported, selected by Config.Strategy:
//
//   - LRU: a hit refreshes recency; the entry with the globally oldest access
//     is evicted first.
//   - FIFO: access recency is ignored; the entry inserted earliest is evicted
//     first, even if it was just read.
//
// Eviction happens before an insert would exceed MaxSize (evict-then-insert),
// so Size() <= MaxSize holds at every observable point.
//
// # Expiration
//
// Expiration is lazy: an entry older than the configured TTL is treated as
// absent by the next read that touches it, at which point it is deleted and
// counted as a miss. There is no background janitor; the cache fronts a
// scrolling gallery whose reads sweep the hot set constantly, so lazy removal
// keeps memory bounded without a goroutine per cache.
//
// # Read-Through and Preload
//
// GetContent(ctx, id, source) returns the cached payload on a hit, and
// otherwise fetches from the supplied content.Source, stores the result and
// returns it; fetch errors propagate and nothing is cached. Preload warms a
// set of ids best-effort, in small sequential batches with a pause between
// them so the source is never burst; individual failures are logged and
// skipped.
//
// # Observability
//
// Statistics (hits, misses, evictions, expirations, size, estimated memory)
// are always collected. Attach a metric.MetricsRegistry via WithMetrics to
// additionally export them as Prometheus metrics.
package cache
