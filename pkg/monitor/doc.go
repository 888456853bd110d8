// Package monitor records content-load performance events in a bounded ring
// buffer and computes rolling aggregate statistics over a trailing time
// window.
//
// Events are one of load_start, load_complete, load_error, cache_hit and
// cache_miss. The buffer holds the most recent DefaultCapacity events; older
// events roll off silently, which bounds memory at the cost of accuracy for
// windows that reach past the buffer.
//
// Metrics(window) filters to the trailing window and reports cache hit rate,
// error rate, average and p95/p99 load durations, bytes transferred, error
// counts grouped by classified kind and an approximate requests-per-second
// figure. Export returns a snapshot of the retained events for external
// analysis.
package monitor
