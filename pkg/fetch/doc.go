// Package fetch provides the concurrency-bounded batch fetcher that feeds the
// content cache.
//
// FetchBatch splits the caller's requests into fixed-size batches processed
// strictly in order, with a configurable delay between batches so a
// rate-limited upstream (an ordinals content endpoint) is never burst. Within
// one batch, requests race concurrently up to a semaphore-enforced permit
// count. Every attempt races the fetch operation against a per-attempt
// timeout; on timeout or error the fetcher waits RetryDelay multiplied by the
// attempt number before retrying, up to RetryAttempts total attempts.
//
// Failure semantics: a request exhausting its retries never aborts its
// siblings or the batch. FetchBatch always returns a complete partition of
// the input ids across the Successful and Failed maps, including when the
// caller's context is cancelled mid-batch.
//
// ActiveRequests and QueueSize expose mid-flight ids and the not-yet-started
// count for observability; each batch carries a uuid correlation id that
// appears in log lines.
package fetch
