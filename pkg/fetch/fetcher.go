package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/ordkit/contentgrid/content"
	"github.com/ordkit/contentgrid/errors"
	"github.com/ordkit/contentgrid/pkg/retry"
)

// Request is one unit of work for the batch fetcher: an inscription id, an
// optional priority (higher is served first when priority ordering is
// enabled) and the fetch operation producing its payload.
type Request struct {
	ID       string
	Priority int
	Fetch    func(ctx context.Context) (content.Payload, error)
}

// Stats holds aggregate statistics for one FetchBatch call.
type Stats struct {
	TotalRequests   int           `json:"total_requests"`
	SuccessCount    int           `json:"success_count"`
	FailureCount    int           `json:"failure_count"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	TotalTime       time.Duration `json:"total_time"`
}

// Result is the complete partition of a batch: every requested id lands in
// exactly one of Successful or Failed once it reaches a terminal state.
type Result struct {
	// BatchID correlates log lines and metrics for one FetchBatch call.
	BatchID    string
	Successful map[string]content.Payload
	Failed     map[string]error
	Stats      Stats
}

// Fetcher executes batches of content requests with bounded concurrency,
// per-attempt timeouts and linear-backoff retries. A single Fetcher is safe
// for concurrent use.
type Fetcher struct {
	cfg     Config
	logger  *slog.Logger
	metrics *fetcherMetrics
	sleep   func(ctx context.Context, d time.Duration)

	mu     sync.Mutex
	active map[string]struct{}
	queued int
}

// New creates a batch fetcher from the provided configuration.
func New(cfg Config, options ...Option) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "fetch", "New", "config validation")
	}

	opts := applyOptions(options...)

	var metrics *fetcherMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newFetcherMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "fetch", "New", "metrics registration")
		}
	}

	return &Fetcher{
		cfg:     cfg,
		logger:  opts.logger.With("component", "fetch"),
		metrics: metrics,
		sleep:   ctxSleep,
		active:  make(map[string]struct{}),
	}, nil
}

// FetchBatch executes all requests and returns a complete successful/failed
// partition. Requests are split into fixed-size batches processed strictly in
// order with an inter-batch delay; within a batch, requests run concurrently
// up to MaxConcurrency permits. A single request exhausting its retries never
// aborts the batch. If ctx is cancelled, requests that have not reached a
// terminal state land in Failed with the cancellation error.
func (f *Fetcher) FetchBatch(ctx context.Context, requests []Request) *Result {
	start := time.Now()
	result := &Result{
		BatchID:    uuid.NewString(),
		Successful: make(map[string]content.Payload, len(requests)),
		Failed:     make(map[string]error),
	}
	result.Stats.TotalRequests = len(requests)
	if len(requests) == 0 {
		return result
	}

	ordered := make([]Request, len(requests))
	copy(ordered, requests)
	if f.cfg.PriorityQueue {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Priority > ordered[j].Priority
		})
	}

	f.addQueued(len(ordered))
	f.logger.Debug("batch fetch starting",
		"batch_id", result.BatchID,
		"requests", len(ordered),
		"batch_size", f.cfg.BatchSize)

	sem := semaphore.NewWeighted(int64(f.cfg.MaxConcurrency))
	var resMu sync.Mutex
	var successTotal time.Duration

	for batchStart := 0; batchStart < len(ordered); batchStart += f.cfg.BatchSize {
		if batchStart > 0 {
			f.sleep(ctx, f.cfg.InterBatchDelay)
		}

		if ctx.Err() != nil {
			// Everything not yet started reaches its terminal state here.
			for _, req := range ordered[batchStart:] {
				f.dropQueued(1)
				resMu.Lock()
				delete(result.Successful, req.ID)
				result.Failed[req.ID] = ctx.Err()
				resMu.Unlock()
			}
			break
		}

		batchEnd := batchStart + f.cfg.BatchSize
		if batchEnd > len(ordered) {
			batchEnd = len(ordered)
		}

		var wg sync.WaitGroup
		for _, req := range ordered[batchStart:batchEnd] {
			wg.Add(1)
			go func(req Request) {
				defer wg.Done()

				if err := sem.Acquire(ctx, 1); err != nil {
					f.dropQueued(1)
					resMu.Lock()
					delete(result.Successful, req.ID)
					result.Failed[req.ID] = err
					resMu.Unlock()
					return
				}
				defer sem.Release(1)

				f.markActive(req.ID)
				payload, elapsed, err := f.fetchWithRetry(ctx, req)
				f.markDone(req.ID)

				resMu.Lock()
				if err != nil {
					delete(result.Successful, req.ID)
					result.Failed[req.ID] = err
				} else {
					// Duplicate ids are not coalesced; the last terminal
					// state wins.
					delete(result.Failed, req.ID)
					result.Successful[req.ID] = payload
					successTotal += elapsed
				}
				resMu.Unlock()

				if f.metrics != nil {
					f.metrics.recordRequest(err == nil, elapsed)
				}
			}(req)
		}
		wg.Wait()
	}

	result.Stats.SuccessCount = len(result.Successful)
	result.Stats.FailureCount = len(result.Failed)
	if result.Stats.SuccessCount > 0 {
		result.Stats.AvgResponseTime = successTotal / time.Duration(result.Stats.SuccessCount)
	}
	result.Stats.TotalTime = time.Since(start)

	f.logger.Debug("batch fetch finished",
		"batch_id", result.BatchID,
		"successful", result.Stats.SuccessCount,
		"failed", result.Stats.FailureCount,
		"total_time", result.Stats.TotalTime)

	return result
}

// fetchWithRetry drives one request through its retry budget. It returns the
// payload and the wall-clock duration of the successful attempt.
func (f *Fetcher) fetchWithRetry(ctx context.Context, req Request) (content.Payload, time.Duration, error) {
	var payload content.Payload
	var elapsed time.Duration

	retryCfg := retry.Linear(f.cfg.RetryAttempts, f.cfg.RetryDelay)
	err := retry.Do(ctx, retryCfg, func() error {
		attemptStart := time.Now()
		p, attemptErr := f.attempt(ctx, req)
		if attemptErr != nil {
			f.logger.Debug("fetch attempt failed", "id", req.ID, "error", attemptErr)
			return attemptErr
		}
		payload = p
		elapsed = time.Since(attemptStart)
		return nil
	})
	if err != nil {
		return content.Payload{}, 0, errors.WrapTransient(err, "fetch", "fetchWithRetry",
			fmt.Sprintf("id %s exhausted retries", req.ID))
	}
	return payload, elapsed, nil
}

// attempt races one fetch invocation against the per-attempt timeout. The
// fetch goroutine is not interrupted when it loses the race; its late result
// lands in a buffered channel and is discarded.
func (f *Fetcher) attempt(ctx context.Context, req Request) (content.Payload, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	type outcome struct {
		payload content.Payload
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		p, err := req.Fetch(attemptCtx)
		done <- outcome{payload: p, err: err}
	}()

	select {
	case out := <-done:
		return out.payload, out.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// Parent cancellation is terminal, not worth retrying.
			return content.Payload{}, retry.NonRetryable(ctx.Err())
		}
		return content.Payload{}, errors.WrapTransient(errors.ErrFetchTimeout, "fetch", "attempt",
			fmt.Sprintf("id %s timed out after %v", req.ID, f.cfg.Timeout))
	}
}

// ActiveRequests returns the ids currently mid-flight.
func (f *Fetcher) ActiveRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.active))
	for id := range f.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// QueueSize returns the number of accepted requests not yet started.
func (f *Fetcher) QueueSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queued
}

func (f *Fetcher) addQueued(n int) {
	f.mu.Lock()
	f.queued += n
	active, queued := len(f.active), f.queued
	f.mu.Unlock()
	if f.metrics != nil {
		f.metrics.updateGauges(active, queued)
	}
}

func (f *Fetcher) dropQueued(n int) {
	f.mu.Lock()
	f.queued -= n
	f.mu.Unlock()
}

func (f *Fetcher) markActive(id string) {
	f.mu.Lock()
	f.queued--
	f.active[id] = struct{}{}
	active, queued := len(f.active), f.queued
	f.mu.Unlock()
	if f.metrics != nil {
		f.metrics.updateGauges(active, queued)
	}
}

func (f *Fetcher) markDone(id string) {
	f.mu.Lock()
	delete(f.active, id)
	active, queued := len(f.active), f.queued
	f.mu.Unlock()
	if f.metrics != nil {
		f.metrics.updateGauges(active, queued)
	}
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
