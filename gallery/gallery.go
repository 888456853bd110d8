// Package gallery wires the content cache, batch fetcher, scroll windower and
// performance monitor into one inscription gallery engine. Every Gallery owns
// its own component instances; nothing is shared process-wide.
package gallery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ordkit/contentgrid/config"
	"github.com/ordkit/contentgrid/content"
	"github.com/ordkit/contentgrid/errors"
	"github.com/ordkit/contentgrid/metric"
	"github.com/ordkit/contentgrid/pkg/cache"
	"github.com/ordkit/contentgrid/pkg/fetch"
	"github.com/ordkit/contentgrid/pkg/monitor"
	"github.com/ordkit/contentgrid/pkg/scroll"
)

// Cell is one grid position. Rows are padded with empty cells so the layout
// stays rectangular when the item count is not a multiple of the column count.
type Cell struct {
	ID    string `json:"id,omitempty"`
	Empty bool   `json:"empty,omitempty"`
}

// Stats aggregates the observable state of all components.
type Stats struct {
	Cache          cache.Summary  `json:"cache"`
	Performance    monitor.Report `json:"performance"`
	ActiveRequests []string       `json:"active_requests"`
	QueueSize      int            `json:"queue_size"`
	ItemCount      int            `json:"item_count"`
}

// Gallery orchestrates content loading for one inscription grid. Scroll
// updates drive background prefetches of the ids entering the prefetch
// window; every fetch, hit and miss lands in the performance monitor.
type Gallery struct {
	cfg     config.Config
	logger  *slog.Logger
	source  content.Source
	cache   cache.Cache
	fetcher *fetch.Fetcher
	wind    *scroll.Windower[string]
	perf    *monitor.Monitor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	window scroll.Window
	closed bool
}

// Option configures gallery construction.
type Option func(*galleryOptions)

type galleryOptions struct {
	logger     *slog.Logger
	metricsReg *metric.MetricsRegistry
}

// WithLogger sets the logger shared by the gallery and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *galleryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics exports component statistics through the given registry.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(o *galleryOptions) {
		o.metricsReg = registry
	}
}

// New creates a gallery for the given content source.
func New(cfg config.Config, source content.Source, options ...Option) (*Gallery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "gallery", "New", "config validation")
	}
	if source == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "gallery", "New", "nil content source")
	}

	opts := &galleryOptions{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	g := &Gallery{
		cfg:    cfg,
		logger: opts.logger.With("component", "gallery"),
		source: source,
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	var cacheOpts []cache.Option
	var fetchOpts []fetch.Option
	var monitorOpts []monitor.Option
	cacheOpts = append(cacheOpts, cache.WithLogger(opts.logger))
	fetchOpts = append(fetchOpts, fetch.WithLogger(opts.logger))
	monitorOpts = append(monitorOpts, monitor.WithLogger(opts.logger))
	if opts.metricsReg != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics(opts.metricsReg, "cache"))
		fetchOpts = append(fetchOpts, fetch.WithMetrics(opts.metricsReg, "fetch"))
		monitorOpts = append(monitorOpts, monitor.WithMetrics(opts.metricsReg, "monitor"))
	}

	var err error
	if g.cache, err = cache.New(cfg.Cache, cacheOpts...); err != nil {
		return nil, err
	}
	if g.fetcher, err = fetch.New(cfg.Fetcher, fetchOpts...); err != nil {
		return nil, err
	}
	g.perf = monitor.New(cfg.Monitor.Capacity, monitorOpts...)

	scrollCfg := cfg.Scroll
	if !cfg.Virtualized {
		scrollCfg.Enabled = false
	}
	if g.wind, err = scroll.NewWindower(scrollCfg, g.onPrefetchRange); err != nil {
		return nil, err
	}

	return g, nil
}

// SetItems replaces the gallery's ordered id list. Ids are deduplicated and
// empties dropped, preserving first-seen order.
func (g *Gallery) SetItems(ids []string) {
	normalized := content.NormalizeIDs(ids)
	g.wind.SetItems(normalized)

	g.mu.Lock()
	g.window = scroll.Window{}
	g.mu.Unlock()

	g.logger.Debug("items updated", "count", len(normalized))
}

// HandleScroll recomputes the window for the new scroll position. When the
// prefetch range moved, uncached ids in it are fetched in the background.
func (g *Gallery) HandleScroll(scrollTop int) scroll.Window {
	window := g.wind.Scroll(scrollTop)

	g.mu.Lock()
	g.window = window
	g.mu.Unlock()

	return window
}

// onPrefetchRange is the windower callback: it runs the actual prefetch on a
// background goroutine so scroll handling never blocks on I/O.
func (g *Gallery) onPrefetchRange(ids []string, r scroll.Range) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		g.prefetch(g.ctx, ids, r)
	}()
}

// prefetch records hit/miss bookkeeping for the range and batch-fetches the
// ids the cache does not hold. Successful payloads populate the cache.
func (g *Gallery) prefetch(ctx context.Context, ids []string, r scroll.Range) {
	uncached := make([]string, 0, len(ids))
	for _, id := range ids {
		if g.cache.Contains(id) {
			g.perf.Record(monitor.Event{Type: monitor.EventCacheHit, ID: id})
			continue
		}
		g.perf.Record(monitor.Event{Type: monitor.EventCacheMiss, ID: id})
		uncached = append(uncached, id)
	}
	if len(uncached) == 0 {
		return
	}

	g.logger.Debug("prefetching range",
		"start", r.Start, "end", r.End, "uncached", len(uncached))

	var durMu sync.Mutex
	durations := make(map[string]time.Duration, len(uncached))

	requests := make([]fetch.Request, 0, len(uncached))
	for _, id := range uncached {
		id := id // pre-Go 1.22 loop variable capture; required with the go 1.21 directive
		g.perf.Record(monitor.Event{Type: monitor.EventLoadStart, ID: id})
		requests = append(requests, fetch.Request{
			ID: id,
			Fetch: func(ctx context.Context) (content.Payload, error) {
				start := time.Now()
				payload, err := g.source.Fetch(ctx, id)
				if err == nil {
					durMu.Lock()
					durations[id] = time.Since(start)
					durMu.Unlock()
				}
				return payload, err
			},
		})
	}

	result := g.fetcher.FetchBatch(ctx, requests)

	for id, payload := range result.Successful {
		if _, err := g.cache.Set(id, payload); err != nil {
			g.logger.Warn("failed to cache prefetched content", "id", id, "error", err)
		}
		durMu.Lock()
		d := durations[id]
		durMu.Unlock()
		g.perf.Record(monitor.Event{
			Type:     monitor.EventLoadComplete,
			ID:       id,
			Duration: d,
			Size:     payload.EstimateSize(),
		})
	}
	for id, err := range result.Failed {
		g.perf.Record(monitor.Event{Type: monitor.EventLoadError, ID: id, Err: err})
		g.logger.Warn("prefetch failed", "id", id, "batch_id", result.BatchID, "error", err)
	}
}

// Content returns the payload for one id, fetching through the cache on a
// miss. Hit/miss and load events are recorded either way.
func (g *Gallery) Content(ctx context.Context, id string) (content.Payload, error) {
	if g.cache.Contains(id) {
		g.perf.Record(monitor.Event{Type: monitor.EventCacheHit, ID: id})
		if payload, ok := g.cache.Get(id); ok {
			return payload, nil
		}
	}

	g.perf.Record(monitor.Event{Type: monitor.EventCacheMiss, ID: id})
	g.perf.Record(monitor.Event{Type: monitor.EventLoadStart, ID: id})

	start := time.Now()
	payload, err := g.cache.GetContent(ctx, id, g.source)
	if err != nil {
		g.perf.Record(monitor.Event{Type: monitor.EventLoadError, ID: id, Err: err})
		return content.Payload{}, err
	}

	g.perf.Record(monitor.Event{
		Type:     monitor.EventLoadComplete,
		ID:       id,
		Duration: time.Since(start),
		Size:     payload.EstimateSize(),
	})
	return payload, nil
}

// Preload warms the cache for ids outside the scroll flow, e.g. a known
// above-the-fold set.
func (g *Gallery) Preload(ctx context.Context, ids []string) {
	g.cache.Preload(ctx, ids, g.source)
}

// Rows groups the currently visible items into rows of the configured column
// count. The last row is padded with empty cells to stay rectangular.
func (g *Gallery) Rows() [][]Cell {
	g.mu.Lock()
	window := g.window
	g.mu.Unlock()

	visible := g.wind.VisibleItems(window)
	if len(visible) == 0 {
		return nil
	}

	columns := g.cfg.Columns
	rows := make([][]Cell, 0, (len(visible)+columns-1)/columns)
	for start := 0; start < len(visible); start += columns {
		row := make([]Cell, columns)
		for i := 0; i < columns; i++ {
			if start+i < len(visible) {
				row[i] = Cell{ID: visible[start+i]}
			} else {
				row[i] = Cell{Empty: true}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Window returns the most recent scroll window.
func (g *Gallery) Window() scroll.Window {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.window
}

// Stats returns aggregated cache and performance statistics.
func (g *Gallery) Stats() Stats {
	return Stats{
		Cache:          g.cache.Stats(),
		Performance:    g.perf.Metrics(g.cfg.Monitor.Window),
		ActiveRequests: g.fetcher.ActiveRequests(),
		QueueSize:      g.fetcher.QueueSize(),
		ItemCount:      g.wind.Len(),
	}
}

// Wait blocks until all in-flight background prefetches finish.
func (g *Gallery) Wait() {
	g.wg.Wait()
}

// Close stops background work and releases the cache.
func (g *Gallery) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()

	g.cancel()
	g.wg.Wait()
	return g.cache.Close()
}
