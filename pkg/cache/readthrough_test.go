package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordkit/contentgrid/content"
)

// countingSource records fetches and optionally fails specific ids.
type countingSource struct {
	mu      sync.Mutex
	fetches map[string]int
	fail    map[string]error
}

func newCountingSource() *countingSource {
	return &countingSource{
		fetches: make(map[string]int),
		fail:    make(map[string]error),
	}
}

func (s *countingSource) Fetch(_ context.Context, id string) (content.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[id]++
	if err, ok := s.fail[id]; ok {
		return content.Payload{}, err
	}
	return content.Text("content-"+id, ""), nil
}

func (s *countingSource) count(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[id]
}

func TestGetContentFetchesOnce(t *testing.T) {
	c := newTestCache(t, nil)
	source := newCountingSource()

	payload, err := c.GetContent(context.Background(), "insc-1", source)
	require.NoError(t, err)
	assert.Equal(t, "content-insc-1", payload.Text)

	payload, err = c.GetContent(context.Background(), "insc-1", source)
	require.NoError(t, err)
	assert.Equal(t, "content-insc-1", payload.Text)

	assert.Equal(t, 1, source.count("insc-1"), "second read should be served from cache")

	summary := c.Stats()
	assert.Equal(t, int64(1), summary.Hits)
	assert.Equal(t, int64(1), summary.Misses)
}

func TestGetContentErrorNotCached(t *testing.T) {
	c := newTestCache(t, nil)
	source := newCountingSource()
	source.fail["bad"] = fmt.Errorf("connection refused")

	_, err := c.GetContent(context.Background(), "bad", source)
	require.Error(t, err)
	assert.False(t, c.Contains("bad"), "failed fetch must not be cached")

	// A retry reaches the source again.
	_, err = c.GetContent(context.Background(), "bad", source)
	require.Error(t, err)
	assert.Equal(t, 2, source.count("bad"))
}

func TestPreloadSkipsCached(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) { cfg.PreloadPause = 0 })
	source := newCountingSource()

	_, err := c.Set("a", content.Text("already here", ""))
	require.NoError(t, err)

	c.Preload(context.Background(), []string{"a", "b", "c"}, source)

	assert.Zero(t, source.count("a"), "cached id should not be refetched")
	assert.Equal(t, 1, source.count("b"))
	assert.Equal(t, 1, source.count("c"))
	assert.Equal(t, 3, c.Size())
}

func TestPreloadDeduplicatesIDs(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) { cfg.PreloadPause = 0 })
	source := newCountingSource()

	c.Preload(context.Background(), []string{"a", "a", "", "b", "a"}, source)

	assert.Equal(t, 1, source.count("a"))
	assert.Equal(t, 1, source.count("b"))
	assert.Equal(t, 2, c.Size())
}

func TestPreloadContinuesPastFailures(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) { cfg.PreloadPause = 0 })
	source := newCountingSource()
	source.fail["b"] = fmt.Errorf("not found")

	c.Preload(context.Background(), []string{"a", "b", "c"}, source)

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"), "failed id stays uncached")
	assert.True(t, c.Contains("c"))
}

func TestPreloadBatchesSequentially(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) {
		cfg.PreloadBatchSize = 2
		cfg.PreloadPause = 10 * time.Millisecond
	})
	source := newCountingSource()

	ids := []string{"a", "b", "c", "d", "e"}
	start := time.Now()
	c.Preload(context.Background(), ids, source)
	elapsed := time.Since(start)

	for _, id := range ids {
		assert.Equal(t, 1, source.count(id))
	}
	// 5 ids in batches of 2 means two inter-batch pauses.
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestPreloadHonorsCancellation(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) {
		cfg.PreloadBatchSize = 1
		cfg.PreloadPause = 5 * time.Millisecond
	})
	source := newCountingSource()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Preload(ctx, []string{"a", "b", "c"}, source)

	// The first batch may have been dispatched before the cancellation check,
	// but preload must stop pausing and walking batches once cancelled.
	assert.LessOrEqual(t, c.Size(), 1)
}

func TestDisabledCacheGetContent(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) { cfg.Enabled = false })
	source := newCountingSource()

	for i := 0; i < 3; i++ {
		payload, err := c.GetContent(context.Background(), "a", source)
		require.NoError(t, err)
		assert.Equal(t, "content-a", payload.Text)
	}
	assert.Equal(t, 3, source.count("a"), "disabled cache fetches every time")
}
