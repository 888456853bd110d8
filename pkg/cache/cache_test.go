package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordkit/contentgrid/content"
)

// fakeClock is a controllable time source for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T, mutate func(*Config), options ...Option) Cache {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := New(cfg, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "default config is valid",
			mutate: nil,
		},
		{
			name:   "fifo strategy is valid",
			mutate: func(c *Config) { c.Strategy = StrategyFIFO },
		},
		{
			name:   "zero ttl disables expiration",
			mutate: func(c *Config) { c.TTL = 0 },
		},
		{
			name:    "zero max size rejected",
			mutate:  func(c *Config) { c.MaxSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative max size rejected",
			mutate:  func(c *Config) { c.MaxSize = -5 },
			wantErr: true,
		},
		{
			name:    "unknown strategy rejected",
			mutate:  func(c *Config) { c.Strategy = "mru" },
			wantErr: true,
		},
		{
			name:    "negative ttl rejected",
			mutate:  func(c *Config) { c.TTL = -time.Second },
			wantErr: true,
		},
		{
			name:   "disabled config skips validation",
			mutate: func(c *Config) { c.Enabled = false; c.MaxSize = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBasicGetSet(t *testing.T) {
	c := newTestCache(t, nil)

	_, ok := c.Get("insc-1")
	assert.False(t, ok, "empty cache should miss")

	created, err := c.Set("insc-1", content.Text("hello", ""))
	require.NoError(t, err)
	assert.True(t, created)

	payload, ok := c.Get("insc-1")
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Text)
	assert.Equal(t, 1, c.Size())
}

func TestSetEmptyID(t *testing.T) {
	c := newTestCache(t, nil)

	_, err := c.Set("", content.Text("x", ""))
	assert.Error(t, err)
	assert.Equal(t, 0, c.Size())
}

func TestSetOverwrite(t *testing.T) {
	c := newTestCache(t, nil)

	created, err := c.Set("a", content.Text("one", ""))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.Set("a", content.Text("two", ""))
	require.NoError(t, err)
	assert.False(t, created, "overwrite should not report a new entry")

	payload, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "two", payload.Text)
	assert.Equal(t, 1, c.Size())
}

func TestCapacityNeverExceeded(t *testing.T) {
	const maxSize = 3
	c := newTestCache(t, func(cfg *Config) { cfg.MaxSize = maxSize })

	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, id := range ids {
		_, err := c.Set(id, content.Text(id, ""))
		require.NoError(t, err)
		assert.LessOrEqual(t, c.Size(), maxSize)
	}
	assert.Equal(t, maxSize, c.Size())
	assert.Equal(t, int64(len(ids)-maxSize), c.Stats().Evictions)
}

func TestLRUEvictionOrder(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) {
		cfg.Strategy = StrategyLRU
		cfg.MaxSize = 2
	})

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)
	_, err = c.Set("b", content.Text("b", ""))
	require.NoError(t, err)

	// Touch a so b becomes the least recently used.
	_, ok := c.Get("a")
	require.True(t, ok)

	_, err = c.Set("c", content.Text("c", ""))
	require.NoError(t, err)

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"), "b was least recently used and should be gone")
	assert.True(t, c.Contains("c"))
}

func TestFIFOEvictionOrder(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) {
		cfg.Strategy = StrategyFIFO
		cfg.MaxSize = 2
	})

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)
	_, err = c.Set("b", content.Text("b", ""))
	require.NoError(t, err)

	// Under FIFO the read does not refresh a's position.
	_, ok := c.Get("a")
	require.True(t, ok)

	_, err = c.Set("c", content.Text("c", ""))
	require.NoError(t, err)

	assert.False(t, c.Contains("a"), "a was inserted first and should be gone")
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestFIFOOverwriteKeepsPosition(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) {
		cfg.Strategy = StrategyFIFO
		cfg.MaxSize = 2
	})

	_, err := c.Set("a", content.Text("a1", ""))
	require.NoError(t, err)
	_, err = c.Set("b", content.Text("b", ""))
	require.NoError(t, err)

	// Overwriting a must not refresh its insertion position.
	_, err = c.Set("a", content.Text("a2", ""))
	require.NoError(t, err)

	_, err = c.Set("c", content.Text("c", ""))
	require.NoError(t, err)

	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestTTLExpiration(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, func(cfg *Config) {
		cfg.TTL = time.Minute
	}, WithClock(clock.Now))

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry within TTL should hit")

	clock.Advance(31 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry past TTL should miss")
	assert.Equal(t, 0, c.Size(), "expired entry should be removed on detection")

	summary := c.Stats()
	assert.Equal(t, int64(1), summary.Expirations)
	assert.Equal(t, int64(1), summary.Hits)
	assert.Equal(t, int64(1), summary.Misses)
}

func TestTTLRefreshedOnOverwrite(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, func(cfg *Config) {
		cfg.TTL = time.Minute
	}, WithClock(clock.Now))

	_, err := c.Set("a", content.Text("old", ""))
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = c.Set("a", content.Text("new", ""))
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	payload, ok := c.Get("a")
	require.True(t, ok, "overwrite should restart the TTL window")
	assert.Equal(t, "new", payload.Text)
}

func TestContainsDoesNotTouchStats(t *testing.T) {
	c := newTestCache(t, nil)

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("nope"))

	summary := c.Stats()
	assert.Zero(t, summary.Hits)
	assert.Zero(t, summary.Misses)
}

func TestHitRate(t *testing.T) {
	c := newTestCache(t, nil)

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)

	// 3 hits, 1 miss.
	for i := 0; i < 3; i++ {
		_, ok := c.Get("a")
		require.True(t, ok)
	}
	_, ok := c.Get("missing")
	require.False(t, ok)

	summary := c.Stats()
	assert.Equal(t, int64(3), summary.Hits)
	assert.Equal(t, int64(1), summary.Misses)
	assert.InDelta(t, 0.75, summary.HitRate, 0.0001)
}

func TestHitRateEmptyCache(t *testing.T) {
	c := newTestCache(t, nil)
	assert.Zero(t, c.Stats().HitRate)
}

func TestClearResetsCounters(t *testing.T) {
	c := newTestCache(t, nil)

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	c.Clear()

	assert.Equal(t, 0, c.Size())
	summary := c.Stats()
	assert.Zero(t, summary.Hits)
	assert.Zero(t, summary.Misses)
	assert.Zero(t, summary.MemoryUsage)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t, nil)

	_, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"), "second delete should report absence")
	assert.Equal(t, 0, c.Size())
}

func TestKeysEvictionOrder(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) {
		cfg.Strategy = StrategyLRU
		cfg.MaxSize = 3
	})

	for _, id := range []string{"a", "b", "c"} {
		_, err := c.Set(id, content.Text(id, ""))
		require.NoError(t, err)
	}
	// a becomes most recent, so b is now the oldest unread after it.
	_, _ = c.Get("a")

	keys := c.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "a", keys[0], "most recently used first")
	assert.Equal(t, "b", keys[len(keys)-1], "next eviction candidate last")
}

func TestMemoryUsageTracking(t *testing.T) {
	c := newTestCache(t, nil)

	_, err := c.Set("a", content.Text("hello", "")) // 2 * 5 = 10
	require.NoError(t, err)
	_, err = c.Set("b", content.Binary([]byte{1, 2, 3}, "")) // exact = 3
	require.NoError(t, err)

	assert.Equal(t, int64(13), c.Stats().MemoryUsage)

	c.Delete("a")
	assert.Equal(t, int64(3), c.Stats().MemoryUsage)
}

func TestEvictionCallback(t *testing.T) {
	var mu sync.Mutex
	var evicted []string

	c := newTestCache(t, func(cfg *Config) {
		cfg.MaxSize = 2
	}, WithEvictionCallback(func(id string, _ content.Payload) {
		mu.Lock()
		evicted = append(evicted, id)
		mu.Unlock()
	}))

	for _, id := range []string{"a", "b", "c"} {
		_, err := c.Set(id, content.Text(id, ""))
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a"}, evicted)
}

func TestDisabledCache(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) { cfg.Enabled = false })

	created, err := c.Set("a", content.Text("a", ""))
	require.NoError(t, err)
	assert.False(t, created)

	_, ok := c.Get("a")
	assert.False(t, ok, "disabled cache never stores")
	assert.Equal(t, 0, c.Size())
}

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t, func(cfg *Config) { cfg.MaxSize = 50 })

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			ids := []string{"a", "b", "c", "d", "e"}
			for i := 0; i < 200; i++ {
				id := ids[(g+i)%len(ids)]
				_, _ = c.Set(id, content.Text(id, ""))
				_, _ = c.Get(id)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 50)
	summary := c.Stats()
	assert.Positive(t, summary.Hits+summary.Misses)
}
