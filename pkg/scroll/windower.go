package scroll

import (
	"sync"

	"github.com/ordkit/contentgrid/errors"
)

// PrefetchFunc receives the items inside the new prefetch range and the range
// bounds whenever the range changes.
type PrefetchFunc[T any] func(items []T, r Range)

// Windower tracks scroll state over an item list and invokes a prefetch
// callback whenever a scroll moves the prefetch range. It is the stateful
// integration point between the pure windowing math and the batch fetcher.
type Windower[T any] struct {
	mu         sync.Mutex
	cfg        Config
	items      []T
	prev       Range
	hasPrev    bool
	onPrefetch PrefetchFunc[T]
}

// NewWindower creates a windower. onPrefetch may be nil if the caller only
// wants the computed windows.
func NewWindower[T any](cfg Config, onPrefetch PrefetchFunc[T]) (*Windower[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "scroll", "NewWindower", "config validation")
	}
	return &Windower[T]{
		cfg:        cfg,
		onPrefetch: onPrefetch,
	}, nil
}

// SetItems replaces the tracked item list and forgets the previous prefetch
// range, so the next scroll always reports it as changed.
func (w *Windower[T]) SetItems(items []T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = items
	w.hasPrev = false
}

// Len returns the number of tracked items.
func (w *Windower[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Scroll recomputes the window for the new scrollTop. If the prefetch range
// differs from the previous scroll's, the prefetch callback fires with the
// items in the new range. The callback runs outside the windower's lock.
func (w *Windower[T]) Scroll(scrollTop int) Window {
	w.mu.Lock()
	window := Compute(len(w.items), scrollTop, w.cfg)

	changed := !w.hasPrev || window.Prefetch != w.prev
	w.prev = window.Prefetch
	w.hasPrev = true

	var prefetchItems []T
	fire := changed && w.onPrefetch != nil && !window.Prefetch.IsEmpty()
	if fire {
		prefetchItems = make([]T, window.Prefetch.Len())
		copy(prefetchItems, w.items[window.Prefetch.Start:window.Prefetch.End+1])
	}
	w.mu.Unlock()

	if fire {
		w.onPrefetch(prefetchItems, window.Prefetch)
	}
	return window
}

// VisibleItems returns a copy of the items inside the window's visible range.
func (w *Windower[T]) VisibleItems(window Window) []T {
	w.mu.Lock()
	defer w.mu.Unlock()

	r := window.Visible
	if r.IsEmpty() || r.Start >= len(w.items) {
		return nil
	}
	end := r.End
	if end > len(w.items)-1 {
		end = len(w.items) - 1
	}
	out := make([]T, end-r.Start+1)
	copy(out, w.items[r.Start:end+1])
	return out
}
