package scroll

import (
	"fmt"
	"math"

	"github.com/ordkit/contentgrid/errors"
)

// Config describes the viewport geometry for windowing calculations.
type Config struct {
	// ItemHeight is the fixed pixel height of one rendered item.
	ItemHeight int `json:"item_height" yaml:"item_height"`

	// ContainerHeight is the pixel height of the scrolling viewport.
	ContainerHeight int `json:"container_height" yaml:"container_height"`

	// Overscan widens the visible range by this many items on each side.
	Overscan int `json:"overscan" yaml:"overscan"`

	// PrefetchDistance widens the prefetch range; it should exceed Overscan
	// so content is fetched before it scrolls into view.
	PrefetchDistance int `json:"prefetch_distance" yaml:"prefetch_distance"`

	// Enabled selects the virtualized path. When false, windowing is the
	// identity: everything is visible.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// DefaultConfig returns a default windowing configuration.
func DefaultConfig() Config {
	return Config{
		ItemHeight:       300,
		ContainerHeight:  600,
		Overscan:         5,
		PrefetchDistance: 10,
		Enabled:          true,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ItemHeight <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "scroll", "Validate",
			fmt.Sprintf("item_height must be positive, got %d", c.ItemHeight))
	}
	if c.ContainerHeight < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "scroll", "Validate",
			fmt.Sprintf("container_height cannot be negative, got %d", c.ContainerHeight))
	}
	if c.Overscan < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "scroll", "Validate",
			fmt.Sprintf("overscan cannot be negative, got %d", c.Overscan))
	}
	if c.PrefetchDistance < 0 {
		return errors.WrapInvalid(errors.ErrInvalidData, "scroll", "Validate",
			fmt.Sprintf("prefetch_distance cannot be negative, got %d", c.PrefetchDistance))
	}
	return nil
}

// Range is an inclusive index interval. A range with End < Start is empty.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// emptyRange marks "no items" without overlapping any valid index pair.
var emptyRange = Range{Start: 0, End: -1}

// IsEmpty reports whether the range covers no indices.
func (r Range) IsEmpty() bool {
	return r.End < r.Start
}

// Len returns the number of indices covered.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Window is the result of one windowing computation.
type Window struct {
	// Visible is the index range to render.
	Visible Range `json:"visible"`

	// Prefetch is the wider index range to warm ahead of scrolling.
	Prefetch Range `json:"prefetch"`

	// TotalHeight is the full scrollable content height in pixels.
	TotalHeight int `json:"total_height"`
}

// Compute derives the visible and prefetch index ranges for a viewport
// scrolled to scrollTop over itemCount fixed-height items. It is a pure
// function: degenerate inputs yield empty ranges, never panics.
func Compute(itemCount, scrollTop int, cfg Config) Window {
	if itemCount <= 0 {
		return Window{Visible: emptyRange, Prefetch: emptyRange}
	}

	if !cfg.Enabled {
		all := Range{Start: 0, End: itemCount - 1}
		return Window{
			Visible:     all,
			Prefetch:    all,
			TotalHeight: itemCount * cfg.ItemHeight,
		}
	}

	if scrollTop < 0 {
		scrollTop = 0
	}

	return Window{
		Visible:     rangeFor(itemCount, scrollTop, cfg, cfg.Overscan),
		Prefetch:    rangeFor(itemCount, scrollTop, cfg, cfg.PrefetchDistance),
		TotalHeight: itemCount * cfg.ItemHeight,
	}
}

// rangeFor applies the windowing formula with the given margin:
// start = max(0, floor(scrollTop/itemHeight) - margin),
// end = min(itemCount-1, ceil((scrollTop+containerHeight)/itemHeight) + margin).
func rangeFor(itemCount, scrollTop int, cfg Config, margin int) Range {
	start := scrollTop/cfg.ItemHeight - margin
	if start < 0 {
		start = 0
	}

	bottom := float64(scrollTop+cfg.ContainerHeight) / float64(cfg.ItemHeight)
	end := int(math.Ceil(bottom)) + margin
	if end > itemCount-1 {
		end = itemCount - 1
	}

	return Range{Start: start, End: end}
}
