// Package scroll computes virtual-scroll windows: which items of a long list
// are visible in a fixed-height viewport, and which wider range should be
// prefetched ahead of the scroll direction.
//
// Compute is a pure function of the viewport geometry. Windower adds the one
// piece of state the integration needs: the previous prefetch range, so a
// registered callback fires exactly when scrolling moves the range.
package scroll
