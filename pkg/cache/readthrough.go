package cache

import (
	"context"

	"github.com/ordkit/contentgrid/content"
	"github.com/ordkit/contentgrid/errors"
)

// GetContent is the read-through path: cached payloads are returned
// immediately; misses fetch from source, store the result and return it. A
// fetch error propagates to the caller and nothing is cached.
func (s *store) GetContent(ctx context.Context, id string, source content.Source) (content.Payload, error) {
	if payload, ok := s.Get(id); ok {
		return payload, nil
	}

	payload, err := source.Fetch(ctx, id)
	if err != nil {
		return content.Payload{}, errors.WrapTransient(err, "cache", "GetContent", "content fetch")
	}

	if _, err := s.Set(id, payload); err != nil {
		// Storing failed (e.g. empty id slipped through); the fetched payload
		// is still good, so hand it back.
		s.logger.Warn("failed to cache fetched content", "id", id, "error", err)
	}
	return payload, nil
}

// Preload warms the cache for ids not already present. Ids are driven through
// the read-through path in fixed-size sequential batches with a pause between
// batches, so the underlying source is never burst. Per-item failures are
// logged and skipped; preload never surfaces an error.
func (s *store) Preload(ctx context.Context, ids []string, source content.Source) {
	uncached := make([]string, 0, len(ids))
	for _, id := range content.NormalizeIDs(ids) {
		if !s.Contains(id) {
			uncached = append(uncached, id)
		}
	}
	if len(uncached) == 0 {
		return
	}

	batchSize := s.cfg.PreloadBatchSize
	for start := 0; start < len(uncached); start += batchSize {
		if ctx.Err() != nil {
			s.logger.Debug("preload cancelled", "remaining", len(uncached)-start)
			return
		}

		end := start + batchSize
		if end > len(uncached) {
			end = len(uncached)
		}

		for _, id := range uncached[start:end] {
			if _, err := s.GetContent(ctx, id, source); err != nil {
				s.logger.Warn("preload fetch failed", "id", id, "error", err)
			}
		}

		if end < len(uncached) {
			s.sleep(ctx, s.cfg.PreloadPause)
		}
	}
}
