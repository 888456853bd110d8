// Package errors provides standardized error handling patterns for contentgrid.
//
// # Error Classification
//
// Errors are classified into three categories that drive handling policy:
//
//   - Transient: temporary failures (timeouts, rate limits, source outages)
//     that the batch fetcher may retry.
//   - Invalid: malformed input or configuration; retrying cannot help.
//   - Fatal: unrecoverable conditions that should stop processing.
//
// Classification is carried by ClassifiedError and read back with IsTransient,
// IsInvalid, IsFatal, or Classify. Unclassified errors default to transient so
// the retry path gets a chance.
//
// # Wrapping
//
// All cross-package errors follow the "component.method: action failed: %w"
// pattern via Wrap and the classified variants WrapTransient, WrapInvalid and
// WrapFatal:
//
//	if err := source.Fetch(ctx, id); err != nil {
//		return errors.WrapTransient(err, "fetcher", "FetchBatch", "content fetch")
//	}
//
// The performance monitor uses Classify to group error counts by kind.
package errors
