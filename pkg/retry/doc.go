// Package retry provides backoff retry logic for contentgrid's fetch paths.
//
// Two growth strategies are supported:
//
//   - BackoffExponential: delay *= Multiplier after each failed attempt,
//     capped at MaxDelay, with optional jitter. Use for general transient
//     failures.
//   - BackoffLinear: delay = InitialDelay * attemptNumber. The batch fetcher
//     uses this against the rate-limited content API, where predictable
//     spacing matters more than rapid convergence.
//
// Errors wrapped with NonRetryable fail immediately without consuming the
// remaining attempts:
//
//	err := retry.Do(ctx, retry.Linear(3, 2*time.Second), func() error {
//		payload, err := source.Fetch(ctx, id)
//		if errors.IsInvalid(err) {
//			return retry.NonRetryable(err)
//		}
//		return err
//	})
package retry
