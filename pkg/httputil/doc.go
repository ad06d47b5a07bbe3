// Package httputil provides HTTP utilities for package index clients.
//
// # Retry
//
// [Retry] wraps an operation with retries for transient failures. Only
// errors wrapped in [RetryableError] are retried:
//
//   - Network errors
//   - 5xx server errors
//
// The delay doubles after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.Get(ctx, url, &v)
//	})
//
// deplic drops a failed lookup for the rest of the run by default, so
// callers pass a single attempt unless the user opts into retries with
// --retries.
package httputil
