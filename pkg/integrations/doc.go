// Package integrations provides the shared HTTP client used by package
// index clients.
//
// [Client] wraps an [net/http.Client] with a [cache.Cache], optional
// retries for transient failures, and observability hooks. Index-specific
// clients (see [github.com/matzehuels/deplic/pkg/integrations/pypi]) embed
// it and add their own response types.
//
// Errors:
//
//   - [ErrNotFound]: the index answered 404
//   - [ErrNetwork]: connection failure or any other non-200 status
//
// Server errors (5xx) and connection failures are additionally wrapped in
// [httputil.RetryableError] so that [Client.SetRetries] can retry them.
package integrations
