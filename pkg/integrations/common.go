package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/deplic/pkg/buildinfo"
)

// DefaultTimeout bounds a single index request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package doesn't exist in the index.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrSchema is returned when a 200 response lacks the fields the client expects.
	ErrSchema = errors.New("unexpected response schema")
)

// NewHTTPClient creates an HTTP client with the given request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// UserAgent identifies deplic to package indices.
func UserAgent() string {
	return "deplic/" + buildinfo.Version
}

// NormalizePkgName converts a package name to its canonical form.
// Applies lowercase and replaces underscores and dots with hyphens,
// following PEP 503 normalization rules used by PyPI.
func NormalizePkgName(name string) string {
	return pkgNameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

var pkgNameReplacer = strings.NewReplacer("_", "-", ".", "-")
