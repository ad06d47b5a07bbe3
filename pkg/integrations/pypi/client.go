package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/deplic/pkg/cache"
	errs "github.com/matzehuels/deplic/pkg/errors"
	"github.com/matzehuels/deplic/pkg/integrations"
)

// DefaultBaseURL is the public PyPI JSON API.
const DefaultBaseURL = "https://pypi.org/pypi"

// PackageInfo holds the license-relevant metadata of a Python package.
//
// Zero values: License is empty and Classifiers is nil when the index
// publishes neither. The struct is safe for concurrent reads.
type PackageInfo struct {
	Name        string   `json:"name"`                  // Name as published by the index
	Version     string   `json:"version"`               // Latest release version
	License     string   `json:"license"`               // Raw license field (may be empty or long text)
	Classifiers []string `json:"classifiers,omitempty"` // Trove classifiers in published order
}

// Client provides access to the PyPI JSON API.
// It handles HTTP requests with caching and optional retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a mirror or test server.
// Trailing slashes are removed.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.SetTimeout(d) }
}

// WithRetries enables n extra attempts after transient failures.
func WithRetries(n int) Option {
	return func(c *Client) { c.SetRetries(n) }
}

// NewClient creates a PyPI client with the given cache backend.
//
// Parameters:
//   - backend: cache for index responses (nil or [cache.NewNullCache] disables caching)
//   - cacheTTL: how long responses are cached
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cacheTTL time.Duration, opts ...Option) *Client {
	c := &Client{
		Client: integrations.NewClient(backend, "pypi:", cacheTTL, map[string]string{
			"Accept":     "application/json",
			"User-Agent": integrations.UserAgent(),
		}),
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the index base URL in use.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchPackage retrieves metadata for pkg from {base}/{pkg}/json.
//
// The name is sent as given; the cache key uses its normalized form so
// "Flask" and "flask" share an entry. If refresh is true, the cache is
// bypassed.
//
// Returns:
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for other HTTP failures
//   - [integrations.ErrSchema] if the body has no info object
//   - an INVALID_PACKAGE error for names unsafe to put in a URL
//   - a decode error for malformed bodies
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	if err := errs.ValidatePackageName(pkg); err != nil {
		return nil, err
	}

	var info PackageInfo
	err := c.Cached(ctx, integrations.NormalizePkgName(pkg), refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, url.PathEscape(pkg)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}
	if data.Info == nil {
		return fmt.Errorf("%w: pypi package %s has no info object", integrations.ErrSchema, pkg)
	}

	*info = PackageInfo{
		Name:        data.Info.Name,
		Version:     data.Info.Version,
		License:     data.Info.License,
		Classifiers: data.Info.Classifiers,
	}
	return nil
}

type apiResponse struct {
	Info *apiInfo `json:"info"`
}

// A null license decodes to "".
type apiInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	License     string   `json:"license"`
	Classifiers []string `json:"classifiers"`
}
