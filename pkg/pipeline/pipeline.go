// Package pipeline runs the deplic license pipeline end to end.
//
// A run has four stages:
//
//  1. Locate: resolve each project reference into manifest descriptors
//  2. Parse: read the manifests into one deduplicated set of package names
//  3. Fetch: look up license metadata for every package concurrently
//  4. Check: compare the records against an optional deny list
//
// The CLI and tests drive the same Runner:
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, []string{"."}, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Write(os.Stdout, "table", result.Records)
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/deplic/pkg/deps"
	errs "github.com/matzehuels/deplic/pkg/errors"
	"github.com/matzehuels/deplic/pkg/integrations/pypi"
	"github.com/matzehuels/deplic/pkg/license"
	"github.com/matzehuels/deplic/pkg/report"
)

// DefaultCacheTTL is how long index responses stay cached.
const DefaultCacheTTL = deps.DefaultCacheTTL

// Options configures a pipeline run. The zero value scans the given
// references with the default manifest names and fetches from PyPI with
// one worker per CPU.
type Options struct {
	// Locate options
	Names []string // Custom manifest patterns (--name)
	Env   bool     // References are Python interpreters or virtualenvs

	// Parse options
	Dev bool // Include Pipfile dev-packages and Pipfile.lock develop

	// Fetch options
	Workers  int           // Concurrency bound; <= 0 means CPU count
	IndexURL string        // Package index base URL; empty means PyPI
	Timeout  time.Duration // Per-request timeout; <= 0 means the client default
	Retries  int           // Extra attempts for transient failures
	CacheTTL time.Duration // Response cache TTL; <= 0 means DefaultCacheTTL
	Refresh  bool          // Bypass cached responses

	// Check options
	DenyList string // Path to the INI deny-list file; empty disables the check

	// BeforeFetch, when set, is called with the number of distinct packages
	// once parsing succeeds and before any lookup starts.
	BeforeFetch func(packages int)
}

// withDefaults returns a copy of o with zero values filled in.
func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.IndexURL == "" {
		o.IndexURL = pypi.DefaultBaseURL
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	return o
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Manifests lists every descriptor that was parsed.
	Manifests []deps.Descriptor

	// Packages is the deduplicated set of declared names, in first-seen order.
	Packages []string

	// Records holds one entry per resolved package, in completion order.
	Records []license.Record

	// Violations lists records matching the deny list.
	Violations []report.Violation

	// Banned reports whether any violation was found.
	Banned bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Projects   int
	LocateTime time.Duration
	ParseTime  time.Duration
	Fetch      license.Stats
}

// Err returns a BANNED_LICENSE error naming the offending packages when the
// run found deny-list matches, and nil otherwise.
func (r *Result) Err() error {
	if !r.Banned {
		return nil
	}
	names := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		names[i] = v.Record.Name
	}
	return errs.New(errs.ErrCodeBannedLicense, "banned licenses found: %s", strings.Join(names, ", "))
}
