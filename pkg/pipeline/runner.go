package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/deplic/pkg/cache"
	"github.com/matzehuels/deplic/pkg/config"
	"github.com/matzehuels/deplic/pkg/deps"
	"github.com/matzehuels/deplic/pkg/deps/python"
	errs "github.com/matzehuels/deplic/pkg/errors"
	"github.com/matzehuels/deplic/pkg/integrations/pypi"
	"github.com/matzehuels/deplic/pkg/license"
	"github.com/matzehuels/deplic/pkg/observability"
	"github.com/matzehuels/deplic/pkg/report"
	"github.com/matzehuels/deplic/pkg/source"
)

// Runner executes the pipeline with a shared response cache.
//
// The Runner stores no run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger

	// Fetcher replaces the PyPI fetcher built from Options when set.
	Fetcher license.Fetcher

	// Matcher decides deny-list matches. Nil uses report.SimilarityMatcher.
	Matcher report.Matcher
}

// NewRunner creates a runner with the given cache and logger.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs locate, parse, fetch and check for refs.
//
// The deny list is loaded first so that a bad --check file fails before
// any network traffic. References that cannot be located are logged and
// skipped. The run fails with NO_MANIFESTS when no reference yields a
// manifest, NO_DEPENDENCIES when the manifests declare nothing, and
// NO_LICENSES when no lookup succeeds. Deny-list matches are reported in
// the Result, not as an error; see Result.Err.
func (r *Runner) Execute(ctx context.Context, refs []string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	denyList, err := loadDenyList(opts.DenyList)
	if err != nil {
		return nil, err
	}
	if len(denyList) > 0 {
		logger.Debug("loaded deny list", "path", opts.DenyList, "entries", len(denyList))
	}

	// Stage 1: Locate
	locateStart := time.Now()
	projects, err := r.Locate(ctx, refs, opts, logger)
	if err != nil {
		return nil, err
	}
	defer closeAll(projects)
	result.Stats.Projects = len(projects)
	result.Stats.LocateTime = time.Since(locateStart)
	for _, p := range projects {
		result.Manifests = append(result.Manifests, p.Manifests...)
	}
	if len(result.Manifests) == 0 {
		return nil, errs.New(errs.ErrCodeNoManifests, "no dependencies found in %s", strings.Join(refs, ", "))
	}
	logger.Debug("located manifests", "projects", len(projects), "manifests", len(result.Manifests), "duration", result.Stats.LocateTime)

	// Stage 2: Parse
	parseStart := time.Now()
	set := r.Parse(ctx, result.Manifests, opts, logger)
	result.Stats.ParseTime = time.Since(parseStart)
	if set.Len() == 0 {
		return nil, errs.New(errs.ErrCodeNoDependencies, "no dependencies found in %d manifest(s)", len(result.Manifests))
	}
	result.Packages = set.Names()
	logger.Debug("parsed dependencies", "packages", len(result.Packages), "duration", result.Stats.ParseTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.BeforeFetch != nil {
		opts.BeforeFetch(len(result.Packages))
	}

	// Stage 3: Fetch
	engine := license.NewEngine(r.fetcher(opts), logger.Warnf)
	result.Records = engine.Resolve(ctx, result.Packages, opts.Workers)
	result.Stats.Fetch = engine.Stats()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, errs.New(errs.ErrCodeNoLicenses, "no license data found for %d package(s)", len(result.Packages))
	}
	logger.Debug("fetched licenses",
		"resolved", result.Stats.Fetch.Resolved,
		"failed", result.Stats.Fetch.Failed,
		"workers", result.Stats.Fetch.Workers,
		"duration", result.Stats.Fetch.Duration)

	// Stage 4: Check
	result.Violations = report.Check(result.Records, denyList, r.Matcher)
	result.Banned = report.Banned(result.Violations)
	if result.Banned {
		logger.Debug("deny list matched", "packages", len(result.Violations))
	}

	return result, nil
}

// Locate resolves every reference. Failures are logged and skipped; the
// returned projects must be closed by the caller. A nil logger uses the
// runner's logger.
func (r *Runner) Locate(ctx context.Context, refs []string, opts Options, logger *log.Logger) ([]*source.Project, error) {
	if logger == nil {
		logger = r.Logger
	}
	loc, err := source.NewLocator(source.Options{
		Names:  opts.Names,
		Env:    opts.Env,
		Logger: logger.Warnf,
	})
	if err != nil {
		return nil, err
	}

	var projects []*source.Project
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			closeAll(projects)
			return nil, err
		}
		p, err := loc.Locate(ctx, ref)
		if err != nil {
			observability.Pipeline().OnLocateComplete(ctx, ref, 0, err)
			logger.Warn("skipping project", "ref", ref, "err", errs.UserMessage(err))
			continue
		}
		observability.Pipeline().OnLocateComplete(ctx, ref, len(p.Manifests), nil)
		if len(p.Manifests) == 0 {
			logger.Warn("no manifests found", "ref", ref)
		}
		for _, m := range p.Manifests {
			logger.Debug("found manifest", "path", m.Path, "kind", m.Kind)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Parse reads every manifest into one deduplicated set. It never fails:
// unreadable or malformed manifests contribute nothing and are logged.
func (r *Runner) Parse(ctx context.Context, descs []deps.Descriptor, opts Options, logger *log.Logger) *deps.Set {
	if logger == nil {
		logger = r.Logger
	}
	parsers := python.Parsers()
	popts := deps.Options{Dev: opts.Dev, Logger: logger.Warnf}

	all := deps.NewSet()
	for _, d := range descs {
		start := time.Now()
		set := deps.Parse(d, parsers, popts)
		observability.Pipeline().OnParseComplete(ctx, d.Path, d.Kind.String(), set.Len(), time.Since(start), nil)
		all.Merge(set)
	}
	return all
}

func (r *Runner) fetcher(opts Options) license.Fetcher {
	if r.Fetcher != nil {
		return r.Fetcher
	}
	client := pypi.NewClient(r.Cache, opts.CacheTTL,
		pypi.WithBaseURL(opts.IndexURL),
		pypi.WithTimeout(opts.Timeout),
		pypi.WithRetries(opts.Retries),
	)
	return license.PyPIFetcher{Client: client, Refresh: opts.Refresh}
}

func loadDenyList(path string) (config.DenyList, error) {
	if path == "" {
		return nil, nil
	}
	return config.LoadDenyList(path)
}

func closeAll(projects []*source.Project) {
	for _, p := range projects {
		_ = p.Close()
	}
}
