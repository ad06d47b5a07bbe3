package license

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/deplic/pkg/errors"
	"github.com/matzehuels/deplic/pkg/observability"
)

// Stats summarizes the last Resolve call.
type Stats struct {
	Packages int           // Distinct names scheduled
	Workers  int           // Concurrency bound used
	Resolved int           // Records produced
	Failed   int           // Lookups that produced no record
	Duration time.Duration // Wall time of the run
}

// Engine fetches license records concurrently.
type Engine struct {
	fetcher Fetcher
	logger  func(string, ...any)

	mu    sync.Mutex
	stats Stats
}

// NewEngine creates an Engine. A nil logger discards warnings.
func NewEngine(f Fetcher, logger func(string, ...any)) *Engine {
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &Engine{fetcher: f, logger: logger}
}

// Workers returns the concurrency bound for n packages: min(maxWorkers, n),
// where maxWorkers <= 0 means the number of CPUs.
func Workers(maxWorkers, n int) int {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return max(min(maxWorkers, n), 1)
}

// Resolve looks up every distinct name and returns one record per
// successful lookup, in completion order.
//
// A failed lookup (unknown package, non-200 status, malformed body, network
// error) is logged and omitted; it never affects other lookups. Resolve
// itself does not fail.
func (e *Engine) Resolve(ctx context.Context, names []string, maxWorkers int) []Record {
	start := time.Now()
	pkgs := distinct(names)
	workers := Workers(maxWorkers, len(pkgs))
	observability.Pipeline().OnFetchStart(ctx, len(pkgs), workers)

	var (
		mu      sync.Mutex
		records = make([]Record, 0, len(pkgs))
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for _, name := range pkgs {
		g.Go(func() error {
			r, ok := e.lookup(ctx, name)
			if !ok {
				return nil
			}
			mu.Lock()
			records = append(records, r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{
		Packages: len(pkgs),
		Workers:  workers,
		Resolved: len(records),
		Failed:   len(pkgs) - len(records),
		Duration: time.Since(start),
	}
	e.mu.Lock()
	e.stats = stats
	e.mu.Unlock()
	observability.Pipeline().OnFetchComplete(ctx, stats.Resolved, stats.Failed, stats.Duration)

	return records
}

// Stats returns counters for the most recent Resolve.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) lookup(ctx context.Context, name string) (Record, bool) {
	if err := errs.ValidatePythonPackageName(name); err != nil {
		e.logger("skipping %q: %v", name, err)
		return Record{}, false
	}
	m, err := e.fetcher.Fetch(ctx, name)
	if err != nil {
		e.logger("no license data for %s: %v", name, err)
		return Record{}, false
	}
	return NewRecord(name, m), true
}

// distinct cleans names and drops blanks and repeats, keeping first-seen
// order. Equality is exact.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = CleanName(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
