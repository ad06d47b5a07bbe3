// Package license resolves license metadata for a set of Python packages.
//
// [Engine.Resolve] schedules one lookup per distinct package name on a
// bounded errgroup and collects a [Record] for every lookup that succeeds.
// Failures are logged and skipped; they never cancel other lookups.
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//	engine := license.NewEngine(license.PyPIFetcher{Client: client}, logger.Warnf)
//	records := engine.Resolve(ctx, names, runtime.NumCPU())
//
// Records arrive in completion order. Sort them if a stable order matters.
package license
