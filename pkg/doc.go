// Package pkg provides the libraries behind deplic, a license reporter for
// the dependencies of Python projects.
//
// # Overview
//
// The pkg directory is organized by pipeline stage:
//
//  1. [source] - Project references (directories, files, git remotes, interpreters)
//  2. [deps] - Manifest parsing into a deduplicated set of package names
//  3. [license] - Concurrent license lookups against the package index
//  4. [report] - JSON, CSV and table output plus the deny-list check
//  5. [pipeline] - Orchestration of the four stages
//
// Supporting packages: [integrations] (HTTP clients for PyPI), [cache]
// (response caching), [config] (deny-list file), [errors] (error codes),
// [httputil] (retries), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
//	Project reference
//	         ↓
//	    [source] package (locate manifests)
//	         ↓
//	    [deps/python] package (parse names)
//	         ↓
//	    [license] package (fetch metadata)
//	         ↓
//	    [report] package (render, check)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	result, err := runner.Execute(ctx, []string{"."}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	return report.Write(os.Stdout, "json", result.Records)
package pkg
