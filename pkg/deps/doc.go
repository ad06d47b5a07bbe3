// Package deps extracts declared dependency names from Python project
// manifests.
//
// # Overview
//
// A project declares its dependencies in one or more manifests
// (requirements.txt, Pipfile, pyproject.toml, ...). Each manifest is
// described by a [Descriptor] pairing its path with a [Kind]. [Parse] runs
// the [ManifestParser] registered for that kind and returns a [Set] of
// package names; [ParseAll] merges the sets of several manifests so that a
// package declared twice is looked up once.
//
// # Failure policy
//
// Parsing never aborts a run. A missing file, invalid syntax or an unknown
// kind is reported through [Options.Logger] and yields an empty set.
//
// # Package names
//
// Names are trimmed but otherwise kept as written. Dedup is exact and
// case-sensitive: "Flask" and "flask" are two entries.
//
// # Parsers
//
// The parsers for every supported format live in [python]:
//
//	parsers := python.Parsers()
//	names := deps.ParseAll(descs, parsers, deps.Options{Dev: true})
//
// [python]: github.com/matzehuels/deplic/pkg/deps/python
package deps
