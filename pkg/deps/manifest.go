package deps

import (
	"fmt"
	"path/filepath"
)

// ManifestParser reads declared dependency names from a local manifest file.
type ManifestParser interface {
	// Kind returns the manifest kind this parser handles.
	Kind() Kind
	// Supports reports whether this parser handles the given base filename.
	Supports(filename string) bool
	// Parse reads the manifest at path and returns the declared names in
	// document order. Names may repeat; callers deduplicate through Set.
	Parse(path string, opts Options) ([]string, error)
}

// DetectManifest finds a parser that supports the given file path.
// Returns an error if no parser matches.
func DetectManifest(path string, parsers ...ManifestParser) (ManifestParser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported manifest: %s", name)
}

// ParserFor returns the parser registered for kind.
func ParserFor(kind Kind, parsers ...ManifestParser) (ManifestParser, bool) {
	for _, p := range parsers {
		if p.Kind() == kind {
			return p, true
		}
	}
	return nil, false
}

// Parse extracts the package names declared by desc. It never fails: an
// unknown kind, an unreadable file or malformed content is reported through
// opts.Logger and yields an empty set, so one bad manifest cannot stop the
// others from being processed.
func Parse(desc Descriptor, parsers []ManifestParser, opts Options) *Set {
	opts = opts.WithDefaults()
	out := NewSet()

	p, ok := ParserFor(desc.Kind, parsers...)
	if !ok {
		opts.Logger("no parser for %s (%s)", desc.Path, desc.Kind)
		return out
	}
	names, err := p.Parse(desc.Path, opts)
	if err != nil {
		opts.Logger("%s: %v", desc.Path, err)
		return out
	}
	for _, n := range names {
		out.Add(n)
	}
	return out
}

// ParseAll parses every descriptor and merges the results into one Set.
// A package declared by several manifests appears once.
func ParseAll(descs []Descriptor, parsers []ManifestParser, opts Options) *Set {
	out := NewSet()
	for _, d := range descs {
		out.Merge(Parse(d, parsers, opts))
	}
	return out
}
