package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/deplic/pkg/deps"
	"github.com/matzehuels/deplic/pkg/deps/python"
	errs "github.com/matzehuels/deplic/pkg/errors"
)

// RefKind classifies a project reference.
type RefKind string

const (
	RefDirectory   RefKind = "directory"
	RefFile        RefKind = "file"
	RefRemote      RefKind = "remote"
	RefEnvironment RefKind = "environment"
)

// Options configures a Locator.
type Options struct {
	// Names replaces the default manifest names. Entries are doublestar
	// patterns relative to the project root ("reqs/*.txt", "**/requirements.txt").
	// Matches with an unknown base name are parsed as requirements files.
	Names []string
	// Env treats every reference as a Python interpreter (or virtualenv
	// directory) and captures its installed packages with pip freeze.
	Env bool
	// Logger receives warnings (optional).
	Logger func(string, ...any)
}

// Project is a located reference and the manifests found in it.
// Close removes any temporary files created while locating it.
type Project struct {
	Ref       string
	Kind      RefKind
	Root      string
	Manifests []deps.Descriptor

	cleanup func()
}

// Close releases temporary clones and captured environment exports.
func (p *Project) Close() error {
	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// Locator turns project references into manifest descriptors.
type Locator struct {
	opts   Options
	clone  cloneFunc
	freeze freezeFunc
}

// NewLocator creates a Locator. Patterns in opts.Names are validated here.
func NewLocator(opts Options) (*Locator, error) {
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	for _, n := range opts.Names {
		if err := errs.ValidatePattern(n); err != nil {
			return nil, err
		}
		if !doublestar.ValidatePattern(n) {
			return nil, errs.New(errs.ErrCodeInvalidPath, "invalid manifest pattern %q", n)
		}
	}
	return &Locator{opts: opts, clone: gitClone, freeze: pipFreeze}, nil
}

// Locate resolves ref. Remote references are shallow-cloned into a
// temporary directory; callers must Close the returned Project.
//
// A reference that exists but holds no manifests is not an error: the
// returned Project has no Manifests.
func (l *Locator) Locate(ctx context.Context, ref string) (*Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errs.New(errs.ErrCodeInvalidReference, "empty project reference")
	}

	if l.opts.Env {
		return l.locateEnv(ctx, ref)
	}
	if IsRemote(ref) {
		return l.locateRemote(ctx, ref)
	}

	info, err := os.Stat(ref)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidReference, err, "path or URL for the given project is invalid: %s", ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidReference, err, "resolve %s", ref)
	}
	if info.IsDir() {
		descs, err := l.scanDir(abs)
		if err != nil {
			return nil, err
		}
		return &Project{Ref: ref, Kind: RefDirectory, Root: abs, Manifests: descs}, nil
	}

	descs, err := l.fileDescriptors(abs)
	if err != nil {
		return nil, err
	}
	return &Project{Ref: ref, Kind: RefFile, Root: filepath.Dir(abs), Manifests: descs}, nil
}

// scanDir lists the manifests directly inside dir, or the files matching
// the configured patterns.
func (l *Locator) scanDir(dir string) ([]deps.Descriptor, error) {
	if len(l.opts.Names) > 0 {
		return l.globDir(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidReference, err, "read %s", dir)
	}
	var out []deps.Descriptor
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		for _, kind := range python.KindsFor(e.Name()) {
			out = append(out, deps.Descriptor{Path: path, Kind: kind})
		}
	}
	return out, nil
}

func (l *Locator) globDir(dir string) ([]deps.Descriptor, error) {
	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var out []deps.Descriptor
	for _, pattern := range l.opts.Names {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "pattern %q", pattern)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, namedDescriptors(filepath.Join(dir, filepath.FromSlash(m)))...)
		}
	}
	return out, nil
}

// fileDescriptors handles a reference naming a single file. With custom
// names the file must match one of them.
func (l *Locator) fileDescriptors(path string) ([]deps.Descriptor, error) {
	base := filepath.Base(path)
	if len(l.opts.Names) == 0 {
		kinds := python.KindsFor(base)
		if len(kinds) == 0 {
			return nil, errs.New(errs.ErrCodeUnsupported, "unsupported manifest: %s", base)
		}
		return descriptors(path, kinds), nil
	}

	for _, pattern := range l.opts.Names {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return namedDescriptors(path), nil
		}
	}
	l.opts.Logger("%s does not match %s", base, strings.Join(l.opts.Names, ", "))
	return nil, nil
}

// namedDescriptors picks kinds for a file the user asked for by name.
// Unknown names are read as requirements files.
func namedDescriptors(path string) []deps.Descriptor {
	kinds := python.KindsFor(filepath.Base(path))
	if len(kinds) == 0 {
		kinds = []deps.Kind{deps.KindRequirements}
	}
	return descriptors(path, kinds)
}

func descriptors(path string, kinds []deps.Kind) []deps.Descriptor {
	out := make([]deps.Descriptor, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, deps.Descriptor{Path: path, Kind: k})
	}
	return out
}
