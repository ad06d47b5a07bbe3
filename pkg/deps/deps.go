package deps

import "time"

const DefaultCacheTTL = 24 * time.Hour // Default index response cache duration

// Kind identifies a manifest format and selects the parser for it.
type Kind string

const (
	KindRequirements    Kind = "requirements"
	KindPipfile         Kind = "pipfile"
	KindPipfileLock     Kind = "pipfile-lock"
	KindPyprojectBuild  Kind = "pyproject-build-system"
	KindPyprojectPoetry Kind = "pyproject-poetry"
	KindPoetryLock      Kind = "poetry-lock"
	KindConda           Kind = "conda"
	KindFreeze          Kind = "freeze"
	KindSetup           Kind = "setup"
)

// Kinds lists every supported manifest kind.
var Kinds = []Kind{
	KindRequirements,
	KindPipfile,
	KindPipfileLock,
	KindPyprojectBuild,
	KindPyprojectPoetry,
	KindPoetryLock,
	KindConda,
	KindFreeze,
	KindSetup,
}

func (k Kind) String() string { return string(k) }

// Descriptor pairs a manifest path with the kind used to parse it.
type Descriptor struct {
	Path string
	Kind Kind
}

// Options configures manifest parsing.
type Options struct {
	Dev    bool                 // Include dev-only sections (Pipfile, Pipfile.lock)
	Logger func(string, ...any) // Warning callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
