package python

import (
	"bytes"
	"os"
	"strings"

	"github.com/matzehuels/deplic/pkg/deps"
)

// Filenames lists the manifest names looked for in a project directory.
// requirements*.txt variants are matched in addition to these.
var Filenames = []string{
	"requirements.txt",
	"Pipfile",
	"Pipfile.lock",
	"pyproject.toml",
	"setup.py",
	"conda.yml",
	"conda.yaml",
	"environment.yml",
	"environment.yaml",
	"poetry.lock",
}

// Parsers returns one parser per supported manifest kind.
func Parsers() []deps.ManifestParser {
	return []deps.ManifestParser{
		&Requirements{},
		&Pipfile{},
		&PipfileLock{},
		&PyprojectBuild{},
		&PyprojectPoetry{},
		&PoetryLock{},
		&Conda{},
		&Freeze{},
		&Setup{},
	}
}

// KindsFor returns the kinds used to parse a manifest with the given base
// name. pyproject.toml yields two kinds (build-system and poetry). An
// unknown name yields nil.
func KindsFor(filename string) []deps.Kind {
	var kinds []deps.Kind
	for _, p := range Parsers() {
		if p.Supports(filename) {
			kinds = append(kinds, p.Kind())
		}
	}
	return kinds
}

// ExtractProject reduces a requirement string to its package name.
//
// Inline comments, environment markers and extras are dropped, then the
// token is cut at the first constraint character (= < > ~). Quotes and
// surrounding whitespace are trimmed. Direct references ("pkg @ url") keep
// only the name. It reports false when nothing usable remains, e.g. for a
// blank line, a comment or a bare URL.
func ExtractProject(s string) (string, bool) {
	s = cut(s, "#")
	s = cut(s, ";")
	s = cutAny(s, "=<>~")
	s = cutAny(s, "[!(@")
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	if s == "" || strings.Contains(s, "://") || strings.ContainsAny(s, `/\`) {
		return "", false
	}
	return s, true
}

// ExtractProjects applies ExtractProject to every entry, dropping the ones
// that yield nothing.
func ExtractProjects(reqs []string, logger func(string, ...any)) []string {
	var out []string
	for _, r := range reqs {
		if name, ok := ExtractProject(r); ok {
			out = append(out, name)
		} else if strings.TrimSpace(cut(r, "#")) != "" {
			logger("could not parse %q", r)
		}
	}
	return out
}

func cut(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

func cutAny(s, chars string) string {
	if i := strings.IndexAny(s, chars); i >= 0 {
		return s[:i]
	}
	return s
}

// readManifest reads path and reports whether it holds anything besides
// whitespace.
func readManifest(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, len(bytes.TrimSpace(data)) > 0, nil
}
