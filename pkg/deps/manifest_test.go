package deps

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

type mockParser struct {
	kind         Kind
	supportsFunc func(string) bool
	names        []string
	err          error
	calls        int
}

func (m *mockParser) Kind() Kind { return m.kind }
func (m *mockParser) Supports(filename string) bool {
	if m.supportsFunc != nil {
		return m.supportsFunc(filename)
	}
	return false
}
func (m *mockParser) Parse(path string, opts Options) ([]string, error) {
	m.calls++
	return m.names, m.err
}

func TestDetectManifest(t *testing.T) {
	poetry := &mockParser{
		kind:         KindPoetryLock,
		supportsFunc: func(f string) bool { return f == "poetry.lock" },
	}
	requirements := &mockParser{
		kind:         KindRequirements,
		supportsFunc: func(f string) bool { return f == "requirements.txt" },
	}

	tests := []struct {
		name     string
		path     string
		parsers  []ManifestParser
		wantKind Kind
		wantErr  bool
	}{
		{
			name:     "matches poetry",
			path:     "/some/path/poetry.lock",
			parsers:  []ManifestParser{poetry, requirements},
			wantKind: KindPoetryLock,
		},
		{
			name:     "matches requirements",
			path:     "/project/requirements.txt",
			parsers:  []ManifestParser{poetry, requirements},
			wantKind: KindRequirements,
		},
		{
			name:    "no match",
			path:    "/project/unknown.yaml",
			parsers: []ManifestParser{poetry, requirements},
			wantErr: true,
		},
		{
			name:    "no parsers",
			path:    "/project/anything.txt",
			parsers: []ManifestParser{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := DetectManifest(tt.path, tt.parsers...)
			if tt.wantErr {
				if err == nil {
					t.Error("DetectManifest() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectManifest() unexpected error: %v", err)
			}
			if parser.Kind() != tt.wantKind {
				t.Errorf("DetectManifest() kind = %s, want %s", parser.Kind(), tt.wantKind)
			}
		})
	}
}

func TestParse(t *testing.T) {
	var logged []string
	logger := func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	t.Run("trims and drops empty names", func(t *testing.T) {
		p := &mockParser{kind: KindRequirements, names: []string{" flask ", "", "flask", "pytest"}}
		got := Parse(Descriptor{Path: "r.txt", Kind: KindRequirements}, []ManifestParser{p}, Options{})
		if want := []string{"flask", "pytest"}; !slices.Equal(got.Names(), want) {
			t.Errorf("Parse() = %v, want %v", got.Names(), want)
		}
	})

	t.Run("parser error yields empty set", func(t *testing.T) {
		logged = nil
		p := &mockParser{kind: KindPipfile, names: []string{"x"}, err: errors.New("bad toml")}
		got := Parse(Descriptor{Path: "Pipfile", Kind: KindPipfile}, []ManifestParser{p}, Options{Logger: logger})
		if got.Len() != 0 {
			t.Errorf("Parse() len = %d, want 0", got.Len())
		}
		if len(logged) != 1 {
			t.Errorf("expected one warning, got %v", logged)
		}
	})

	t.Run("unknown kind yields empty set", func(t *testing.T) {
		logged = nil
		got := Parse(Descriptor{Path: "x", Kind: KindConda}, nil, Options{Logger: logger})
		if got.Len() != 0 {
			t.Errorf("Parse() len = %d, want 0", got.Len())
		}
		if len(logged) != 1 {
			t.Errorf("expected one warning, got %v", logged)
		}
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		p := &mockParser{kind: KindPipfile, err: errors.New("boom")}
		Parse(Descriptor{Path: "Pipfile", Kind: KindPipfile}, []ManifestParser{p}, Options{})
	})
}

func TestParseAll_Dedup(t *testing.T) {
	reqs := &mockParser{kind: KindRequirements, names: []string{"requests", "flask"}}
	pipfile := &mockParser{kind: KindPipfile, names: []string{"flask", "click"}}
	parsers := []ManifestParser{reqs, pipfile}

	got := ParseAll([]Descriptor{
		{Path: "requirements.txt", Kind: KindRequirements},
		{Path: "Pipfile", Kind: KindPipfile},
	}, parsers, Options{})

	if want := []string{"requests", "flask", "click"}; !slices.Equal(got.Names(), want) {
		t.Errorf("ParseAll() = %v, want %v", got.Names(), want)
	}
	if reqs.calls != 1 || pipfile.calls != 1 {
		t.Errorf("each manifest should be parsed once, got %d and %d", reqs.calls, pipfile.calls)
	}
}

func TestParserFor(t *testing.T) {
	a := &mockParser{kind: KindConda}
	if p, ok := ParserFor(KindConda, a); !ok || p != a {
		t.Error("ParserFor() should find conda parser")
	}
	if _, ok := ParserFor(KindSetup, a); ok {
		t.Error("ParserFor() should not find setup parser")
	}
}
