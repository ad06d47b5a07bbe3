package python

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/deplic/pkg/deps"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractProject(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"dep_license==0.0.0", "dep_license", true},
		{"pytest", "pytest", true},
		{"requests>=2.28.0", "requests", true},
		{"numpy<=1.20", "numpy", true},
		{"click~=8.0", "click", true},
		{"django>3.0,<4", "django", true},
		{"flask[async]>=2.0", "flask", true},
		{"uvicorn[standard]", "uvicorn", true},
		{`pywin32 ; sys_platform == "win32"`, "pywin32", true},
		{"httpx  # http client", "httpx", true},
		{"six!=1.11.0", "six", true},
		{"pkg @ https://example.com/pkg.whl", "pkg", true},
		{`"quoted>=1"`, "quoted", true},
		{"  spaced  ", "spaced", true},
		{"zope.interface", "zope.interface", true},
		{"", "", false},
		{"   ", "", false},
		{"# comment only", "", false},
		{"==1.0", "", false},
		{"git+https://github.com/user/repo.git", "", false},
		{"./local/path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractProject(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractProject(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractProjects_LogsUnparsable(t *testing.T) {
	var logged int
	got := ExtractProjects([]string{"a==1", ">=2", "# note", "b"}, func(string, ...any) { logged++ })

	if want := []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("ExtractProjects() = %v, want %v", got, want)
	}
	if logged != 1 {
		t.Errorf("logged %d warnings, want 1", logged)
	}
}

func TestKindsFor(t *testing.T) {
	tests := []struct {
		filename string
		want     []deps.Kind
	}{
		{"requirements.txt", []deps.Kind{deps.KindRequirements}},
		{"requirements-dev.txt", []deps.Kind{deps.KindRequirements}},
		{"Pipfile", []deps.Kind{deps.KindPipfile}},
		{"Pipfile.lock", []deps.Kind{deps.KindPipfileLock}},
		{"pyproject.toml", []deps.Kind{deps.KindPyprojectBuild, deps.KindPyprojectPoetry}},
		{"poetry.lock", []deps.Kind{deps.KindPoetryLock}},
		{"conda.yml", []deps.Kind{deps.KindConda}},
		{"environment.yaml", []deps.Kind{deps.KindConda}},
		{"setup.py", []deps.Kind{deps.KindSetup}},
		{"package.json", nil},
		{"README.md", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := KindsFor(tt.filename); !slices.Equal(got, tt.want) {
				t.Errorf("KindsFor(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFilenamesAreRecognized(t *testing.T) {
	for _, name := range Filenames {
		if len(KindsFor(name)) == 0 {
			t.Errorf("%s has no parser", name)
		}
	}
}

func TestParsersCoverEveryKind(t *testing.T) {
	for _, kind := range deps.Kinds {
		if _, ok := deps.ParserFor(kind, Parsers()...); !ok {
			t.Errorf("no parser for kind %s", kind)
		}
	}
}

func TestParse_EmptyFile(t *testing.T) {
	for _, p := range Parsers() {
		for _, content := range []string{"", " ", "\n\t  \n"} {
			t.Run(string(p.Kind()), func(t *testing.T) {
				path := writeFile(t, "manifest", content)

				got, err := p.Parse(path, deps.Options{Dev: true})
				if err != nil {
					t.Fatalf("Parse() error on empty file: %v", err)
				}
				if len(got) != 0 {
					t.Errorf("Parse() = %v, want empty", got)
				}

				set := deps.Parse(deps.Descriptor{Path: path, Kind: p.Kind()}, Parsers(), deps.Options{})
				if set.Len() != 0 {
					t.Errorf("deps.Parse() len = %d, want 0", set.Len())
				}
			})
		}
	}
}

func TestParse_MalformedYieldsEmptySet(t *testing.T) {
	tests := []struct {
		kind    deps.Kind
		content string
	}{
		{deps.KindPipfile, "[packages\nflask = "},
		{deps.KindPipfileLock, `{"default": {`},
		{deps.KindPyprojectBuild, "[build-system\n"},
		{deps.KindPyprojectPoetry, "[tool.poetry.dependencies]\n= 1"},
		{deps.KindPoetryLock, "[[package]\nname="},
		{deps.KindConda, "dependencies: [\n  - pip: {"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var warned bool
			path := writeFile(t, "manifest", tt.content)
			set := deps.Parse(deps.Descriptor{Path: path, Kind: tt.kind}, Parsers(), deps.Options{
				Logger: func(string, ...any) { warned = true },
			})
			if set.Len() != 0 {
				t.Errorf("len = %d, want 0", set.Len())
			}
			if !warned {
				t.Error("expected a warning")
			}
		})
	}
}

func TestParse_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	set := deps.Parse(deps.Descriptor{Path: missing, Kind: deps.KindRequirements}, Parsers(), deps.Options{})
	if set.Len() != 0 {
		t.Errorf("len = %d, want 0", set.Len())
	}
}

func TestParseAll_SameNameTwoManifests(t *testing.T) {
	req := writeFile(t, "requirements.txt", "flask==2.0\nrequests\n")
	pipfile := writeFile(t, "Pipfile", "[packages]\nflask = \"*\"\nclick = \"*\"\n")

	set := deps.ParseAll([]deps.Descriptor{
		{Path: req, Kind: deps.KindRequirements},
		{Path: pipfile, Kind: deps.KindPipfile},
	}, Parsers(), deps.Options{})

	if want := []string{"flask", "requests", "click"}; !slices.Equal(set.Names(), want) {
		t.Errorf("ParseAll() = %v, want %v", set.Names(), want)
	}
}

func TestExampleManifests(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "examples", "manifest")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read examples: %v", err)
	}

	var descs []deps.Descriptor
	for _, e := range entries {
		for _, kind := range KindsFor(e.Name()) {
			descs = append(descs, deps.Descriptor{Path: filepath.Join(dir, e.Name()), Kind: kind})
		}
	}

	set := deps.ParseAll(descs, Parsers(), deps.Options{})
	want := []string{"click", "pyyaml", "requests", "rich", "setuptools", "tabulate", "toml", "wheel"}
	if got := set.Sorted(); !slices.Equal(got, want) {
		t.Errorf("example manifests = %v, want %v", got, want)
	}
}
