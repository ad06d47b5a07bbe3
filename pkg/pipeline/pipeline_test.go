package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/deplic/pkg/errors"
	"github.com/matzehuels/deplic/pkg/license"
	"github.com/matzehuels/deplic/pkg/observability"
)

type index struct {
	*httptest.Server
	hits atomic.Int32
}

func newIndex(t *testing.T) *index {
	t.Helper()
	idx := &index{}
	idx.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx.hits.Add(1)
		switch r.URL.Path {
		case "/dep_license/json":
			json.NewEncoder(w).Encode(map[string]any{"info": map[string]any{
				"name":        "dep_license",
				"license":     "MIT",
				"classifiers": []string{"License :: OSI Approved :: MIT License"},
			}})
		case "/flask/json":
			json.NewEncoder(w).Encode(map[string]any{"info": map[string]any{
				"name":        "Flask",
				"license":     "BSD-3-Clause",
				"classifiers": []string{"License :: OSI Approved :: BSD License"},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(idx.Close)
	return idx
}

func newTestRunner() *Runner {
	return NewRunner(nil, log.New(io.Discard))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func recordNames(records []license.Record) []string {
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	slices.Sort(names)
	return names
}

func TestExecute(t *testing.T) {
	idx := newIndex(t)
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "dep_license==1.0\nflask>=2\n")
	writeFile(t, dir, "Pipfile", "[packages]\nflask = \"*\"\n")

	var before int
	result, err := newTestRunner().Execute(context.Background(), []string{dir}, Options{
		IndexURL:    idx.URL,
		Workers:     2,
		BeforeFetch: func(n int) { before = n },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", result.RunID, err)
	}
	if len(result.Manifests) != 2 {
		t.Errorf("manifests = %d, want 2", len(result.Manifests))
	}
	if want := []string{"dep_license", "flask"}; !slices.Equal(result.Packages, want) {
		t.Errorf("packages = %v, want %v", result.Packages, want)
	}
	if before != 2 {
		t.Errorf("BeforeFetch got %d, want 2", before)
	}
	if got := recordNames(result.Records); !slices.Equal(got, []string{"dep_license", "flask"}) {
		t.Errorf("records = %v", got)
	}
	if got := idx.hits.Load(); got != 2 {
		t.Errorf("index hits = %d, want 2 (one per distinct package)", got)
	}
	if result.Banned || result.Err() != nil {
		t.Errorf("unexpected ban: %+v", result.Violations)
	}
	if result.Stats.Projects != 1 || result.Stats.Fetch.Resolved != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestExecuteDenyList(t *testing.T) {
	idx := newIndex(t)
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "dep_license\nflask\n")
	deny := writeFile(t, t.TempDir(), "deplic.ini", "[deplic]\nbanned = mit\n")

	result, err := newTestRunner().Execute(context.Background(), []string{dir}, Options{
		IndexURL: idx.URL,
		DenyList: deny,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Banned {
		t.Fatal("expected a banned match for MIT")
	}
	if len(result.Violations) != 1 || result.Violations[0].Record.Name != "dep_license" {
		t.Errorf("violations = %+v", result.Violations)
	}
	err = result.Err()
	if !errs.Is(err, errs.ErrCodeBannedLicense) {
		t.Errorf("Err() = %v, want BANNED_LICENSE", err)
	}
	if !strings.Contains(err.Error(), "dep_license") {
		t.Errorf("Err() should name the package: %v", err)
	}
}

func TestExecuteErrors(t *testing.T) {
	idx := newIndex(t)

	emptyDir := t.TempDir()
	writeFile(t, emptyDir, "requirements.txt", "# nothing here\n")

	unknownDir := t.TempDir()
	writeFile(t, unknownDir, "requirements.txt", "SomethingThatDoesntExist\n")

	noManifestDir := t.TempDir()
	writeFile(t, noManifestDir, "README.md", "hello\n")

	okDir := t.TempDir()
	writeFile(t, okDir, "requirements.txt", "dep_license\n")

	tests := []struct {
		name     string
		refs     []string
		denyList string
		code     errs.Code
		prefix   string
		noHits   bool
	}{
		{"invalid reference", []string{filepath.Join(emptyDir, "missing")}, "", errs.ErrCodeNoManifests, "no dependencies found", true},
		{"no manifests", []string{noManifestDir}, "", errs.ErrCodeNoManifests, "no dependencies found", true},
		{"empty manifest", []string{emptyDir}, "", errs.ErrCodeNoDependencies, "no dependencies found", true},
		{"no licenses", []string{unknownDir}, "", errs.ErrCodeNoLicenses, "no license data found", false},
		{"missing deny list", []string{okDir}, filepath.Join(okDir, "nope.ini"), errs.ErrCodeConfig, "read deny list", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := idx.hits.Load()
			_, err := newTestRunner().Execute(context.Background(), tt.refs, Options{
				IndexURL: idx.URL,
				DenyList: tt.denyList,
			})
			if !errs.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if msg := errs.UserMessage(err); !strings.HasPrefix(msg, tt.prefix) {
				t.Errorf("message %q should start with %q", msg, tt.prefix)
			}
			if tt.noHits && idx.hits.Load() != before {
				t.Error("index should not be queried")
			}
		})
	}
}

func TestExecuteSkipsBadReferences(t *testing.T) {
	idx := newIndex(t)
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask\n")

	result, err := newTestRunner().Execute(context.Background(),
		[]string{filepath.Join(dir, "missing"), dir},
		Options{IndexURL: idx.URL})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.Projects != 1 {
		t.Errorf("projects = %d, want 1", result.Stats.Projects)
	}
	if got := recordNames(result.Records); !slices.Equal(got, []string{"flask"}) {
		t.Errorf("records = %v", got)
	}
}

func TestExecuteCustomNames(t *testing.T) {
	idx := newIndex(t)
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "flask\n")
	writeFile(t, dir, "deps.in", "dep_license\n")

	result, err := newTestRunner().Execute(context.Background(), []string{dir}, Options{
		IndexURL: idx.URL,
		Names:    []string{"*.in"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := []string{"dep_license"}; !slices.Equal(result.Packages, want) {
		t.Errorf("packages = %v, want %v", result.Packages, want)
	}
}

func TestExecuteDevPackages(t *testing.T) {
	idx := newIndex(t)
	dir := t.TempDir()
	writeFile(t, dir, "Pipfile", "[packages]\nflask = \"*\"\n\n[dev-packages]\ndep_license = \"*\"\n")

	tests := []struct {
		dev  bool
		want []string
	}{
		{false, []string{"flask"}},
		{true, []string{"flask", "dep_license"}},
	}
	for _, tt := range tests {
		result, err := newTestRunner().Execute(context.Background(), []string{dir}, Options{
			IndexURL: idx.URL,
			Dev:      tt.dev,
		})
		if err != nil {
			t.Fatalf("Execute(dev=%v): %v", tt.dev, err)
		}
		if !slices.Equal(result.Packages, tt.want) {
			t.Errorf("dev=%v: packages = %v, want %v", tt.dev, result.Packages, tt.want)
		}
	}
}

type stubFetcher map[string]license.Metadata

func (s stubFetcher) Fetch(_ context.Context, name string) (*license.Metadata, error) {
	m, ok := s[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &m, nil
}

func TestExecuteFetcherOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "alpha\nbeta\n")

	r := newTestRunner()
	r.Fetcher = stubFetcher{"alpha": {License: "Apache 2.0"}}

	result, err := r.Execute(context.Background(), []string{dir}, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Records) != 1 || result.Records[0].Meta != "Apache 2.0" {
		t.Errorf("records = %+v", result.Records)
	}
	if result.Stats.Fetch.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Stats.Fetch.Failed)
	}
}

func TestExecuteCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "alpha\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestRunner()
	r.Fetcher = stubFetcher{"alpha": {License: "MIT"}}
	if _, err := r.Execute(ctx, []string{dir}, Options{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Retries: -3}.withDefaults()
	if o.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v", o.CacheTTL)
	}
	if o.IndexURL == "" {
		t.Error("IndexURL should default to PyPI")
	}
	if o.Retries != 0 {
		t.Errorf("Retries = %d, want 0", o.Retries)
	}
}

type stageEvents struct {
	observability.NoopPipelineHooks

	mu      sync.Mutex
	located map[string]int
	parsed  map[string]int
	fetched []int
}

func (h *stageEvents) OnLocateComplete(_ context.Context, ref string, manifests int, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.located[ref] = manifests
}

func (h *stageEvents) OnParseComplete(_ context.Context, path, _ string, packages int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parsed[filepath.Base(path)] = packages
}

func (h *stageEvents) OnFetchComplete(_ context.Context, resolved, failed int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fetched = append(h.fetched, resolved, failed)
}

func TestExecuteFiresStageHooks(t *testing.T) {
	hooks := &stageEvents{located: map[string]int{}, parsed: map[string]int{}}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	idx := newIndex(t)
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "dep_license\nflask\nunknown-pkg\n")
	writeFile(t, dir, "Pipfile", "[packages]\nflask = \"*\"\n")
	missing := filepath.Join(dir, "missing")

	_, err := newTestRunner().Execute(context.Background(), []string{dir, missing}, Options{IndexURL: idx.URL})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if hooks.located[dir] != 2 {
		t.Errorf("located[dir] = %d, want 2", hooks.located[dir])
	}
	if n, ok := hooks.located[missing]; !ok || n != 0 {
		t.Errorf("located[missing] = %d, %v; want 0, true", n, ok)
	}
	if hooks.parsed["requirements.txt"] != 3 || hooks.parsed["Pipfile"] != 1 {
		t.Errorf("parsed = %v", hooks.parsed)
	}
	if want := []int{2, 1}; !slices.Equal(hooks.fetched, want) {
		t.Errorf("fetch complete = %v, want %v", hooks.fetched, want)
	}
}
