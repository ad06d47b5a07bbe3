package license

import (
	"context"
	"strings"

	"github.com/matzehuels/deplic/pkg/integrations/pypi"
)

// Record is the license metadata of one package. Field names double as the
// JSON keys and report column headers.
type Record struct {
	Name       string `json:"Name"`       // Package name as declared
	Meta       string `json:"Meta"`       // Free-form license field, trimmed
	Classifier string `json:"Classifier"` // License trove classifiers, e.g. "OSI Approved::MIT License"
}

// Columns lists the record fields in report order.
var Columns = []string{"Name", "Meta", "Classifier"}

// Values returns the record fields in Columns order.
func (r Record) Values() []string {
	return []string{r.Name, r.Meta, r.Classifier}
}

// Metadata is what a Fetcher returns for one package.
type Metadata struct {
	License     string
	Classifiers []string
}

// Fetcher looks up package metadata in an index.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*Metadata, error)
}

// PyPIFetcher adapts a PyPI client to Fetcher.
type PyPIFetcher struct {
	Client  *pypi.Client
	Refresh bool // Bypass the response cache
}

// Fetch implements Fetcher.
func (f PyPIFetcher) Fetch(ctx context.Context, name string) (*Metadata, error) {
	info, err := f.Client.FetchPackage(ctx, name, f.Refresh)
	if err != nil {
		return nil, err
	}
	return &Metadata{License: info.License, Classifiers: info.Classifiers}, nil
}

// NewRecord builds the record for name from index metadata.
func NewRecord(name string, m *Metadata) Record {
	return Record{
		Name:       name,
		Meta:       strings.TrimSpace(m.License),
		Classifier: Classifier(m.Classifiers),
	}
}

// Classifier condenses the License trove classifiers. Each entry starting
// with "License" loses its first segment and has the rest trimmed and
// rejoined with "::", so "License :: OSI Approved :: MIT License" becomes
// "OSI Approved::MIT License". Distinct results are joined with ", ".
func Classifier(classifiers []string) string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range classifiers {
		if !strings.HasPrefix(c, "License") {
			continue
		}
		parts := strings.Split(c, "::")
		rest := make([]string, 0, len(parts))
		for _, p := range parts[1:] {
			rest = append(rest, strings.TrimSpace(p))
		}
		v := strings.Join(rest, "::")
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return strings.Join(out, ", ")
}

// CleanName strips surrounding whitespace and quote characters.
func CleanName(name string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(name), `"'`))
}
