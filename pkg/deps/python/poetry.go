package python

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/deplic/pkg/deps"
)

// PoetryLock parses poetry.lock files. Every locked package is reported,
// including transitive ones, in file order.
type PoetryLock struct{}

func (p *PoetryLock) Kind() deps.Kind           { return deps.KindPoetryLock }
func (p *PoetryLock) Supports(name string) bool { return name == "poetry.lock" }

func (p *PoetryLock) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	var out []string
	for _, pkg := range lock.Packages {
		if pkg.Name != "" {
			out = append(out, pkg.Name)
		}
	}
	return out, nil
}

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}
