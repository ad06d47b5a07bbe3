package python

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/deplic/pkg/deps"
)

// Conda parses conda environment files. Only the pip sub-list of
// "dependencies" is used: conda packages are not published on PyPI.
type Conda struct{}

func (c *Conda) Kind() deps.Kind { return deps.KindConda }

func (c *Conda) Supports(name string) bool {
	switch name {
	case "conda.yml", "conda.yaml", "environment.yml", "environment.yaml":
		return true
	}
	return false
}

func (c *Conda) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}

	var env struct {
		Dependencies any `yaml:"dependencies"`
	}
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	list, ok := env.Dependencies.([]any)
	if !ok {
		return nil, nil
	}

	var reqs []string
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		pip, ok := m["pip"].([]any)
		if !ok {
			continue
		}
		for _, r := range pip {
			reqs = append(reqs, fmt.Sprint(r))
		}
	}
	return ExtractProjects(reqs, opts.WithDefaults().Logger), nil
}
