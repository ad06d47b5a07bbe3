package python

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/deplic/pkg/deps"
)

// PyprojectBuild parses the build-system.requires list of pyproject.toml.
type PyprojectBuild struct{}

func (p *PyprojectBuild) Kind() deps.Kind           { return deps.KindPyprojectBuild }
func (p *PyprojectBuild) Supports(name string) bool { return name == "pyproject.toml" }

func (p *PyprojectBuild) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}

	var doc struct {
		BuildSystem struct {
			Requires []string `toml:"requires"`
		} `toml:"build-system"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return ExtractProjects(doc.BuildSystem.Requires, opts.WithDefaults().Logger), nil
}

// PyprojectPoetry parses [tool.poetry.dependencies] of pyproject.toml.
// The python constraint and path dependencies are skipped since neither
// can be looked up in the index.
type PyprojectPoetry struct{}

func (p *PyprojectPoetry) Kind() deps.Kind           { return deps.KindPyprojectPoetry }
func (p *PyprojectPoetry) Supports(name string) bool { return name == "pyproject.toml" }

func (p *PyprojectPoetry) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}

	var doc struct {
		Tool struct {
			Poetry struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}

	table := doc.Tool.Poetry.Dependencies
	var out []string
	for _, key := range md.Keys() {
		if len(key) != 4 || key[0] != "tool" || key[1] != "poetry" || key[2] != "dependencies" {
			continue
		}
		name := key[3]
		if name == "python" || isPathDep(table[name]) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func isPathDep(v any) bool {
	t, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = t["path"]
	return ok
}
