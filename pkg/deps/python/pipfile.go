package python

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/deplic/pkg/deps"
)

// Pipfile parses Pipfile manifests: the keys of [packages], plus
// [dev-packages] when dev dependencies are requested.
type Pipfile struct{}

func (p *Pipfile) Kind() deps.Kind           { return deps.KindPipfile }
func (p *Pipfile) Supports(name string) bool { return name == "Pipfile" }

func (p *Pipfile) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}

	sections := []string{"packages"}
	if opts.Dev {
		sections = append(sections, "dev-packages")
	}
	return tableKeys(data, sections...)
}

// tableKeys returns the direct keys of each named top-level table in
// document order.
func tableKeys(data []byte, tables ...string) ([]string, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, table := range tables {
		for _, key := range md.Keys() {
			if len(key) == 2 && key[0] == table {
				out = append(out, key[1])
			}
		}
	}
	return out, nil
}

// PipfileLock parses Pipfile.lock: the keys of "default", plus "develop"
// when dev dependencies are requested. Key order follows the document.
type PipfileLock struct{}

func (p *PipfileLock) Kind() deps.Kind           { return deps.KindPipfileLock }
func (p *PipfileLock) Supports(name string) bool { return name == "Pipfile.lock" }

func (p *PipfileLock) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}

	var lock map[string]json.RawMessage
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	sections := []string{"default"}
	if opts.Dev {
		sections = append(sections, "develop")
	}

	var out []string
	for _, s := range sections {
		raw, ok := lock[s]
		if !ok {
			continue
		}
		keys, err := objectKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}
		out = append(out, keys...)
	}
	return out, nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
