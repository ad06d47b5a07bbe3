package python

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/matzehuels/deplic/pkg/deps"
)

// Requirements parses pip requirement files (requirements.txt and
// requirements-*.txt variants). Lines starting with "-" (options,
// editable installs, -r includes) are skipped.
type Requirements struct{}

func (r *Requirements) Kind() deps.Kind { return deps.KindRequirements }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}
	return parseRequirements(data, opts.WithDefaults().Logger)
}

// Freeze parses `pip freeze` output captured from an installed
// environment. The format is a requirements file of name==version lines.
type Freeze struct{}

func (f *Freeze) Kind() deps.Kind { return deps.KindFreeze }

// Supports is always false: freeze output is produced by the locator, not
// found on disk.
func (f *Freeze) Supports(string) bool { return false }

func (f *Freeze) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}
	return parseRequirements(data, opts.WithDefaults().Logger)
}

func parseRequirements(data []byte, logger func(string, ...any)) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '-' {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ExtractProjects(lines, logger), nil
}
