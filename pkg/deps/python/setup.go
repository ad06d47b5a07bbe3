package python

import (
	"regexp"
	"strings"

	"github.com/matzehuels/deplic/pkg/deps"
)

var (
	setupKeywordRE = regexp.MustCompile(`\b(install_requires|setup_requires)\s*=\s*`)
	identRE        = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	stringLitRE    = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'`)
)

// Setup extracts dependencies from setup.py without executing it.
//
// Only literal lists are understood: install_requires=[...] and
// setup_requires=[...], or either keyword bound to a module-level name
// assigned a literal list (REQUIRED = [...]). Anything computed at run time
// is missed.
type Setup struct{}

func (s *Setup) Kind() deps.Kind           { return deps.KindSetup }
func (s *Setup) Supports(name string) bool { return name == "setup.py" }

func (s *Setup) Parse(path string, opts deps.Options) ([]string, error) {
	data, ok, err := readManifest(path)
	if err != nil || !ok {
		return nil, err
	}
	logger := opts.WithDefaults().Logger
	src := string(data)

	var reqs []string
	for _, m := range setupKeywordRE.FindAllStringSubmatchIndex(src, -1) {
		keyword, rest := src[m[2]:m[3]], src[m[1]:]
		body, ok := listLiteral(rest)
		if !ok {
			name := identRE.FindString(rest)
			if name == "" {
				logger("setup.py: %s is not a literal list", keyword)
				continue
			}
			if body, ok = assignedList(src, name); !ok {
				logger("setup.py: cannot resolve %s = %s statically", keyword, name)
				continue
			}
		}
		reqs = append(reqs, stringLiterals(body)...)
	}
	return ExtractProjects(reqs, logger), nil
}

// assignedList finds a top-level "name = [...]" and returns the list body.
func assignedList(src, name string) (string, bool) {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name) + `\s*=\s*`)
	loc := re.FindStringIndex(src)
	if loc == nil {
		return "", false
	}
	return listLiteral(src[loc[1]:])
}

// listLiteral returns the contents of the bracketed list src starts with,
// with comments removed. Brackets inside string literals (extras like
// "pkg[socks]") are ignored.
func listLiteral(src string) (string, bool) {
	if src == "" || (src[0] != '[' && src[0] != '(') {
		return "", false
	}
	open, closing := src[0], byte(']')
	if open == '(' {
		closing = ')'
	}

	var body strings.Builder
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(src) {
				body.WriteByte(c)
				i++
				c = src[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			for i+1 < len(src) && src[i+1] != '\n' {
				i++
			}
			continue
		case c == open:
			depth++
			if depth == 1 {
				continue
			}
		case c == closing:
			depth--
			if depth == 0 {
				return body.String(), true
			}
		}
		body.WriteByte(c)
	}
	return "", false
}

func stringLiterals(body string) []string {
	var out []string
	for _, m := range stringLitRE.FindAllStringSubmatch(body, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}
