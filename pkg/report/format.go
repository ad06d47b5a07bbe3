package report

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/deplic/pkg/errors"
)

// Format selects how records are rendered.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatTable Format = "table"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatTable

// tableStyles maps table style names, including the tabulate names users
// know from other tools, onto a table layout.
var tableStyles = map[string]tableStyle{
	"table":      styleRounded,
	"rounded":    styleRounded,
	"github":     styleMarkdown,
	"pipe":       styleMarkdown,
	"markdown":   styleMarkdown,
	"grid":       styleGrid,
	"fancy_grid": styleDouble,
	"psql":       styleNormal,
	"orgtbl":     styleNormal,
	"simple":     stylePlain,
	"plain":      stylePlain,
}

// Formats returns every accepted format name, sorted.
func Formats() []string {
	names := []string{string(FormatJSON), string(FormatCSV)}
	for name := range tableStyles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseFormat resolves a user-supplied format name (case-insensitive).
// An empty name selects DefaultFormat.
func ParseFormat(name string) (Format, error) {
	f, _, err := parseFormat(name)
	return f, err
}

func parseFormat(name string) (Format, tableStyle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return DefaultFormat, styleRounded, nil
	case string(FormatJSON):
		return FormatJSON, 0, nil
	case string(FormatCSV):
		return FormatCSV, 0, nil
	}
	if style, ok := tableStyles[name]; ok {
		return FormatTable, style, nil
	}
	return "", 0, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want json, csv or a table style such as github, grid, plain)", name)
}
