package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/deplic/pkg/license"
)

// Write renders records to w in the named format. Records are written in
// the order given.
func Write(w io.Writer, format string, records []license.Record) error {
	f, style, err := parseFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		return writeCSV(w, records)
	default:
		return writeTable(w, style, records)
	}
}

// Render is Write into a string.
func Render(format string, records []license.Record) (string, error) {
	var b strings.Builder
	if err := Write(&b, format, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(w io.Writer, records []license.Record) error {
	if records == nil {
		records = []license.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// writeCSV quotes every value, not only the ones that need it.
func writeCSV(w io.Writer, records []license.Record) error {
	if _, err := fmt.Fprintln(w, strings.Join(license.Columns, ",")); err != nil {
		return err
	}
	for _, r := range records {
		vals := r.Values()
		for i, v := range vals {
			vals[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		if _, err := fmt.Fprintln(w, strings.Join(vals, ",")); err != nil {
			return err
		}
	}
	return nil
}

type tableStyle int

const (
	styleRounded tableStyle = iota
	styleMarkdown
	styleGrid
	styleDouble
	styleNormal
	stylePlain
)

func writeTable(w io.Writer, style tableStyle, records []license.Record) error {
	// Styles bound to w emit no escape codes when w is not a terminal.
	re := lipgloss.NewRenderer(w)
	headerStyle := re.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := re.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Values())
	}

	t := table.New().
		Headers(license.Columns...).
		Rows(rows...).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	switch style {
	case styleMarkdown:
		t = t.Border(lipgloss.MarkdownBorder()).BorderTop(false).BorderBottom(false)
	case styleGrid:
		t = t.Border(lipgloss.NormalBorder()).BorderRow(true)
	case styleDouble:
		t = t.Border(lipgloss.DoubleBorder()).BorderRow(true)
	case styleNormal:
		t = t.Border(lipgloss.NormalBorder())
	case stylePlain:
		t = t.Border(lipgloss.HiddenBorder()).BorderHeader(false)
	default:
		t = t.Border(lipgloss.RoundedBorder())
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
