// Package export writes an aggregated report to files: a flat table as CSV
// or XLSX, the text rendering as PDF, or the full structure as JSON or YAML.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/christopherklint97/pontaj/internal/format"
	"github.com/christopherklint97/pontaj/internal/report"
)

var ErrUnsupportedFormat = errors.New("unsupported export format (use csv, xlsx, pdf, json or yaml)")

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX, PDF, JSON, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

type Options struct {
	// Text controls the rendering embedded in PDF output.
	Text format.Options
}

// Write encodes rep to w in format f.
func Write(w io.Writer, rep report.Report, f Format, opts Options) error {
	switch f {
	case CSV:
		return writeCSV(w, rep)
	case XLSX:
		return writeXLSX(w, rep)
	case PDF:
		return writePDF(w, rep, opts)
	case JSON:
		return writeJSON(w, rep)
	case YAML:
		return writeYAML(w, rep)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

var tableHeader = []any{"Worker", "Scope", "Label", "Total Hours", "Regular Hours", "Overtime Hours", "Weighted Hours"}

// table flattens rep into rows: per worker a period total, its weeks and its
// days, then the ranking and grand total. Hour cells are float64.
func table(rep report.Report) [][]any {
	rows := [][]any{tableHeader}
	for _, name := range format.SortedNames(rep) {
		w := rep.Workers[name]
		rows = append(rows, statsRow([]any{w.Name, "Total", "Perioadă selectată"}, w.Totals.TotalHours, w.Totals.RegularHours, w.Totals.OvertimeHours, w.Totals.WeightedHours))
		for _, wk := range w.Weeks() {
			label := fmt.Sprintf("%s (%s - %s)", wk.Key, wk.Start, wk.End)
			rows = append(rows, statsRow([]any{w.Name, "Săptămână", label}, wk.TotalHours, wk.RegularHours, wk.OvertimeHours, wk.WeightedHours))
		}
		for _, d := range w.Days() {
			rows = append(rows, statsRow([]any{w.Name, "Zi", d.Date}, d.TotalHours, d.RegularHours, d.OvertimeHours, d.WeightedHours))
		}
	}

	if len(rep.Comparisons.Ranking) > 0 {
		rows = append(rows,
			[]any{},
			[]any{"Comparative Ranking"},
			[]any{"Poz", "Worker", "Total Hours", "Regular Hours", "Overtime Hours", "Weighted Hours"},
		)
		for i, e := range rep.Comparisons.Ranking {
			rows = append(rows, statsRow([]any{i + 1, e.Worker}, e.TotalHours, e.RegularHours, e.OvertimeHours, e.WeightedHours))
		}
		t := rep.Comparisons.Totals
		rows = append(rows, statsRow([]any{"", "Total general"}, t.TotalHours, t.RegularHours, t.OvertimeHours, t.WeightedHours))
	}
	return rows
}

func statsRow(prefix []any, hours ...float64) []any {
	row := prefix
	for _, h := range hours {
		row = append(row, h)
	}
	return row
}

// cellText renders a table cell the way CSV shows it.
func cellText(v any) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%.2f", t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
