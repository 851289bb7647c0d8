package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for sources whose extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported import format (use CSV, JSON, YAML, XLSX or ICS)")
	// ErrNothingToImport is returned when a source holds no valid rows.
	ErrNothingToImport = errors.New("no valid rows found in source")
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
	XLSX Format = "xlsx"
	ICS  Format = "ics"
)

// FormatOf picks a reader from the extension of a file path or URL.
func FormatOf(source string) (Format, error) {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	switch ext {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "xlsx":
		return XLSX, nil
	case "ics", "ical":
		return ICS, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path.Base(p))
}

// Decode reads raw rows in the given format. loc places calendar events on
// local dates; nil means time.Local.
func Decode(r io.Reader, f Format, loc *time.Location) ([]map[string]any, error) {
	switch f {
	case CSV:
		return decodeCSV(r)
	case JSON:
		return decodeJSON(r)
	case YAML:
		return decodeYAML(r)
	case XLSX:
		return decodeXLSX(r)
	case ICS:
		if loc == nil {
			loc = time.Local
		}
		return decodeICS(r, loc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func decodeCSV(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return table(records, func(s string) any { return s }), nil
}

// table turns a header row plus data rows into keyed rows. Blank lines and
// cells beyond the header are ignored; missing cells are "".
func table(records [][]string, cell func(string) any) []map[string]any {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []map[string]any
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(map[string]any, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			row[h] = cell(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func decodeJSON(r io.Reader) ([]map[string]any, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return rowsOf(doc, "JSON")
}

func decodeYAML(r io.Reader) ([]map[string]any, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return rowsOf(doc, "YAML")
}

// rowsOf accepts either a bare list of rows or an object with a "rows" list.
func rowsOf(doc any, kind string) ([]map[string]any, error) {
	if obj, ok := doc.(map[string]any); ok {
		if rows, ok := obj["rows"]; ok {
			doc = rows
		}
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%s document must be a list of rows or an object with a \"rows\" list", kind)
	}

	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func decodeXLSX(r io.Reader) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return table(records, spreadsheetCell), nil
}

// spreadsheetCell keeps numeric cells numeric so serial dates and day
// fractions survive.
func spreadsheetCell(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func decodeICS(r io.Reader, loc *time.Location) ([]map[string]any, error) {
	dec := ical.NewDecoder(r)
	var rows []map[string]any

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			// all-day events are not shifts
			if p := event.Props.Get(ical.PropDateTimeStart); p == nil || p.ValueType() == ical.ValueDate {
				continue
			}
			start, err := event.DateTimeStart(loc)
			if err != nil {
				continue
			}
			end, err := event.DateTimeEnd(loc)
			if err != nil || !end.After(start) || end.Sub(start) >= 24*time.Hour {
				continue
			}
			start, end = start.In(loc), end.In(loc)

			summary, _ := event.Props.Text(ical.PropSummary)
			sy, sm, sd := start.Date()
			ey, em, ed := end.Date()
			rows = append(rows, map[string]any{
				"date":    start.Format("2006-01-02"),
				"start":   start.Format("15:04"),
				"end":     end.Format("15:04"),
				"nextDay": sy != ey || sm != em || sd != ed,
				"notes":   summary,
			})
		}
	}

	return rows, nil
}
