// Package importer turns external timesheet files into shift rows and merges
// them into a worker record without duplicating shifts already on file.
package importer

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

// serialEpoch is the day offset between spreadsheet serial dates and the
// Unix epoch.
const serialEpoch = 25568

type field int

const (
	fieldDate field = iota
	fieldStart
	fieldEnd
	fieldBreak
	fieldNotes
	fieldNextDay
)

// aliases lists accepted column names per field, in priority order.
var aliases = [...][]string{
	fieldDate:    {"date", "data"},
	fieldStart:   {"start", "inceput"},
	fieldEnd:     {"end", "sfarsit"},
	fieldBreak:   {"breakMin", "break", "break(min)", "pauza"},
	fieldNotes:   {"notes", "observatii"},
	fieldNextDay: {"nextDay", "next day", "ziUrmatoare"},
}

// columns maps each field to the lower-cased column name the dataset uses
// for it. A field with no matching column maps to "".
type columns [len(aliases)]string

func resolveColumns(rows []map[string]any) columns {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[normalizeHeader(k)] = true
		}
	}

	var cols columns
	for f, names := range aliases {
		for _, name := range names {
			if key := normalizeHeader(name); present[key] {
				cols[f] = key
				break
			}
		}
	}
	return cols
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Sanitize normalizes raw imported rows into shift rows. Column aliases are
// resolved once for the whole dataset. Rows lacking a usable date, start or
// end are dropped.
func Sanitize(raw []map[string]any) []timesheet.ShiftRow {
	cols := resolveColumns(raw)

	out := make([]timesheet.ShiftRow, 0, len(raw))
	for _, row := range raw {
		values := make(map[string]any, len(row))
		for k, v := range row {
			values[normalizeHeader(k)] = v
		}
		get := func(f field) any {
			if cols[f] == "" {
				return nil
			}
			return values[cols[f]]
		}

		r := timesheet.ShiftRow{
			Date:     normalizeDate(get(fieldDate)),
			Start:    clockText(get(fieldStart)),
			End:      clockText(get(fieldEnd)),
			BreakMin: timesheet.Minutes(get(fieldBreak)),
			Notes:    timesheet.Text(get(fieldNotes)),
			NextDay:  timesheet.Truthy(get(fieldNextDay)),
		}
		if r.Date == "" || r.Start == "" || r.End == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// normalizeDate returns v as YYYY-MM-DD, or "" when it is not a date.
func normalizeDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return timesheet.FormatDate(t.UTC())
	case float64:
		return serialDate(t)
	case int:
		return serialDate(float64(t))
	case int64:
		return serialDate(float64(t))
	case string:
		d, err := timesheet.ParseDate(t)
		if err != nil {
			return ""
		}
		return timesheet.FormatDate(d)
	}
	return ""
}

func serialDate(serial float64) string {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return ""
	}
	secs := (serial - serialEpoch) * 86400
	if math.Abs(secs) > math.MaxInt64/float64(time.Second) {
		return ""
	}
	return timesheet.FormatDate(time.Unix(0, 0).UTC().Add(time.Duration(secs * float64(time.Second))))
}

// clockText renders a start or end cell. Spreadsheets store times of day as
// fractions of a day.
func clockText(v any) string {
	if f, ok := v.(float64); ok && f >= 0 && f < 1 {
		mins := int(math.Round(f * 1440))
		return fmt.Sprintf("%02d:%02d", mins/60%24, mins%60)
	}
	return timesheet.Text(v)
}

// Merge keeps every existing row and appends the incoming rows whose key is
// not yet present, then orders the result by date. Rows sharing a date keep
// their relative order.
func Merge(existing, incoming []timesheet.ShiftRow) []timesheet.ShiftRow {
	merged := make([]timesheet.ShiftRow, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, r := range existing {
		merged = append(merged, r)
		seen[r.Key()] = struct{}{}
	}
	for _, r := range incoming {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
	}
	slices.SortStableFunc(merged, func(a, b timesheet.ShiftRow) int {
		return strings.Compare(a.Date, b.Date)
	})
	return merged
}
