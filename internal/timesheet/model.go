package timesheet

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnknownWorker names a timesheet whose meta carries no worker.
const UnknownWorker = "necunoscut"

// ShiftRow is one worked shift as stored in a worker record.
type ShiftRow struct {
	Date     string `json:"date" jsonschema:"required,pattern=^[0-9]{4}-[0-9]{2}-[0-9]{2}$"`
	Start    string `json:"start" jsonschema:"required,pattern=^[0-9]?[0-9]:[0-9][0-9]$"`
	End      string `json:"end" jsonschema:"required,pattern=^[0-9]?[0-9]:[0-9][0-9]$"`
	NextDay  bool   `json:"nextDay"`
	BreakMin int    `json:"breakMin" jsonschema:"minimum=0"`
	Notes    string `json:"notes,omitempty"`
}

// Key identifies a shift for de-duplication on import.
func (r ShiftRow) Key() string {
	return strings.Join([]string{
		r.Date,
		r.Start,
		r.End,
		strconv.Itoa(r.BreakMin),
		strconv.FormatBool(r.NextDay),
	}, "|")
}

// UnmarshalJSON accepts the loose shapes hand-edited records tend to have:
// numbers for clock fields, strings for breakMin and nextDay.
func (r *ShiftRow) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding shift row: %w", err)
	}
	*r = ShiftRow{
		Date:     Text(raw["date"]),
		Start:    Text(raw["start"]),
		End:      Text(raw["end"]),
		NextDay:  Truthy(raw["nextDay"]),
		BreakMin: Minutes(raw["breakMin"]),
		Notes:    Text(raw["notes"]),
	}
	return nil
}

// WorkerTimesheet is one worker's full raw record.
type WorkerTimesheet struct {
	Meta Meta       `json:"meta" jsonschema:"required"`
	Rows []ShiftRow `json:"rows" jsonschema:"required"`
}

// Meta holds record metadata. Keys other than "worker" are carried through
// untouched when a record is rewritten.
type Meta map[string]any

// Worker returns the declared worker name, or UnknownWorker.
func (m Meta) Worker() string {
	if name := strings.TrimSpace(Text(m["worker"])); name != "" {
		return name
	}
	return UnknownWorker
}

// Worker is shorthand for ts.Meta.Worker().
func (ts WorkerTimesheet) Worker() string {
	return ts.Meta.Worker()
}

// Text renders a loosely typed value as a trimmed string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Truthy interprets boolean-like values: native bools, non-zero numbers and
// the words true, 1, da and yes in any case.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "da", "yes":
			return true
		}
	}
	return false
}

// Minutes reads a break duration. Anything non-numeric, negative or not
// finite is 0.
func Minutes(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(math.Round(f))
}
