package timesheet

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical on-disk date form.
	DateLayout = "2006-01-02"
	// DMYLayout is the day/month/year form accepted on input and used for display.
	DMYLayout = "02/01/2006"
)

var dateLayouts = []string{
	DateLayout,
	DMYLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate reads a date in ISO or DD/MM/YYYY form. Dates without a zone
// are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (expected YYYY-MM-DD or DD/MM/YYYY)", s)
}

// FormatDate renders t's calendar date in canonical form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
