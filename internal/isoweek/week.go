// Package isoweek numbers calendar dates by ISO-8601 week: weeks start on
// Monday and week 1 is the week holding the year's first Thursday.
package isoweek

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Week describes the ISO week containing some date.
type Week struct {
	Key    string // "2025-W36"
	Number int
	Year   int
	Start  time.Time // Monday 00:00:00.000
	End    time.Time // Sunday 23:59:59.999
}

// Of returns the ISO week holding d.
func Of(d time.Time) Week {
	start, end := Bounds(d)
	n, y := Number(d), Year(d)
	return Week{
		Key:    Key(y, n),
		Number: n,
		Year:   y,
		Start:  start,
		End:    end,
	}
}

// Key formats a week identifier such as "2025-W01".
func Key(year, number int) string {
	return fmt.Sprintf("%d-W%02d", year, number)
}

// weekday counts Monday as 1 and Sunday as 7.
func weekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd
}

func midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// thursday moves d to the Thursday of its Monday-based week.
func thursday(d time.Time) time.Time {
	d = midnight(d)
	return d.AddDate(0, 0, 4-weekday(d))
}

// Number returns d's ISO week number: the distance in weeks between the
// Thursday of d's week and the Thursday of week 1 of that Thursday's year.
func Number(d time.Time) int {
	t := thursday(d)
	first := thursday(time.Date(t.Year(), time.January, 4, 0, 0, 0, 0, time.UTC))
	return 1 + int(t.Sub(first)/day)/7
}

// Year returns the ISO week-year, which differs from the calendar year for
// dates in the first or last days of January/December.
func Year(d time.Time) int {
	return thursday(d).Year()
}

// Bounds returns the first and last instant of d's Monday–Sunday week.
func Bounds(d time.Time) (start, end time.Time) {
	d = midnight(d)
	start = d.AddDate(0, 0, 1-weekday(d))
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}
