package isoweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNumberAndYear(t *testing.T) {
	tests := []struct {
		date     time.Time
		wantWeek int
		wantYear int
	}{
		{date(2025, time.September, 1), 36, 2025},
		{date(2025, time.September, 7), 36, 2025},
		{date(2024, time.December, 30), 1, 2025},
		{date(2025, time.January, 1), 1, 2025},
		{date(2021, time.January, 1), 53, 2020},
		{date(2021, time.January, 3), 53, 2020},
		{date(2021, time.January, 4), 1, 2021},
		{date(2026, time.January, 1), 1, 2026},
		{date(2027, time.January, 1), 53, 2026},
		{date(2020, time.December, 31), 53, 2020},
	}
	for _, tt := range tests {
		t.Run(tt.date.Format("2006-01-02"), func(t *testing.T) {
			assert.Equal(t, tt.wantWeek, Number(tt.date))
			assert.Equal(t, tt.wantYear, Year(tt.date))
		})
	}
}

func TestNumber_MatchesStandardLibrary(t *testing.T) {
	for d := date(2015, time.January, 1); d.Before(date(2031, time.January, 1)); d = d.AddDate(0, 0, 1) {
		year, week := d.ISOWeek()
		if Number(d) != week || Year(d) != year {
			t.Fatalf("%s: got %d-W%02d, want %d-W%02d", d.Format("2006-01-02"), Year(d), Number(d), year, week)
		}
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday", date(2025, time.September, 1)},
		{"wednesday", date(2025, time.September, 3)},
		{"sunday", date(2025, time.September, 7)},
		{"with clock time", time.Date(2025, time.September, 5, 17, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Bounds(tt.in)
			assert.Equal(t, date(2025, time.September, 1), start)
			assert.Equal(t, time.Date(2025, time.September, 7, 23, 59, 59, 999_000_000, time.UTC), end)
		})
	}
}

func TestOf(t *testing.T) {
	w := Of(date(2021, time.January, 2))
	assert.Equal(t, "2020-W53", w.Key)
	assert.Equal(t, 53, w.Number)
	assert.Equal(t, 2020, w.Year)
	assert.Equal(t, date(2020, time.December, 28), w.Start)
	assert.Equal(t, "2021-01-03", w.End.Format("2006-01-02"))

	assert.Equal(t, "2025-W02", Of(date(2025, time.January, 8)).Key)
}
