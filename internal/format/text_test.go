package format

import (
	"strings"
	"testing"

	"github.com/christopherklint97/pontaj/internal/report"
	"github.com/christopherklint97/pontaj/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, from, to string, sheets ...timesheet.WorkerTimesheet) report.Report {
	t.Helper()
	rng, err := report.ParseRange(from, to)
	require.NoError(t, err)
	return report.Aggregate(sheets, rng, timesheet.DefaultPolicy())
}

func sheet(worker string, rows ...timesheet.ShiftRow) timesheet.WorkerTimesheet {
	return timesheet.WorkerTimesheet{Meta: timesheet.Meta{"worker": worker}, Rows: rows}
}

func TestText_HoursMinutes(t *testing.T) {
	rep := build(t, "01/09/2025", "30/09/2025",
		sheet("Alice", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "16:00", BreakMin: 30}),
		sheet("bob", timesheet.ShiftRow{Date: "2025-09-02", Start: "22:00", End: "02:00", NextDay: true}),
	)

	want := strings.Join([]string{
		"Alice",
		"  Total perioadă: 7 h 30 m (Reg: 7 h 30 m, Supl: 0 h 00 m, Ajustat: 7 h 30 m)",
		"  Săptămâni:",
		"    2025-W36 (01/09/2025 - 07/09/2025): 7 h 30 m (Reg: 7 h 30 m, Supl: 0 h 00 m)",
		"  Zile:",
		"    01/09/2025: 7 h 30 m (Reg: 7 h 30 m, Supl: 0 h 00 m) [1 schimb]",
		"",
		"bob",
		"  Total perioadă: 4 h 00 m (Reg: 4 h 00 m, Supl: 0 h 00 m, Ajustat: 4 h 00 m)",
		"  Săptămâni:",
		"    2025-W36 (01/09/2025 - 07/09/2025): 4 h 00 m (Reg: 4 h 00 m, Supl: 0 h 00 m)",
		"  Zile:",
		"    02/09/2025: 4 h 00 m (Reg: 4 h 00 m, Supl: 0 h 00 m) [1 schimb]",
		"",
		"Sumar comparativ:",
		"  1. Alice – 7 h 30 m (Reg: 7 h 30 m, Supl: 0 h 00 m, Ajustat: 7 h 30 m)",
		"  2. bob – 4 h 00 m (Reg: 4 h 00 m, Supl: 0 h 00 m, Ajustat: 4 h 00 m)",
		"  Total general: 11 h 30 m (Reg: 11 h 30 m, Supl: 0 h 00 m, Ajustat: 11 h 30 m)",
	}, "\n")

	assert.Equal(t, want, Text(rep, Options{Mode: HoursMinute}))
}

// Overtime applies per shift, so two shifts on one day are split separately.
func TestText_DecimalWithOvertimeAndISODates(t *testing.T) {
	rep := build(t, "2025-09-01", "2025-09-07",
		sheet("Alice",
			timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "18:00", BreakMin: 60},
			timesheet.ShiftRow{Date: "2025-09-01", Start: "19:00", End: "20:00"},
		),
	)

	got := Text(rep, Options{Mode: Decimal, Dates: DateISO})
	assert.Contains(t, got, "  Total perioadă: 10.00 h (Reg: 9.00 h, Supl: 1.00 h, Ajustat: 10.50 h)")
	assert.Contains(t, got, "    2025-W36 (2025-09-01 - 2025-09-07): 10.00 h (Reg: 9.00 h, Supl: 1.00 h)")
	assert.Contains(t, got, "    2025-09-01: 10.00 h (Reg: 9.00 h, Supl: 1.00 h) [2 schimburi]")
}

func TestText_Empty(t *testing.T) {
	rep := build(t, "2025-08-01", "2025-08-31",
		sheet("Alice", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "16:00"}),
	)
	assert.Empty(t, Text(rep, Options{}))
	assert.Empty(t, Text(report.Report{}, Options{}))
}

func TestHours(t *testing.T) {
	tests := []struct {
		h    float64
		mode Mode
		want string
	}{
		{7.5, Decimal, "7.50 h"},
		{0, Decimal, "0.00 h"},
		{7.5, HoursMinute, "7 h 30 m"},
		{0, HoursMinute, "0 h 00 m"},
		{1.9999, HoursMinute, "2 h 00 m"},
		{10.0 / 60, HoursMinute, "0 h 10 m"},
		{25.25, HoursMinute, "25 h 15 m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Hours(tt.h, tt.mode))
	}
}

func TestShifts(t *testing.T) {
	assert.Equal(t, "1 schimb", Shifts(1))
	assert.Equal(t, "2 schimburi", Shifts(2))
	assert.Equal(t, "0 schimburi", Shifts(0))
}

func TestSortedNames_Collation(t *testing.T) {
	rep := build(t, "", "",
		sheet("Ștefan", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "09:00"}),
		sheet("bogdan", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "09:00"}),
		sheet("Sorin", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "09:00"}),
		sheet("Ana", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "09:00"}),
		sheet("Tudor", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "09:00"}),
	)
	assert.Equal(t, []string{"Ana", "bogdan", "Sorin", "Ștefan", "Tudor"}, SortedNames(rep))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Decimal, m)

	m, err = ParseMode("hours-minutes")
	require.NoError(t, err)
	assert.Equal(t, HoursMinute, m)

	_, err = ParseMode("minutes")
	assert.Error(t, err)
}

func TestWorker(t *testing.T) {
	rep := build(t, "", "",
		sheet("Ana", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "10:00"}),
		sheet("Dan", timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "09:00"}),
	)
	got := Worker(rep.Workers["Dan"], Options{Mode: Decimal})
	assert.Equal(t, strings.Join([]string{
		"Dan",
		"  Total perioadă: 1.00 h (Reg: 1.00 h, Supl: 0.00 h, Ajustat: 1.00 h)",
		"  Săptămâni:",
		"    2025-W36 (01/09/2025 - 07/09/2025): 1.00 h (Reg: 1.00 h, Supl: 0.00 h)",
		"  Zile:",
		"    01/09/2025: 1.00 h (Reg: 1.00 h, Supl: 0.00 h) [1 schimb]",
	}, "\n"), got)
	assert.NotContains(t, got, "Ana")
}
