// Package format renders an aggregated report as plain text.
package format

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/christopherklint97/pontaj/internal/report"
	"github.com/christopherklint97/pontaj/internal/timesheet"
)

// NoActivity is what callers print when Text returns nothing.
const NoActivity = "No activity found for selected period."

type Mode string

const (
	Decimal     Mode = "decimal"
	HoursMinute Mode = "hours-minutes"
)

// ParseMode accepts the mode names used on the command line.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Decimal:
		return Decimal, nil
	case HoursMinute:
		return HoursMinute, nil
	}
	return "", fmt.Errorf("unknown hours format %q (want %q or %q)", s, Decimal, HoursMinute)
}

// Date display variants.
const (
	DateDMY = "dmy"
	DateISO = "iso"
)

type Options struct {
	Mode Mode
	// Dates selects DateDMY (default) or DateISO for day and week labels.
	Dates string
}

func (o Options) dateLayout() string {
	if o.Dates == DateISO {
		return timesheet.DateLayout
	}
	return timesheet.DMYLayout
}

// Hours renders h as "7.50 h" or, in HoursMinute mode, "7 h 30 m".
func Hours(h float64, mode Mode) string {
	if mode == HoursMinute {
		total := int(math.Round(h * 60))
		return fmt.Sprintf("%d h %02d m", total/60, total%60)
	}
	return fmt.Sprintf("%.2f h", h)
}

// Text renders rep, or returns "" when no worker had activity.
func Text(rep report.Report, opts Options) string {
	if rep.Empty() {
		return ""
	}
	h := func(v float64) string { return Hours(v, opts.Mode) }

	var lines []string
	for _, name := range SortedNames(rep) {
		lines = append(lines, workerLines(rep.Workers[name], opts)...)
		lines = append(lines, "")
	}

	if len(rep.Comparisons.Ranking) > 0 {
		lines = append(lines, "Sumar comparativ:")
		for i, e := range rep.Comparisons.Ranking {
			lines = append(lines, fmt.Sprintf("  %d. %s – %s (Reg: %s, Supl: %s, Ajustat: %s)",
				i+1, e.Worker, h(e.TotalHours), h(e.RegularHours), h(e.OvertimeHours), h(e.WeightedHours)))
		}
		t := rep.Comparisons.Totals
		lines = append(lines, fmt.Sprintf("  Total general: %s (Reg: %s, Supl: %s, Ajustat: %s)",
			h(t.TotalHours), h(t.RegularHours), h(t.OvertimeHours), h(t.WeightedHours)))
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Worker renders one worker's block: period total, weeks and days.
func Worker(w *report.Worker, opts Options) string {
	return strings.Join(workerLines(w, opts), "\n")
}

func workerLines(w *report.Worker, opts Options) []string {
	h := func(v float64) string { return Hours(v, opts.Mode) }
	date := func(s string) string { return displayDate(s, opts.dateLayout()) }

	lines := []string{
		w.Name,
		fmt.Sprintf("  Total perioadă: %s (Reg: %s, Supl: %s, Ajustat: %s)",
			h(w.Totals.TotalHours), h(w.Totals.RegularHours), h(w.Totals.OvertimeHours), h(w.Totals.WeightedHours)),
	}

	if weeks := w.Weeks(); len(weeks) > 0 {
		lines = append(lines, "  Săptămâni:")
		for _, wk := range weeks {
			lines = append(lines, fmt.Sprintf("    %s (%s - %s): %s (Reg: %s, Supl: %s)",
				wk.Key, date(wk.Start), date(wk.End), h(wk.TotalHours), h(wk.RegularHours), h(wk.OvertimeHours)))
		}
	}

	if days := w.Days(); len(days) > 0 {
		lines = append(lines, "  Zile:")
		for _, d := range days {
			lines = append(lines, fmt.Sprintf("    %s: %s (Reg: %s, Supl: %s) [%s]",
				date(d.Date), h(d.TotalHours), h(d.RegularHours), h(d.OvertimeHours), Shifts(d.Entries)))
		}
	}
	return lines
}

// Shifts renders a shift count with Romanian plural agreement.
func Shifts(n int) string {
	if n == 1 {
		return "1 schimb"
	}
	return fmt.Sprintf("%d schimburi", n)
}

// SortedNames orders worker names the way a Romanian reader expects, so
// "Ștefan" sorts after "Sorin" and case does not split the list.
func SortedNames(rep report.Report) []string {
	names := rep.WorkerNames()
	c := collate.New(language.Romanian)
	slices.SortStableFunc(names, func(a, b string) int {
		return c.CompareString(a, b)
	})
	return names
}

func displayDate(s, layout string) string {
	t, err := timesheet.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format(layout)
}
