package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/christopherklint97/pontaj/internal/isoweek"
	"github.com/christopherklint97/pontaj/internal/timesheet"
)

type config struct {
	now func() time.Time
}

type Option func(*config)

// WithClock sets the source of Metadata.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// Aggregate folds every in-range shift of every timesheet into a fresh
// Report. Rows without a readable date are skipped, and a worker appears
// only once one of its rows falls in range.
func Aggregate(sheets []timesheet.WorkerTimesheet, rng Range, policy timesheet.Policy, opts ...Option) Report {
	cfg := config{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	rep := Report{
		Metadata: Metadata{
			From:              formatBound(rng.From),
			To:                formatBound(rng.To),
			OvertimeThreshold: policy.Threshold,
			OvertimeRate:      policy.Rate,
			GeneratedAt:       cfg.now().UTC().Format(time.RFC3339Nano),
		},
		Workers: make(map[string]*Worker),
		Comparisons: Comparisons{
			Ranking: []RankEntry{},
		},
	}

	for _, sheet := range sheets {
		name := sheet.Worker()
		var w *Worker

		for _, row := range sheet.Rows {
			if row.Date == "" {
				continue
			}
			when, err := timesheet.ParseDate(row.Date)
			if err != nil || !rng.Contains(when) {
				continue
			}
			if w == nil {
				w = rep.worker(name)
			}

			stats := policy.Daily(row)

			d := w.day(row.Date)
			d.Add(stats)
			d.Entries++

			w.week(isoweek.Of(when)).Add(stats)
			w.Totals.Add(stats)
			rep.Comparisons.Totals.Add(stats)
		}
	}

	rep.Comparisons.Ranking = rank(rep.Workers)
	return rep
}

// worker returns the named entry, creating it on first use. Two sheets
// declaring the same name share one entry.
func (r *Report) worker(name string) *Worker {
	if w, ok := r.Workers[name]; ok {
		return w
	}
	w := &Worker{
		Name:   name,
		Daily:  make(map[string]*DayStats),
		Weekly: make(map[string]*WeekStats),
	}
	r.Workers[name] = w
	return w
}

func (w *Worker) day(date string) *DayStats {
	if d, ok := w.Daily[date]; ok {
		return d
	}
	d := &DayStats{Date: date}
	w.Daily[date] = d
	return d
}

func (w *Worker) week(info isoweek.Week) *WeekStats {
	if wk, ok := w.Weekly[info.Key]; ok {
		return wk
	}
	wk := &WeekStats{
		Key:        info.Key,
		WeekNumber: info.Number,
		Year:       info.Year,
		Start:      timesheet.FormatDate(info.Start),
		End:        timesheet.FormatDate(info.End),
	}
	w.Weekly[info.Key] = wk
	return wk
}

// rank orders workers by total hours, most first. Equal totals fall back
// to the worker name so output does not depend on map order.
func rank(workers map[string]*Worker) []RankEntry {
	ranking := make([]RankEntry, 0, len(workers))
	for _, w := range workers {
		ranking = append(ranking, RankEntry{Worker: w.Name, Stats: w.Totals})
	}
	slices.SortFunc(ranking, func(a, b RankEntry) int {
		if c := cmp.Compare(b.TotalHours, a.TotalHours); c != 0 {
			return c
		}
		return cmp.Compare(a.Worker, b.Worker)
	})
	return ranking
}
