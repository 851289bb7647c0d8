// Package report aggregates worker timesheets into daily, weekly and period
// summaries with an overtime split and a cross-worker ranking.
package report

import (
	"slices"
	"strings"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

type Report struct {
	Metadata    Metadata           `json:"metadata" yaml:"metadata"`
	Workers     map[string]*Worker `json:"workers" yaml:"workers"`
	Comparisons Comparisons        `json:"comparisons" yaml:"comparisons"`
}

type Metadata struct {
	From              string  `json:"from,omitempty" yaml:"from,omitempty"`
	To                string  `json:"to,omitempty" yaml:"to,omitempty"`
	OvertimeThreshold float64 `json:"overtimeThreshold" yaml:"overtimeThreshold"`
	OvertimeRate      float64 `json:"overtimeRate" yaml:"overtimeRate"`
	GeneratedAt       string  `json:"generatedAt" yaml:"generatedAt"`
}

type Worker struct {
	Name   string                `json:"name" yaml:"name"`
	Totals timesheet.Stats       `json:"totals" yaml:"totals"`
	Daily  map[string]*DayStats  `json:"daily" yaml:"daily"`
	Weekly map[string]*WeekStats `json:"weekly" yaml:"weekly"`
}

type DayStats struct {
	Date            string `json:"date" yaml:"date"`
	timesheet.Stats `yaml:",inline"`
	Entries         int `json:"entries" yaml:"entries"`
}

type WeekStats struct {
	Key             string `json:"key" yaml:"key"`
	WeekNumber      int    `json:"weekNumber" yaml:"weekNumber"`
	Year            int    `json:"year" yaml:"year"`
	Start           string `json:"start" yaml:"start"`
	End             string `json:"end" yaml:"end"`
	timesheet.Stats `yaml:",inline"`
}

type Comparisons struct {
	Totals  timesheet.Stats `json:"totals" yaml:"totals"`
	Ranking []RankEntry     `json:"ranking" yaml:"ranking"`
}

type RankEntry struct {
	Worker          string `json:"worker" yaml:"worker"`
	timesheet.Stats `yaml:",inline"`
}

// Empty reports whether no worker had activity in range.
func (r Report) Empty() bool {
	return len(r.Workers) == 0
}

// WorkerNames returns worker names in byte order.
func (r Report) WorkerNames() []string {
	names := make([]string, 0, len(r.Workers))
	for name := range r.Workers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Days returns the worker's day buckets in date order.
func (w *Worker) Days() []*DayStats {
	days := make([]*DayStats, 0, len(w.Daily))
	for _, d := range w.Daily {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b *DayStats) int {
		if c := compareDates(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Date, b.Date)
	})
	return days
}

// Weeks returns the worker's week buckets ordered by their Monday.
func (w *Worker) Weeks() []*WeekStats {
	weeks := make([]*WeekStats, 0, len(w.Weekly))
	for _, wk := range w.Weekly {
		weeks = append(weeks, wk)
	}
	slices.SortFunc(weeks, func(a, b *WeekStats) int {
		return strings.Compare(a.Start, b.Start)
	})
	return weeks
}

// compareDates orders day keys chronologically. Keys are literal row dates,
// so "01/09/2025" and "2025-09-02" may share a worker.
func compareDates(a, b string) int {
	ta, errA := timesheet.ParseDate(a)
	tb, errB := timesheet.ParseDate(b)
	if errA != nil || errB != nil {
		return 0
	}
	return ta.Compare(tb)
}
