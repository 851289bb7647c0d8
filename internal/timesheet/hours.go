package timesheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" into minutes since midnight. Ranges are not
// checked ("25:99" is 1599) and unreadable parts count as zero.
func ParseClock(s string) int {
	if s == "" {
		s = "0:0"
	}
	h, m, _ := strings.Cut(s, ":")
	return clockPart(h)*60 + clockPart(m)
}

func clockPart(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ShiftHours returns the worked hours of a shift. Rows without a start or
// end are worth nothing, and a break longer than the shift clamps at zero.
func ShiftHours(r ShiftRow) float64 {
	if r.Start == "" || r.End == "" {
		return 0
	}
	start := ParseClock(r.Start)
	end := ParseClock(r.End)
	if r.NextDay || end < start {
		end += minutesPerDay
	}
	return math.Max(0, float64(end-start-r.BreakMin)/60)
}

// Stats accumulates hours split by the overtime policy.
type Stats struct {
	TotalHours    float64 `json:"totalHours" yaml:"totalHours"`
	RegularHours  float64 `json:"regularHours" yaml:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours" yaml:"overtimeHours"`
	WeightedHours float64 `json:"weightedHours" yaml:"weightedHours"`
}

// Add folds o into s.
func (s *Stats) Add(o Stats) {
	s.TotalHours += o.TotalHours
	s.RegularHours += o.RegularHours
	s.OvertimeHours += o.OvertimeHours
	s.WeightedHours += o.WeightedHours
}

const (
	DefaultOvertimeThreshold = 8.0
	DefaultOvertimeRate      = 1.5
)

// Policy is a daily overtime rule: hours above Threshold in a single shift
// are overtime and weigh Rate times a regular hour.
type Policy struct {
	Threshold float64
	Rate      float64
}

func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultOvertimeThreshold, Rate: DefaultOvertimeRate}
}

func (p Policy) Validate() error {
	if p.Threshold < 0 || math.IsNaN(p.Threshold) {
		return fmt.Errorf("overtime threshold must be non-negative, got %v", p.Threshold)
	}
	if p.Rate < 0 || math.IsNaN(p.Rate) {
		return fmt.Errorf("overtime rate must be non-negative, got %v", p.Rate)
	}
	return nil
}

// Daily splits one shift into regular and overtime hours.
func (p Policy) Daily(r ShiftRow) Stats {
	total := ShiftHours(r)
	regular := math.Min(total, p.Threshold)
	overtime := math.Max(0, total-p.Threshold)
	return Stats{
		TotalHours:    total,
		RegularHours:  regular,
		OvertimeHours: overtime,
		WeightedHours: regular + overtime*p.Rate,
	}
}
