package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

var (
	ErrInvalidBound  = errors.New("invalid date bound")
	ErrInvertedRange = errors.New("inverted date range")
)

// BoundError reports which side of a date range could not be parsed.
type BoundError struct {
	Bound string // "from" or "to"
	Value string
	Err   error
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("invalid %s date %q: %v", e.Bound, e.Value, e.Err)
}

func (e *BoundError) Unwrap() []error {
	return []error{ErrInvalidBound, e.Err}
}

// Range bounds an aggregation. A zero From or To leaves that side open.
// Both bounds are inclusive.
type Range struct {
	From time.Time
	To   time.Time
}

// ParseRange parses textual bounds and rejects bad or inverted input.
// Empty strings leave that side open.
func ParseRange(from, to string) (Range, error) {
	var rng Range
	var err error
	if from != "" {
		if rng.From, err = timesheet.ParseDate(from); err != nil {
			return Range{}, &BoundError{Bound: "from", Value: from, Err: err}
		}
	}
	if to != "" {
		if rng.To, err = timesheet.ParseDate(to); err != nil {
			return Range{}, &BoundError{Bound: "to", Value: to, Err: err}
		}
	}
	if err := rng.Validate(); err != nil {
		return Range{}, err
	}
	return rng, nil
}

// LenientRange parses textual bounds, treating anything unreadable as open.
func LenientRange(from, to string) Range {
	var rng Range
	if t, err := timesheet.ParseDate(from); err == nil {
		rng.From = t
	}
	if t, err := timesheet.ParseDate(to); err == nil {
		rng.To = t
	}
	return rng
}

func (r Range) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvertedRange,
			timesheet.FormatDate(r.From), timesheet.FormatDate(r.To))
	}
	return nil
}

// Contains reports whether t falls within the range.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timesheet.FormatDate(t)
}
