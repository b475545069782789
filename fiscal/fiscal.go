// Package fiscal computes fiscal years and the time ranges they cover.
//
// A fiscal year starts on the first day of a given month, at midnight UTC, and
// lasts twelve months. The Indian fiscal year starts in April, so "2026-2027"
// covers 2026-04-01 to 2027-03-31.
package fiscal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range is a half open time range [From, To).
type Range struct{ From, To time.Time }

// Contains reports whether t is in the range.
func (r Range) Contains(t time.Time) bool { return !t.Before(r.From) && t.Before(r.To) }

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// String prints the range with its inclusive last day.
func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.From.Format(time.DateOnly), r.To.Add(-time.Nanosecond).Format(time.DateOnly))
}

// Year is a fiscal year identified by the calendar year it starts in.
type Year struct {
	Start int        // calendar year of the first day
	Month time.Month // first month
}

// New returns the fiscal year starting in month of year start.
func New(start int, month time.Month) Year { return Year{Start: start, Month: month} }

// Of returns the fiscal year, starting in month, that contains t.
func Of(t time.Time, month time.Month) Year {
	t = t.UTC()
	if t.Month() < month {
		return Year{Start: t.Year() - 1, Month: month}
	}
	return Year{Start: t.Year(), Month: month}
}

// Range returns the time range covered by the fiscal year.
func (y Year) Range() Range {
	from := time.Date(y.Start, y.Month, 1, 0, 0, 0, 0, time.UTC)
	return Range{From: from, To: from.AddDate(1, 0, 0)}
}

// Next returns the following fiscal year.
func (y Year) Next() Year { return Year{Start: y.Start + 1, Month: y.Month} }

// String returns "2026-2027", or "2026" for calendar years.
func (y Year) String() string {
	if y.Month == time.January {
		return strconv.Itoa(y.Start)
	}
	return fmt.Sprintf("%d-%d", y.Start, y.Start+1)
}

// Parse reads a fiscal year label starting in month: "2026-2027", "2026-27"
// or "2026".
func Parse(s string, month time.Month) (Year, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "FY"))
	first, second, dashed := strings.Cut(s, "-")
	start, err := strconv.Atoi(first)
	if err != nil {
		return Year{}, fmt.Errorf("invalid fiscal year %q: %w", s, err)
	}
	if !dashed {
		return Year{Start: start, Month: month}, nil
	}
	end, err := strconv.Atoi(second)
	if err != nil {
		return Year{}, fmt.Errorf("invalid fiscal year %q: %w", s, err)
	}
	if len(second) == 2 {
		end += start / 100 * 100
		if end < start {
			end += 100
		}
	}
	if end != start+1 {
		return Year{}, fmt.Errorf("invalid fiscal year %q: must span two consecutive years", s)
	}
	return Year{Start: start, Month: month}, nil
}

// Span returns every fiscal year, starting in month, between the years
// containing from and to, inclusive.
func Span(from, to time.Time, month time.Month) []Year {
	var years []Year
	last := Of(to, month)
	for y := Of(from, month); y.Start <= last.Start; y = y.Next() {
		years = append(years, y)
	}
	return years
}
