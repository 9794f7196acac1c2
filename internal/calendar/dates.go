// Package calendar computes the Gregorian dates of fixed and moveable
// observances and provides the civil-date helpers the festival resolver
// is built on.
//
// All dates handled by this package are civil dates: midnight UTC of a
// year/month/day triple. Callers holding a time in some other location
// should pass it through Day first.
package calendar

import (
	"fmt"
	"time"
)

// Precision reports how much a computed date can be trusted.
type Precision string

const (
	// Exact dates come from a closed-form rule or a curated lookup table.
	Exact Precision = "exact"

	// Approximate dates come from a fixed calendar-month guess used when a
	// year falls outside a lookup table.
	Approximate Precision = "approximate"
)

// Result is a computed date tagged with its precision.
type Result struct {
	Date      time.Time
	Precision Precision
}

// IsExact reports whether the date came from a rule or a table hit.
func (r Result) IsExact() bool {
	return r.Precision == Exact
}

// Calculator computes the start date of an observance for a year.
type Calculator func(year int) Result

// Date builds the civil date for year, month and day.
// Out-of-range days normalize the way time.Date does.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day strips the time of day from t, keeping t's own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DateKey encodes the calendar date of t as a YYYYMMDD integer.
func DateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// IsDateInRange reports whether date falls within [start, end], comparing
// calendar dates only. Time of day and location offsets are ignored.
func IsDateInRange(date, start, end time.Time) bool {
	k := DateKey(date)
	return k >= DateKey(start) && k <= DateKey(end)
}

// AddDays moves date by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// IsSameDay reports whether a and b share a calendar date.
func IsSameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// DaysBetween returns the number of calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// EndOfMonth returns the last calendar day of month in year.
func EndOfMonth(year int, month time.Month) time.Time {
	return Date(year, month+1, 0)
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}
