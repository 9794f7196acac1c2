package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Weekday-rule holidays: the Nth occurrence of a weekday in a month,
// counted from the first of the month.
var (
	mothersDayUS = &cal.Holiday{
		Name:    "Mother's Day",
		Type:    cal.ObservanceOther,
		Month:   time.May,
		Day:     1,
		Weekday: time.Sunday,
		Offset:  2,
		Func:    cal.CalcWeekdayOffset,
	}

	fathersDayUS = &cal.Holiday{
		Name:    "Father's Day",
		Type:    cal.ObservanceOther,
		Month:   time.June,
		Day:     1,
		Weekday: time.Sunday,
		Offset:  3,
		Func:    cal.CalcWeekdayOffset,
	}
)

// holidayResult converts a cal.Holiday's actual date into a civil date.
// cal computes dates in its default location, so only the calendar date
// is kept.
func holidayResult(h *cal.Holiday, year int) Result {
	actual, _ := h.Calc(year)
	return Result{Date: Day(actual), Precision: Exact}
}

// NthWeekday returns the nth occurrence (1-based) of weekday in month.
// It finds the first occurrence and adds seven days per further step.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := Date(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return AddDays(first, offset+7*(n-1))
}

// MothersDayUS is the second Sunday of May.
func MothersDayUS(year int) Result {
	return holidayResult(mothersDayUS, year)
}

// FathersDayUS is the third Sunday of June.
func FathersDayUS(year int) Result {
	return holidayResult(fathersDayUS, year)
}

// ThanksgivingUS is the fourth Thursday of November.
func ThanksgivingUS(year int) Result {
	return holidayResult(us.ThanksgivingDay, year)
}
