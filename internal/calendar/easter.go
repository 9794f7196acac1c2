package calendar

import (
	"time"
)

// Easter calculates the date of Easter Sunday for a given year using the
// Anonymous Gregorian algorithm (Meeus/Jones/Butcher).
//
// The algorithm is valid for all years in the Gregorian calendar.
func Easter(year int) Result {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return Result{Date: Date(year, time.Month(month), day), Precision: Exact}
}

// GoodFriday is two days before Easter Sunday.
func GoodFriday(year int) Result {
	easter := Easter(year)
	return Result{Date: AddDays(easter.Date, -2), Precision: Exact}
}
