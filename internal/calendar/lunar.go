package calendar

import "time"

// monthDay is a month/day pair in a lookup table.
type monthDay struct {
	Month time.Month
	Day   int
}

// lookupTable maps a Gregorian year to the start date of a lunar or
// lunisolar observance. Tables cover 2020 through 2033; years outside the
// table fall back to a fixed approximate date.
type lookupTable struct {
	dates    map[int]monthDay
	fallback monthDay
}

func (t lookupTable) calc(year int) Result {
	if md, ok := t.dates[year]; ok {
		return Result{Date: Date(year, md.Month, md.Day), Precision: Exact}
	}
	return Result{Date: Date(year, t.fallback.Month, t.fallback.Day), Precision: Approximate}
}

// years returns the years covered by the table.
func (t lookupTable) years() []int {
	out := make([]int, 0, len(t.dates))
	for y := range t.dates {
		out = append(out, y)
	}
	return out
}

var chineseNewYearTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.January, 25},
		2021: {time.February, 12},
		2022: {time.February, 1},
		2023: {time.January, 22},
		2024: {time.February, 10},
		2025: {time.January, 29},
		2026: {time.February, 17},
		2027: {time.February, 6},
		2028: {time.January, 26},
		2029: {time.February, 13},
		2030: {time.February, 3},
		2031: {time.January, 23},
		2032: {time.February, 11},
		2033: {time.January, 31},
	},
	fallback: monthDay{time.February, 5},
}

var diwaliTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.November, 14},
		2021: {time.November, 4},
		2022: {time.October, 24},
		2023: {time.November, 12},
		2024: {time.November, 1},
		2025: {time.October, 20},
		2026: {time.November, 8},
		2027: {time.October, 29},
		2028: {time.October, 17},
		2029: {time.November, 5},
		2030: {time.October, 26},
		2031: {time.November, 14},
		2032: {time.November, 2},
		2033: {time.October, 22},
	},
	fallback: monthDay{time.November, 1},
}

var holiTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.March, 10},
		2021: {time.March, 29},
		2022: {time.March, 18},
		2023: {time.March, 8},
		2024: {time.March, 25},
		2025: {time.March, 14},
		2026: {time.March, 4},
		2027: {time.March, 22},
		2028: {time.March, 11},
		2029: {time.March, 1},
		2030: {time.March, 20},
		2031: {time.March, 9},
		2032: {time.March, 27},
		2033: {time.March, 16},
	},
	fallback: monthDay{time.March, 15},
}

var eidAlFitrTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.May, 24},
		2021: {time.May, 13},
		2022: {time.May, 2},
		2023: {time.April, 21},
		2024: {time.April, 10},
		2025: {time.March, 30},
		2026: {time.March, 20},
		2027: {time.March, 10},
		2028: {time.February, 27},
		2029: {time.February, 14},
		2030: {time.February, 4},
		2031: {time.January, 24},
		2032: {time.January, 14},
		2033: {time.January, 2},
	},
	fallback: monthDay{time.April, 10},
}

var eidAlAdhaTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.July, 31},
		2021: {time.July, 20},
		2022: {time.July, 9},
		2023: {time.June, 28},
		2024: {time.June, 16},
		2025: {time.June, 6},
		2026: {time.May, 27},
		2027: {time.May, 16},
		2028: {time.May, 5},
		2029: {time.April, 24},
		2030: {time.April, 13},
		2031: {time.April, 2},
		2032: {time.March, 22},
		2033: {time.March, 11},
	},
}

var hanukkahTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.December, 10},
		2021: {time.November, 28},
		2022: {time.December, 18},
		2023: {time.December, 7},
		2024: {time.December, 25},
		2025: {time.December, 14},
		2026: {time.December, 4},
		2027: {time.December, 24},
		2028: {time.December, 12},
		2029: {time.December, 1},
		2030: {time.December, 20},
		2031: {time.December, 9},
		2032: {time.November, 27},
		2033: {time.December, 16},
	},
	fallback: monthDay{time.December, 10},
}

var passoverTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.April, 8},
		2021: {time.March, 27},
		2022: {time.April, 15},
		2023: {time.April, 5},
		2024: {time.April, 22},
		2025: {time.April, 12},
		2026: {time.April, 1},
		2027: {time.April, 21},
		2028: {time.April, 10},
		2029: {time.March, 30},
		2030: {time.April, 17},
		2031: {time.April, 7},
		2032: {time.March, 26},
		2033: {time.April, 13},
	},
	fallback: monthDay{time.April, 10},
}

var midAutumnTable = lookupTable{
	dates: map[int]monthDay{
		2020: {time.October, 1},
		2021: {time.September, 21},
		2022: {time.September, 10},
		2023: {time.September, 29},
		2024: {time.September, 17},
		2025: {time.October, 6},
		2026: {time.September, 25},
		2027: {time.September, 15},
		2028: {time.October, 3},
		2029: {time.September, 22},
		2030: {time.September, 12},
		2031: {time.October, 1},
		2032: {time.September, 19},
		2033: {time.September, 8},
	},
	fallback: monthDay{time.September, 15},
}

// ChineseNewYear returns the first day of the lunar new year.
func ChineseNewYear(year int) Result {
	return chineseNewYearTable.calc(year)
}

// LanternFestival is fifteen days after Chinese New Year and inherits its
// precision.
func LanternFestival(year int) Result {
	cny := ChineseNewYear(year)
	return Result{Date: AddDays(cny.Date, 15), Precision: cny.Precision}
}

// Diwali returns the main day of Diwali (Lakshmi Puja).
func Diwali(year int) Result {
	return diwaliTable.calc(year)
}

// Holi returns the day of colours (Rangwali Holi).
func Holi(year int) Result {
	return holiTable.calc(year)
}

// EidAlFitr returns the first day of Eid al-Fitr.
func EidAlFitr(year int) Result {
	return eidAlFitrTable.calc(year)
}

// EidAlAdha returns the first day of Eid al-Adha. Outside its table the
// date is estimated as seventy days after Eid al-Fitr.
func EidAlAdha(year int) Result {
	if md, ok := eidAlAdhaTable.dates[year]; ok {
		return Result{Date: Date(year, md.Month, md.Day), Precision: Exact}
	}
	fitr := EidAlFitr(year)
	return Result{Date: AddDays(fitr.Date, 70), Precision: Approximate}
}

// Hanukkah returns the first day of Hanukkah.
func Hanukkah(year int) Result {
	return hanukkahTable.calc(year)
}

// Passover returns the first day of Passover.
func Passover(year int) Result {
	return passoverTable.calc(year)
}

// MidAutumn returns the day of the Mid-Autumn (Moon) Festival.
func MidAutumn(year int) Result {
	return midAutumnTable.calc(year)
}
