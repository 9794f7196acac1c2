package calendar

import "sort"

// calculators maps the names used in festival data files to their
// date functions.
var calculators = map[string]Calculator{
	"easter":           Easter,
	"good_friday":      GoodFriday,
	"chinese_new_year": ChineseNewYear,
	"lantern_festival": LanternFestival,
	"diwali":           Diwali,
	"holi":             Holi,
	"eid_al_fitr":      EidAlFitr,
	"eid_al_adha":      EidAlAdha,
	"hanukkah":         Hanukkah,
	"passover":         Passover,
	"mid_autumn":       MidAutumn,
	"mothers_day_us":   MothersDayUS,
	"fathers_day_us":   FathersDayUS,
	"thanksgiving_us":  ThanksgivingUS,
}

// Lookup returns the calculator registered under name.
func Lookup(name string) (Calculator, bool) {
	c, ok := calculators[name]
	return c, ok
}

// Names returns the registered calculator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(calculators))
	for name := range calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
