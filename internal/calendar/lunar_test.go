package calendar

import (
	"testing"
	"time"
)

func TestLookupTablesMatchData(t *testing.T) {
	tables := map[string]struct {
		table lookupTable
		calc  Calculator
	}{
		"chinese_new_year": {chineseNewYearTable, ChineseNewYear},
		"diwali":           {diwaliTable, Diwali},
		"holi":             {holiTable, Holi},
		"eid_al_fitr":      {eidAlFitrTable, EidAlFitr},
		"eid_al_adha":      {eidAlAdhaTable, EidAlAdha},
		"hanukkah":         {hanukkahTable, Hanukkah},
		"passover":         {passoverTable, Passover},
		"mid_autumn":       {midAutumnTable, MidAutumn},
	}

	for name, tc := range tables {
		t.Run(name, func(t *testing.T) {
			for _, year := range tc.table.years() {
				md := tc.table.dates[year]
				got := tc.calc(year)
				want := Date(year, md.Month, md.Day)
				if !got.Date.Equal(want) {
					t.Errorf("%s(%d) = %s, want %s", name, year, FormatDate(got.Date), FormatDate(want))
				}
				if got.Precision != Exact {
					t.Errorf("%s(%d) precision = %q, want exact", name, year, got.Precision)
				}
			}
		})
	}
}

func TestLookupFallbackIsApproximate(t *testing.T) {
	tests := []struct {
		name string
		calc Calculator
		want time.Time
	}{
		{"chinese_new_year", ChineseNewYear, Date(2050, time.February, 5)},
		{"diwali", Diwali, Date(2050, time.November, 1)},
		{"holi", Holi, Date(2050, time.March, 15)},
		{"hanukkah", Hanukkah, Date(2050, time.December, 10)},
		{"passover", Passover, Date(2050, time.April, 10)},
		{"mid_autumn", MidAutumn, Date(2050, time.September, 15)},
		{"eid_al_adha", EidAlAdha, Date(2050, time.June, 19)}, // April 10 + 70 days
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.calc(2050)
			if !got.Date.Equal(tt.want) {
				t.Errorf("%s(2050) = %s, want %s", tt.name, FormatDate(got.Date), FormatDate(tt.want))
			}
			if got.Precision != Approximate {
				t.Errorf("%s(2050) precision = %q, want approximate", tt.name, got.Precision)
			}
		})
	}
}

func TestLanternFestival(t *testing.T) {
	got := LanternFestival(2025)
	want := Date(2025, time.February, 13)
	if !got.Date.Equal(want) {
		t.Errorf("LanternFestival(2025) = %s, want %s", FormatDate(got.Date), FormatDate(want))
	}
	if LanternFestival(2050).Precision != Approximate {
		t.Error("LanternFestival outside table should inherit approximate precision")
	}
}
