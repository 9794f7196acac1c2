package calendar

import (
	"testing"
	"time"
)

func TestIsDateInRange(t *testing.T) {
	start := Date(2025, time.December, 25)
	end := Date(2025, time.December, 27)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"day before", Date(2025, time.December, 24), false},
		{"start", start, true},
		{"start late evening", time.Date(2025, time.December, 25, 23, 59, 0, 0, time.UTC), true},
		{"middle in other zone", time.Date(2025, time.December, 26, 1, 0, 0, 0, time.FixedZone("AEDT", 11*3600)), true},
		{"end", end, true},
		{"day after", Date(2025, time.December, 28), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDateInRange(tt.date, start, end); got != tt.want {
				t.Errorf("IsDateInRange(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(Date(2025, time.March, 7)); got != 20250307 {
		t.Errorf("DateKey = %d, want 20250307", got)
	}
}

func TestDayKeepsLocalCalendarDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	got := Day(time.Date(2025, time.January, 1, 2, 0, 0, 0, tokyo))
	if want := Date(2025, time.January, 1); !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
}

func TestAddDaysAndIsSameDay(t *testing.T) {
	got := AddDays(Date(2024, time.December, 30), 3)
	if !IsSameDay(got, Date(2025, time.January, 2)) {
		t.Errorf("AddDays across year = %s, want 2025-01-02", FormatDate(got))
	}
	if IsSameDay(Date(2025, time.January, 2), Date(2025, time.January, 3)) {
		t.Error("IsSameDay on different days = true")
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(Date(2025, time.December, 22), Date(2025, time.December, 25)); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(Date(2025, time.December, 26), Date(2025, time.December, 25)); got != -1 {
		t.Errorf("DaysBetween = %d, want -1", got)
	}
}

func TestEndOfMonth(t *testing.T) {
	if got := EndOfMonth(2024, time.February); !got.Equal(Date(2024, time.February, 29)) {
		t.Errorf("EndOfMonth(2024, Feb) = %s", FormatDate(got))
	}
	if got := EndOfMonth(2025, time.December); !got.Equal(Date(2025, time.December, 31)) {
		t.Errorf("EndOfMonth(2025, Dec) = %s", FormatDate(got))
	}
}

func TestParseDateString(t *testing.T) {
	got, err := ParseDateString("2025-12-23")
	if err != nil {
		t.Fatalf("ParseDateString() error = %v", err)
	}
	if FormatDate(got) != "2025-12-23" {
		t.Errorf("round trip = %s", FormatDate(got))
	}
	if _, err := ParseDateString("12/23/2025"); err == nil {
		t.Error("ParseDateString() with bad format: want error")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) missing", name)
		}
	}
	if _, ok := Lookup("midsummer"); ok {
		t.Error("Lookup(midsummer) = ok, want missing")
	}
}
