package festival

import (
	"fmt"
	"slices"
	"time"

	"github.com/zapponejosh/festival-api/internal/calendar"
)

const (
	// DefaultPreFestivalDays is how many days before a festival starts the
	// lookahead announcement is shown.
	DefaultPreFestivalDays = 3

	// UpcomingWindowDays bounds Upcoming: festivals starting within this
	// many days of the query date, inclusive.
	UpcomingWindowDays = 30
)

// State is the resolver's answer for a date and country: one festival that
// is either active now or coming up within the pre-festival window.
type State struct {
	Festival      *Festival `json:"festival"`
	IsPreFestival bool      `json:"is_pre_festival"`
	DaysUntil     int       `json:"days_until"`
	PreGreeting   string    `json:"pre_greeting,omitempty"`
}

// Occurrence is a festival placed on the calendar for a particular year.
type Occurrence struct {
	Festival  *Festival          `json:"festival"`
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	Precision calendar.Precision `json:"precision"`
}

// Resolver answers which festivals are active or upcoming.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	catalog         *Catalog
	preFestivalDays int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPreFestivalDays overrides the pre-festival window.
// Zero or a negative value disables pre-festival announcements.
func WithPreFestivalDays(days int) Option {
	return func(r *Resolver) {
		if days < 0 {
			days = 0
		}
		r.preFestivalDays = days
	}
}

// NewResolver creates a resolver over catalog.
func NewResolver(catalog *Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:         catalog,
		preFestivalDays: DefaultPreFestivalDays,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the resolver evaluates.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

// PreFestivalDays returns the configured pre-festival window.
func (r *Resolver) PreFestivalDays() int {
	return r.preFestivalDays
}

// =============================================================================
// Festival date rules
// =============================================================================

// OccurrenceIn computes when f starts in year and how precise that date is.
func OccurrenceIn(f *Festival, year int) calendar.Result {
	if f.Calculate != nil {
		return f.Calculate(year)
	}
	return calendar.Result{
		Date:      calendar.Date(year, f.Month, f.Day),
		Precision: calendar.Exact,
	}
}

// StartDate returns the first day of f in year.
func StartDate(f *Festival, year int) time.Time {
	return OccurrenceIn(f, year).Date
}

// EndDate returns the last day of f in year.
func EndDate(f *Festival, year int) time.Time {
	return calendar.AddDays(StartDate(f, year), f.Duration-1)
}

// SpansIntoNextYear reports whether a fixed-date festival sits late enough
// in December that last year's occurrence may still be running in January.
// The cutoff is December 25.
func SpansIntoNextYear(f *Festival) bool {
	return f.IsFixed() && f.Month == time.December && f.Day >= 25
}

func activeIn(f *Festival, date time.Time, year int) bool {
	return calendar.IsDateInRange(date, StartDate(f, year), EndDate(f, year))
}

// IsActive reports whether date falls inside an occurrence of f.
//
// Only three occurrences are checked: the one in date's year, the previous
// year's for late-December fixed festivals, and the next year's for
// calculated festivals.
func IsActive(f *Festival, date time.Time) bool {
	year := date.Year()
	if activeIn(f, date, year) {
		return true
	}
	if SpansIntoNextYear(f) && activeIn(f, date, year-1) {
		return true
	}
	if f.IsCalculated() && activeIn(f, date, year+1) {
		return true
	}
	return false
}

// AppliesToCountry reports whether f targets countryCode. Matching is
// case-insensitive and GLOBAL festivals match every code.
func AppliesToCountry(f *Festival, countryCode string) bool {
	code := normalizeCountry(countryCode)
	for _, c := range f.Countries {
		if c == Global || c == code {
			return true
		}
	}
	return false
}

// DaysUntil returns the number of days from date to f's start in date's
// year. It is zero or negative once that start has been reached.
func DaysUntil(f *Festival, date time.Time) int {
	return calendar.DaysBetween(date, StartDate(f, date.Year()))
}

// byPriority orders festivals by descending priority. It has no secondary
// key; used with a stable sort, equal priorities keep catalog order.
func byPriority(a, b *Festival) int {
	return b.Priority - a.Priority
}

// =============================================================================
// Resolution
// =============================================================================

// Active returns the festivals active on date for countryCode, highest
// priority first.
func (r *Resolver) Active(countryCode string, date time.Time) []*Festival {
	var active []*Festival
	for _, f := range r.catalog.festivals {
		if AppliesToCountry(f, countryCode) && IsActive(f, date) {
			active = append(active, f)
		}
	}
	slices.SortStableFunc(active, byPriority)
	return active
}

func (r *Resolver) anyActive(countryCode string, date time.Time) bool {
	for _, f := range r.catalog.festivals {
		if AppliesToCountry(f, countryCode) && IsActive(f, date) {
			return true
		}
	}
	return false
}

// IsInPreFestivalPeriod reports whether date is within the pre-festival
// window before f's start this year, with nothing active for countryCode.
func (r *Resolver) IsInPreFestivalPeriod(f *Festival, date time.Time, countryCode string) bool {
	if r.preFestivalDays <= 0 {
		return false
	}
	start := StartDate(f, date.Year())
	windowStart := calendar.AddDays(start, -r.preFestivalDays)
	windowEnd := calendar.AddDays(start, -1)
	if !calendar.IsDateInRange(date, windowStart, windowEnd) {
		return false
	}
	return !r.anyActive(countryCode, date)
}

// PreFestival returns the highest-priority festival starting within the
// pre-festival window, or nil. Nothing is announced while any festival is
// active for countryCode.
func (r *Resolver) PreFestival(countryCode string, date time.Time) *State {
	if r.preFestivalDays <= 0 || r.anyActive(countryCode, date) {
		return nil
	}

	var best *Festival
	bestDays := 0
	for _, f := range r.catalog.festivals {
		if !AppliesToCountry(f, countryCode) {
			continue
		}
		days := DaysUntil(f, date)
		if days < 1 || days > r.preFestivalDays {
			continue
		}
		// Strictly greater keeps the earlier catalog entry on ties.
		if best == nil || f.Priority > best.Priority {
			best = f
			bestDays = days
		}
	}
	if best == nil {
		return nil
	}

	return &State{
		Festival:      best,
		IsPreFestival: true,
		DaysUntil:     bestDays,
		PreGreeting:   PreGreeting(best, bestDays),
	}
}

// Current returns the festival to show on date: the top active festival,
// else the pre-festival announcement, else nil. An active festival always
// outranks an announcement regardless of priority.
func (r *Resolver) Current(countryCode string, date time.Time) *Festival {
	if active := r.Active(countryCode, date); len(active) > 0 {
		return active[0]
	}
	if pre := r.PreFestival(countryCode, date); pre != nil {
		return pre.Festival
	}
	return nil
}

// CurrentWithMeta is Current with the pre-festival details attached.
func (r *Resolver) CurrentWithMeta(countryCode string, date time.Time) *State {
	if active := r.Active(countryCode, date); len(active) > 0 {
		return &State{Festival: active[0]}
	}
	return r.PreFestival(countryCode, date)
}

// PreGreeting builds the countdown text shown before a festival starts.
func PreGreeting(f *Festival, daysUntil int) string {
	if daysUntil == 1 {
		return fmt.Sprintf("%s is tomorrow!", f.DisplayName)
	}
	return fmt.Sprintf("%s is in %d days!", f.DisplayName, daysUntil)
}

// ForMonth returns festivals for countryCode whose occurrence in year
// overlaps month, in catalog order.
func (r *Resolver) ForMonth(month time.Month, year int, countryCode string) []*Festival {
	monthStart := calendar.Date(year, month, 1)
	monthEnd := calendar.EndOfMonth(year, month)

	var out []*Festival
	for _, f := range r.catalog.festivals {
		if !AppliesToCountry(f, countryCode) {
			continue
		}
		start, end := StartDate(f, year), EndDate(f, year)
		if calendar.DateKey(start) <= calendar.DateKey(monthEnd) && calendar.DateKey(end) >= calendar.DateKey(monthStart) {
			out = append(out, f)
		}
	}
	return out
}

// Upcoming returns festivals for countryCode starting between date and
// UpcomingWindowDays later (both inclusive), soonest first. A festival whose
// start month this year is before date's month is checked against next
// year's date instead.
func (r *Resolver) Upcoming(countryCode string, date time.Time) []*Festival {
	from := calendar.Day(date)
	until := calendar.AddDays(from, UpcomingWindowDays)

	type candidate struct {
		festival *Festival
		start    time.Time
	}
	var found []candidate
	for _, f := range r.catalog.festivals {
		if !AppliesToCountry(f, countryCode) {
			continue
		}
		start := StartDate(f, from.Year())
		if start.Month() < from.Month() {
			start = StartDate(f, from.Year()+1)
		}
		if calendar.IsDateInRange(start, from, until) {
			found = append(found, candidate{festival: f, start: start})
		}
	}

	slices.SortStableFunc(found, func(a, b candidate) int {
		return a.start.Compare(b.start)
	})

	out := make([]*Festival, len(found))
	for i, c := range found {
		out[i] = c.festival
	}
	return out
}

// AllWithDates places every festival on the calendar for year. An empty
// countryCode returns the whole catalog; otherwise only festivals that
// apply to the country are included.
func (r *Resolver) AllWithDates(year int, countryCode string) []Occurrence {
	var out []Occurrence
	for _, f := range r.catalog.festivals {
		if countryCode != "" && !AppliesToCountry(f, countryCode) {
			continue
		}
		occ := OccurrenceIn(f, year)
		out = append(out, Occurrence{
			Festival:  f,
			Start:     occ.Date,
			End:       calendar.AddDays(occ.Date, f.Duration-1),
			Precision: occ.Precision,
		})
	}
	return out
}
