// Package festival holds the festival catalog and the activity resolver
// that decides which festival, if any, is shown for a date and country.
package festival

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/festival-api/internal/calendar"
)

// Global is the country sentinel meaning "applies everywhere".
const Global = "GLOBAL"

// Priority bounds.
const (
	MinPriority = 1
	MaxPriority = 100
)

var (
	// ErrInvalidFestival is returned when a festival breaks a catalog invariant.
	ErrInvalidFestival = errors.New("invalid festival")

	// ErrDuplicateID is returned when two catalog entries share an ID.
	ErrDuplicateID = errors.New("duplicate festival id")
)

// Animation names the visual effect shown while a festival is current.
type Animation string

const (
	AnimationSnowfall        Animation = "snowfall"
	AnimationFireworks       Animation = "fireworks"
	AnimationConfetti        Animation = "confetti"
	AnimationHearts          Animation = "hearts"
	AnimationDiyas           Animation = "diyas"
	AnimationLeaves          Animation = "leaves"
	AnimationLanterns        Animation = "lanterns"
	AnimationStars           Animation = "stars"
	AnimationHalloween       Animation = "halloween"
	AnimationNewYear         Animation = "newyear"
	AnimationValentine       Animation = "valentine"
	AnimationEaster          Animation = "easter"
	AnimationHoli            Animation = "holi"
	AnimationChineseNewYear  Animation = "chinesenewyear"
	AnimationEid             Animation = "eid"
	AnimationHanukkah        Animation = "hanukkah"
	AnimationPatriotic       Animation = "patriotic"
	AnimationMidAutumn       Animation = "midautumn"
	AnimationThanksgiving    Animation = "thanksgiving"
	AnimationStPatricks      Animation = "stpatricks"
	AnimationDiaDeLosMuertos Animation = "diadelosmuertos"
	AnimationMothersDay      Animation = "mothersday"
	AnimationEarthDay        Animation = "earthday"
	AnimationCustom          Animation = "custom"
)

// ValidAnimations returns all valid animations.
func ValidAnimations() []Animation {
	return []Animation{
		AnimationSnowfall, AnimationFireworks, AnimationConfetti, AnimationHearts,
		AnimationDiyas, AnimationLeaves, AnimationLanterns, AnimationStars,
		AnimationHalloween, AnimationNewYear, AnimationValentine, AnimationEaster,
		AnimationHoli, AnimationChineseNewYear, AnimationEid, AnimationHanukkah,
		AnimationPatriotic, AnimationMidAutumn, AnimationThanksgiving, AnimationStPatricks,
		AnimationDiaDeLosMuertos, AnimationMothersDay, AnimationEarthDay, AnimationCustom,
	}
}

// IsValid checks if an animation is valid.
func (a Animation) IsValid() bool {
	for _, valid := range ValidAnimations() {
		if a == valid {
			return true
		}
	}
	return false
}

// Intensity controls how busy an animation is.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// IsValid checks if an intensity is valid.
func (i Intensity) IsValid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Colors are opaque theme tokens, usually CSS colour codes.
type Colors struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Accent    string `json:"accent" yaml:"accent"`
}

// Festival is one recurring themed observance.
//
// A festival uses exactly one date mode: a fixed Month/Day, or a
// Calculate function for moveable dates.
type Festival struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`

	Month      time.Month          `json:"month,omitempty"`
	Day        int                 `json:"day,omitempty"`
	Calculator string              `json:"calculator,omitempty"`
	Calculate  calendar.Calculator `json:"-"`
	Duration   int                 `json:"duration"`

	Colors    Colors    `json:"colors"`
	Animation Animation `json:"animation"`
	Intensity Intensity `json:"intensity"`
	Greeting  string    `json:"greeting"`
	Icon      string    `json:"icon"`

	Countries []string `json:"countries"`
	Priority  int      `json:"priority"`
}

// IsFixed reports whether the festival falls on the same month/day every year.
func (f *Festival) IsFixed() bool {
	return f.Month != 0 || f.Day != 0
}

// IsCalculated reports whether the festival date is computed per year.
func (f *Festival) IsCalculated() bool {
	return f.Calculate != nil
}

// IsGlobal reports whether the festival applies to every country.
func (f *Festival) IsGlobal() bool {
	for _, c := range f.Countries {
		if c == Global {
			return true
		}
	}
	return false
}

// Validate checks the festival against the catalog invariants.
func (f *Festival) Validate() error {
	var errs []error

	if strings.TrimSpace(f.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(f.DisplayName) == "" {
		errs = append(errs, errors.New("display_name is required"))
	}

	switch {
	case f.IsFixed() && f.IsCalculated():
		errs = append(errs, errors.New("has both a fixed date and a calculated date"))
	case !f.IsFixed() && !f.IsCalculated():
		errs = append(errs, errors.New("has neither a fixed date nor a calculated date"))
	case f.IsFixed():
		if f.Month < time.January || f.Month > time.December {
			errs = append(errs, fmt.Errorf("month must be between 1 and 12, got %d", f.Month))
		} else if f.Day < 1 || f.Day > calendar.EndOfMonth(2024, f.Month).Day() {
			// 2024 is a leap year so February 29 is allowed.
			errs = append(errs, fmt.Errorf("day %d is not valid for %s", f.Day, f.Month))
		}
	}

	if f.Duration < 1 {
		errs = append(errs, fmt.Errorf("duration must be at least 1, got %d", f.Duration))
	}
	if f.Priority < MinPriority || f.Priority > MaxPriority {
		errs = append(errs, fmt.Errorf("priority must be between %d and %d, got %d", MinPriority, MaxPriority, f.Priority))
	}
	if len(f.Countries) == 0 {
		errs = append(errs, errors.New("countries must not be empty"))
	}
	for _, c := range f.Countries {
		if strings.TrimSpace(c) == "" {
			errs = append(errs, errors.New("countries must not contain empty codes"))
			break
		}
	}
	if !f.Animation.IsValid() {
		errs = append(errs, fmt.Errorf("unknown animation %q", f.Animation))
	}
	if !f.Intensity.IsValid() {
		errs = append(errs, fmt.Errorf("intensity must be one of: low, medium, high; got %q", f.Intensity))
	}
	if f.Colors.Primary == "" {
		errs = append(errs, errors.New("colors.primary is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidFestival, f.ID, errors.Join(errs...))
	}
	return nil
}

// normalizeCountries upper-cases and trims country codes.
func normalizeCountries(countries []string) []string {
	out := make([]string, len(countries))
	for i, c := range countries {
		out[i] = normalizeCountry(c)
	}
	return out
}

func normalizeCountry(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
