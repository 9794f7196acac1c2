package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zapponejosh/festival-api/internal/festival"
)

// Settings is the operator-controlled festival configuration. There is at
// most one row.
type Settings struct {
	Enabled          bool      `db:"enabled" json:"enabled"`
	PreFestivalDays  int       `db:"pre_festival_days" json:"pre_festival_days"`
	ShowPreFestival  bool      `db:"show_pre_festival" json:"show_pre_festival"`
	DynamicGreetings bool      `db:"dynamic_greetings" json:"dynamic_greetings"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultSettings returns the settings used before an operator changes
// anything.
func DefaultSettings(preFestivalDays int) Settings {
	return Settings{
		Enabled:          true,
		PreFestivalDays:  preFestivalDays,
		ShowPreFestival:  true,
		DynamicGreetings: true,
	}
}

// EffectivePreFestivalDays is the lookahead the resolver should use: zero
// when the operator hides pre-festival announcements.
func (s Settings) EffectivePreFestivalDays() int {
	if !s.ShowPreFestival {
		return 0
	}
	return s.PreFestivalDays
}

// Validate checks settings before they are written.
func (s Settings) Validate() error {
	if s.PreFestivalDays < 0 || s.PreFestivalDays > 30 {
		return fmt.Errorf("pre_festival_days must be between 0 and 30, got %d", s.PreFestivalDays)
	}
	return nil
}

// StringList is a []string stored as a JSON array in a TEXT column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan StringList: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan StringList: %w", err)
	}
	*l = out
	return nil
}

// CustomFestival is an operator-defined fixed-date festival.
type CustomFestival struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	DisplayName    string     `db:"display_name" json:"display_name"`
	Month          int        `db:"month" json:"month"`
	Day            int        `db:"day" json:"day"`
	Duration       int        `db:"duration" json:"duration"`
	PrimaryColor   string     `db:"primary_color" json:"primary_color"`
	SecondaryColor string     `db:"secondary_color" json:"secondary_color"`
	AccentColor    string     `db:"accent_color" json:"accent_color"`
	Animation      string     `db:"animation" json:"animation"`
	Intensity      string     `db:"intensity" json:"intensity"`
	Greeting       string     `db:"greeting" json:"greeting"`
	Icon           string     `db:"icon" json:"icon"`
	Countries      StringList `db:"countries" json:"countries"`
	Priority       int        `db:"priority" json:"priority"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ToFestival converts the row into a catalog entry.
func (c CustomFestival) ToFestival() festival.Festival {
	countries := []string(c.Countries)
	if len(countries) == 0 {
		countries = []string{festival.Global}
	}
	displayName := c.DisplayName
	if displayName == "" {
		displayName = c.Name
	}
	return festival.Festival{
		ID:          c.ID,
		Name:        c.Name,
		DisplayName: displayName,
		Month:       time.Month(c.Month),
		Day:         c.Day,
		Duration:    c.Duration,
		Colors: festival.Colors{
			Primary:   c.PrimaryColor,
			Secondary: c.SecondaryColor,
			Accent:    c.AccentColor,
		},
		Animation: festival.Animation(c.Animation),
		Intensity: festival.Intensity(c.Intensity),
		Greeting:  c.Greeting,
		Icon:      c.Icon,
		Countries: countries,
		Priority:  c.Priority,
	}
}

// FromFestival converts a fixed-date catalog entry into a custom festival
// row. Calculated festivals cannot be stored.
func FromFestival(f festival.Festival) (CustomFestival, error) {
	if !f.IsFixed() || f.IsCalculated() {
		return CustomFestival{}, fmt.Errorf("festival %q: only fixed-date festivals can be stored", f.ID)
	}
	return CustomFestival{
		ID:             f.ID,
		Name:           f.Name,
		DisplayName:    f.DisplayName,
		Month:          int(f.Month),
		Day:            f.Day,
		Duration:       f.Duration,
		PrimaryColor:   f.Colors.Primary,
		SecondaryColor: f.Colors.Secondary,
		AccentColor:    f.Colors.Accent,
		Animation:      string(f.Animation),
		Intensity:      string(f.Intensity),
		Greeting:       f.Greeting,
		Icon:           f.Icon,
		Countries:      StringList(f.Countries),
		Priority:       f.Priority,
	}, nil
}
