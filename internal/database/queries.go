package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zapponejosh/festival-api/internal/festival"
)

// CustomIDPrefix marks IDs generated for custom festivals.
const CustomIDPrefix = "custom-"

// =============================================================================
// Settings Queries
// =============================================================================

const settingsColumns = `enabled, pre_festival_days, show_pre_festival, dynamic_greetings, updated_at`

// EnsureSettings writes defaults if the settings row does not exist yet.
// Existing settings are left untouched; a stored pre-festival window that
// differs from defaults is logged, since the stored value wins.
func (db *DB) EnsureSettings(ctx context.Context, defaults Settings) error {
	if err := defaults.Validate(); err != nil {
		return fmt.Errorf("default settings: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO festival_settings
			(id, enabled, pre_festival_days, show_pre_festival, dynamic_greetings)
		VALUES (1, ?, ?, ?, ?)
	`, defaults.Enabled, defaults.PreFestivalDays, defaults.ShowPreFestival, defaults.DynamicGreetings)
	if err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	stored, err := db.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}
	if stored.PreFestivalDays != defaults.PreFestivalDays {
		db.logger.WarnContext(ctx, "stored pre-festival window overrides configuration",
			slog.Int("stored", stored.PreFestivalDays),
			slog.Int("configured", defaults.PreFestivalDays),
		)
	}
	return nil
}

// GetSettings returns the current settings.
// Returns ErrNotFound if EnsureSettings has never run.
func (db *DB) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	err := db.GetContext(ctx, &s, `SELECT `+settingsColumns+` FROM festival_settings WHERE id = 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query settings: %w", err)
	}
	return &s, nil
}

// UpdateSettings replaces the settings row and returns the stored result.
func (db *DB) UpdateSettings(ctx context.Context, s Settings) (*Settings, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO festival_settings
			(id, enabled, pre_festival_days, show_pre_festival, dynamic_greetings, updated_at)
		VALUES (1, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET
			enabled = excluded.enabled,
			pre_festival_days = excluded.pre_festival_days,
			show_pre_festival = excluded.show_pre_festival,
			dynamic_greetings = excluded.dynamic_greetings,
			updated_at = excluded.updated_at
	`, s.Enabled, s.PreFestivalDays, s.ShowPreFestival, s.DynamicGreetings)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return db.GetSettings(ctx)
}

// =============================================================================
// Custom Festival Queries
// =============================================================================

const customFestivalColumns = `
	id, name, display_name, month, day, duration,
	primary_color, secondary_color, accent_color,
	animation, intensity, greeting, icon, countries, priority, created_at`

// ListCustomFestivals returns all custom festivals ordered by date.
func (db *DB) ListCustomFestivals(ctx context.Context) ([]CustomFestival, error) {
	festivals := []CustomFestival{}
	err := db.SelectContext(ctx, &festivals,
		`SELECT `+customFestivalColumns+` FROM custom_festivals ORDER BY month, day, id`)
	if err != nil {
		return nil, fmt.Errorf("query custom festivals: %w", err)
	}
	return festivals, nil
}

// GetCustomFestival returns one custom festival by ID.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) GetCustomFestival(ctx context.Context, id string) (*CustomFestival, error) {
	return getCustomFestival(ctx, db, id)
}

func getCustomFestival(ctx context.Context, q sqlx.QueryerContext, id string) (*CustomFestival, error) {
	var cf CustomFestival
	err := sqlx.GetContext(ctx, q, &cf,
		`SELECT `+customFestivalColumns+` FROM custom_festivals WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query custom festival %q: %w", id, err)
	}
	return &cf, nil
}

// CreateCustomFestival validates and stores a custom festival. An empty ID is
// replaced with a generated one. On success cf is updated with the stored
// row.
//
// Returns an error wrapping festival.ErrInvalidFestival when the entry breaks
// a catalog rule, and ErrDuplicate when the ID is taken.
func (db *DB) CreateCustomFestival(ctx context.Context, cf *CustomFestival) error {
	if cf.ID == "" {
		cf.ID = CustomIDPrefix + uuid.NewString()
	}
	if cf.DisplayName == "" {
		cf.DisplayName = cf.Name
	}
	if cf.Duration == 0 {
		cf.Duration = 1
	}
	if len(cf.Countries) == 0 {
		cf.Countries = StringList{festival.Global}
	}
	for i, c := range cf.Countries {
		cf.Countries[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	f := cf.ToFestival()
	if err := f.Validate(); err != nil {
		return err
	}

	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO custom_festivals (
				id, name, display_name, month, day, duration,
				primary_color, secondary_color, accent_color,
				animation, intensity, greeting, icon, countries, priority
			) VALUES (
				:id, :name, :display_name, :month, :day, :duration,
				:primary_color, :secondary_color, :accent_color,
				:animation, :intensity, :greeting, :icon, :countries, :priority
			)`, cf)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("custom festival %q: %w", cf.ID, ErrDuplicate)
			}
			return fmt.Errorf("insert custom festival: %w", err)
		}

		stored, err := getCustomFestival(ctx, tx, cf.ID)
		if err != nil {
			return err
		}
		*cf = *stored
		return nil
	})
}

// DeleteCustomFestival removes a custom festival.
// Returns ErrNotFound if it doesn't exist.
func (db *DB) DeleteCustomFestival(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM custom_festivals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete custom festival: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete custom festival: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CustomFestivals returns the stored custom festivals as catalog entries,
// ready for Catalog.Merge.
func (db *DB) CustomFestivals(ctx context.Context) ([]festival.Festival, error) {
	rows, err := db.ListCustomFestivals(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]festival.Festival, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToFestival())
	}
	return out, nil
}
