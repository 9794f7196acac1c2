package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1Settings,
	2: migrationV2CustomFestivals,
}

// migrationV1Settings creates the single-row settings table. The row itself
// is written by EnsureSettings so its defaults come from configuration.
const migrationV1Settings = `
CREATE TABLE IF NOT EXISTS festival_settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),

    -- Master switch for festival theming
    enabled BOOLEAN NOT NULL DEFAULT 1,

    -- Days of lookahead before a festival starts; 0 disables it
    pre_festival_days INTEGER NOT NULL DEFAULT 3
        CHECK (pre_festival_days BETWEEN 0 AND 30),

    show_pre_festival BOOLEAN NOT NULL DEFAULT 1,
    dynamic_greetings BOOLEAN NOT NULL DEFAULT 1,

    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2CustomFestivals creates operator-defined festivals. Custom
// entries are always fixed-date; moveable dates need a calculator and stay in
// the catalog file.
const migrationV2CustomFestivals = `
CREATE TABLE IF NOT EXISTS custom_festivals (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    display_name TEXT NOT NULL,

    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
    duration INTEGER NOT NULL DEFAULT 1 CHECK (duration >= 1),

    primary_color TEXT NOT NULL,
    secondary_color TEXT NOT NULL,
    accent_color TEXT NOT NULL,

    animation TEXT NOT NULL,
    intensity TEXT NOT NULL CHECK (intensity IN ('low', 'medium', 'high')),
    greeting TEXT NOT NULL,
    icon TEXT NOT NULL DEFAULT '',

    -- JSON array of country codes, e.g. '["US","CA"]' or '["GLOBAL"]'
    countries TEXT NOT NULL DEFAULT '["GLOBAL"]',
    priority INTEGER NOT NULL CHECK (priority BETWEEN 1 AND 100),

    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_custom_festivals_month
    ON custom_festivals(month);
`
