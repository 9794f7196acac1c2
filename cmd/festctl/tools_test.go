package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/festival-api/internal/api"
	"github.com/zapponejosh/festival-api/internal/config"
	"github.com/zapponejosh/festival-api/internal/database"
	"github.com/zapponejosh/festival-api/internal/festival"
	"github.com/zapponejosh/festival-api/internal/logger"
)

const importYAML = `
festivals:
  - id: founders_day
    display_name: Founders Day
    month: 9
    day: 14
    duration: 1
    colors: { primary: "#123456", secondary: "#654321", accent: "#ffffff" }
    animation: confetti
    intensity: medium
    greeting: Happy Founders Day!
    countries: [US]
    priority: 50
  - id: harvest_fair
    display_name: Harvest Fair
    month: 10
    day: 3
    duration: 2
    colors: { primary: "#aa5500" }
    animation: leaves
    intensity: low
    greeting: Enjoy the fair!
    countries: [GB]
    priority: 30
`

func TestImport(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	dbPath := filepath.Join(dir, "festivals.db")
	require.NoError(t, os.WriteFile(file, []byte(importYAML), 0o644))

	out, err := runCmd(t, "import", "--file", file, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported:  2")

	// Rerun skips what is already stored
	out, err = runCmd(t, "import", "--file", file, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped:   2")

	db, err := database.Open(database.DefaultConfig(dbPath), logger.Discard())
	require.NoError(t, err)
	defer db.Close()

	list, err := db.ListCustomFestivals(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "founders_day", list[0].ID)
	assert.Equal(t, "harvest_fair", list[1].ID)
}

func TestImport_RejectsCalculatedAndBuiltin(t *testing.T) {
	dir := t.TempDir()

	calculated := filepath.Join(dir, "calculated.yaml")
	require.NoError(t, os.WriteFile(calculated, []byte(`
festivals:
  - id: my_easter
    display_name: My Easter
    calculate: easter
    duration: 1
    colors: { primary: "#ffffff" }
    animation: easter
    intensity: low
    greeting: Hi
    countries: [US]
    priority: 10
`), 0o644))
	_, err := runCmd(t, "import", "--file", calculated, "--db", filepath.Join(dir, "a.db"))
	assert.ErrorContains(t, err, "only fixed-date festivals")

	builtin := filepath.Join(dir, "builtin.yaml")
	require.NoError(t, os.WriteFile(builtin, []byte(`
festivals:
  - id: christmas
    display_name: Christmas Again
    month: 12
    day: 25
    duration: 1
    colors: { primary: "#ffffff" }
    animation: snowfall
    intensity: low
    greeting: Hi
    countries: [US]
    priority: 10
`), 0o644))
	_, err = runCmd(t, "import", "--file", builtin, "--db", filepath.Join(dir, "b.db"))
	assert.ErrorContains(t, err, "already exists in the catalog")
}

func TestImport_ChecksConfiguredCatalog(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	dbPath := filepath.Join(dir, "festivals.db")
	require.NoError(t, os.WriteFile(file, []byte(importYAML), 0o644))

	// A catalog that has since gained founders_day
	catalogFile := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogFile, []byte(`
festivals:
  - id: founders_day
    display_name: Founders Day
    month: 9
    day: 14
    duration: 1
    colors: { primary: "#123456" }
    animation: confetti
    intensity: medium
    greeting: Happy Founders Day!
    countries: [US]
    priority: 50
`), 0o644))

	_, err := runCmd(t, "import", "--catalog", catalogFile, "--file", file, "--db", dbPath)
	assert.ErrorContains(t, err, `"founders_day" already exists in the catalog`)

	t.Setenv("CATALOG_PATH", catalogFile)
	_, err = runCmd(t, "import", "--file", file, "--db", dbPath)
	assert.ErrorContains(t, err, `"founders_day" already exists in the catalog`)
}

func TestCoverage(t *testing.T) {
	out, err := runCmd(t, "coverage", "--start", "2024", "--years", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Approximate:  0")

	out, err = runCmd(t, "coverage", "--start", "2050", "--years", "1", "--json")
	require.Error(t, err)

	var gaps []coverageGap
	require.NoError(t, json.Unmarshal([]byte(out), &gaps))
	names := make(map[string]bool)
	for _, g := range gaps {
		names[g.Calculator] = true
		assert.Equal(t, 2050, g.Year)
	}
	assert.True(t, names["diwali"])
	assert.True(t, names["eid_al_adha"])
	assert.False(t, names["easter"], "easter is a closed-form rule")
	assert.False(t, names["thanksgiving_us"], "weekday rules are exact")
}

func TestProbe(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := database.Open(database.DefaultConfig(":memory:"), log)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Migrate(context.Background())
	require.NoError(t, err)

	catalog, err := festival.Default()
	require.NoError(t, err)

	cfg := &config.Config{Env: config.EnvDevelopment, PreFestivalDays: 3}
	handlers := api.NewHandlers(db, catalog, nil, cfg, log)
	srv := httptest.NewServer(api.SetupRoutes(handlers, cfg, nil, log))
	defer srv.Close()

	out, err := runCmd(t, "probe", "--url", srv.URL)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Failed: 0")
}
