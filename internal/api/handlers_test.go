package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zapponejosh/festival-api/internal/config"
	"github.com/zapponejosh/festival-api/internal/database"
	"github.com/zapponejosh/festival-api/internal/festival"
	"github.com/zapponejosh/festival-api/internal/greeting"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

type staticGenerator struct {
	text string
}

func (g staticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.text, nil
}

// testEnv sets up a complete test environment with database, config, and router
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	handlers *Handlers
	router   http.Handler
	adminKey string
}

// setupTest creates a fresh test environment
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	catalog, err := festival.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	adminKey := "admin-test-key"
	cfg := &config.Config{
		Port:            8080,
		Env:             config.EnvDevelopment,
		DatabasePath:    ":memory:",
		APIKey:          adminKey,
		LogLevel:        "error",
		LogFormat:       "text",
		PreFestivalDays: 3,
	}

	reg := prometheus.NewRegistry()
	greetings := greeting.New(staticGenerator{text: "A generated greeting"}, nil,
		greeting.WithMetrics(greeting.NewMetrics(reg)),
		greeting.WithLogger(logger),
	)

	handlers := NewHandlers(db, catalog, greetings, cfg, logger)
	handlers.now = func() time.Time {
		return time.Date(2025, time.December, 25, 9, 30, 0, 0, time.UTC)
	}

	return &testEnv{
		db:       db,
		cfg:      cfg,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, reg, logger),
		adminKey: adminKey,
	}
}

// makeRequest is a helper to make HTTP requests with optional API key
func makeRequest(method, path string, body any, apiKey string) *http.Request {
	var bodyReader io.Reader
	if body != nil {
		jsonData, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	return req
}

func (env *testEnv) do(t *testing.T, method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, makeRequest(method, path, body, apiKey))
	return rr
}

// envelope decodes the standard response with typed data.
type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorInfo `json:"error"`
}

// parseResponse parses JSON response
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
}

func festivalIDs(fs []festival.Festival) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID
	}
	return out
}

// =============================================================================
// HEALTH AND MIDDLEWARE TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/health", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp envelope[map[string]any]
	parseResponse(t, rr, &resp)
	if !resp.Success || resp.Data["status"] != "healthy" {
		t.Errorf("HealthCheck() = %+v", resp)
	}
	if resp.Data["greetings"] != true {
		t.Errorf("greetings = %v, want true", resp.Data["greetings"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/health", nil, "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	req := makeRequest("GET", "/health", nil, "")
	req.Header.Set("X-Request-ID", "caller-id")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "caller-id" {
		t.Errorf("X-Request-ID = %q, want caller-id", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/test", nil, ""))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "OPTIONS", "/api/v1/festivals/current", nil, "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Access-Control-Allow-Origin not set")
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"invalid key", "wrong-key", http.StatusUnauthorized},
		{"valid key", env.adminKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "GET", "/api/v1/admin/settings", nil, tt.key)
			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAdminAuthMiddleware_DevelopmentWithoutKey(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment}
	handler := AdminAuthMiddleware(cfg, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, makeRequest("GET", "/test", nil, ""))
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTest(t)

	env.do(t, "GET", "/api/v1/festivals/current?country=US", nil, "")
	rr := env.do(t, "GET", "/metrics", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"http_requests_total",
		`route="/api/v1/festivals/current"`,
		"festival_greeting_requests_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

// =============================================================================
// FESTIVAL ENDPOINT TESTS
// =============================================================================

func TestCurrentFestival_Active(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/current?country=us&date=2025-12-25", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp envelope[*CurrentResponse]
	parseResponse(t, rr, &resp)
	if resp.Data == nil || resp.Data.Festival == nil {
		t.Fatalf("CurrentFestival() data = nil, body: %s", rr.Body.String())
	}
	if resp.Data.Festival.ID != "christmas" {
		t.Errorf("Festival.ID = %q, want christmas", resp.Data.Festival.ID)
	}
	if resp.Data.IsPreFestival {
		t.Error("IsPreFestival = true on the day itself")
	}
	if resp.Data.Country != "US" || resp.Data.Date != "2025-12-25" {
		t.Errorf("Country/Date = %q/%q", resp.Data.Country, resp.Data.Date)
	}
	if resp.Data.Greeting != "A generated greeting" {
		t.Errorf("Greeting = %q, want generated greeting", resp.Data.Greeting)
	}
}

func TestCurrentFestival_DefaultsToToday(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/current", nil, "")

	var resp envelope[*CurrentResponse]
	parseResponse(t, rr, &resp)
	if resp.Data == nil || resp.Data.Festival.ID != "christmas" {
		t.Fatalf("CurrentFestival() = %s, want christmas", rr.Body.String())
	}
	if resp.Data.Country != festival.Global {
		t.Errorf("Country = %q, want %q", resp.Data.Country, festival.Global)
	}
}

func TestCurrentFestival_PreFestival(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-12-23", nil, "")

	var resp envelope[*CurrentResponse]
	parseResponse(t, rr, &resp)
	if resp.Data == nil {
		t.Fatalf("CurrentFestival() data = nil, body: %s", rr.Body.String())
	}
	if resp.Data.Festival.ID != "christmas" || !resp.Data.IsPreFestival {
		t.Errorf("CurrentFestival() = %+v, want christmas pre-festival", resp.Data)
	}
	if resp.Data.DaysUntil != 2 {
		t.Errorf("DaysUntil = %d, want 2", resp.Data.DaysUntil)
	}
	if resp.Data.Greeting != "Christmas is in 2 days!" {
		t.Errorf("Greeting = %q", resp.Data.Greeting)
	}
}

func TestCurrentFestival_Nothing(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-09-10", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"data":null`) {
		t.Errorf("body = %s, want null data", rr.Body.String())
	}
}

func TestCurrentFestival_SettingsApplied(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	// Hidden pre-festival announcements
	if _, err := env.db.UpdateSettings(ctx, database.Settings{
		Enabled: true, PreFestivalDays: 3, ShowPreFestival: false, DynamicGreetings: false,
	}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	rr := env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-12-23", nil, "")
	if !strings.Contains(rr.Body.String(), `"data":null`) {
		t.Errorf("pre-festival shown while hidden: %s", rr.Body.String())
	}

	// Static greeting when dynamic greetings are off
	rr = env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-12-25", nil, "")
	var resp envelope[*CurrentResponse]
	parseResponse(t, rr, &resp)
	if resp.Data == nil || resp.Data.Greeting != resp.Data.Festival.Greeting {
		t.Errorf("Greeting = %+v, want static greeting", resp.Data)
	}

	// Disabled entirely
	if _, err := env.db.UpdateSettings(ctx, database.Settings{Enabled: false, PreFestivalDays: 3}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	rr = env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-12-25", nil, "")
	if !strings.Contains(rr.Body.String(), `"data":null`) {
		t.Errorf("festival shown while disabled: %s", rr.Body.String())
	}
}

func TestCurrentFestival_BadInput(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"invalid date", "/api/v1/festivals/current?date=25-12-2025"},
		{"invalid country", "/api/v1/festivals/current?country=USA"},
		{"numeric country", "/api/v1/festivals/active?country=12"},
		{"invalid upcoming date", "/api/v1/festivals/upcoming?date=tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "GET", tt.path, nil, "")
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestActiveFestivals(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/active?country=IN&date=2025-09-10", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"data":[]`) {
		t.Errorf("body = %s, want empty list", rr.Body.String())
	}

	rr = env.do(t, "GET", "/api/v1/festivals/active?country=US&date=2025-12-25", nil, "")
	var resp envelope[[]festival.Festival]
	parseResponse(t, rr, &resp)
	if ids := festivalIDs(resp.Data); len(ids) != 1 || ids[0] != "christmas" {
		t.Errorf("ActiveFestivals() = %v, want [christmas]", ids)
	}
}

func TestUpcomingFestivals(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/upcoming?country=GB&date=2025-12-01", nil, "")
	var resp envelope[[]festival.Festival]
	parseResponse(t, rr, &resp)

	ids := festivalIDs(resp.Data)
	if len(ids) != 2 || ids[0] != "christmas" || ids[1] != "new_years_eve" {
		t.Errorf("UpcomingFestivals() = %v, want [christmas new_years_eve]", ids)
	}
}

func TestMonthFestivals(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/month/2025/12?country=GB", nil, "")
	var resp envelope[[]festival.Festival]
	parseResponse(t, rr, &resp)

	ids := festivalIDs(resp.Data)
	if len(ids) != 2 || ids[0] != "christmas" || ids[1] != "new_years_eve" {
		t.Errorf("MonthFestivals() = %v, want [christmas new_years_eve]", ids)
	}

	for _, path := range []string{
		"/api/v1/festivals/month/2025/13",
		"/api/v1/festivals/month/abcd/1",
	} {
		if rr := env.do(t, "GET", path, nil, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestListFestivals(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals?year=2025", nil, "")
	var all envelope[[]OccurrenceResponse]
	parseResponse(t, rr, &all)
	if len(all.Data) != env.handlers.catalog.Len() {
		t.Errorf("ListFestivals() returned %d, want %d", len(all.Data), env.handlers.catalog.Len())
	}

	rr = env.do(t, "GET", "/api/v1/festivals?year=2025&country=MX", nil, "")
	var mx envelope[[]OccurrenceResponse]
	parseResponse(t, rr, &mx)

	found := false
	for _, o := range mx.Data {
		if o.Festival.ID == "dia_de_los_muertos" {
			found = true
			if o.Start != "2025-11-01" || o.End != "2025-11-02" {
				t.Errorf("dia_de_los_muertos = %s..%s, want 2025-11-01..2025-11-02", o.Start, o.End)
			}
		}
		if o.Festival.ID == "thanksgiving_us" {
			t.Error("thanksgiving_us listed for MX")
		}
	}
	if !found {
		t.Error("dia_de_los_muertos missing for MX")
	}

	if rr := env.do(t, "GET", "/api/v1/festivals?year=twenty", nil, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid year status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetFestival(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/festivals/thanksgiving_us?year=2024", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp envelope[OccurrenceResponse]
	parseResponse(t, rr, &resp)
	if resp.Data.Start != "2024-11-28" {
		t.Errorf("Start = %q, want 2024-11-28", resp.Data.Start)
	}
	if resp.Data.Precision != "exact" {
		t.Errorf("Precision = %q, want exact", resp.Data.Precision)
	}

	if rr := env.do(t, "GET", "/api/v1/festivals/no_such_day", nil, ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// =============================================================================
// ADMIN ENDPOINT TESTS
// =============================================================================

func TestSettings_GetDefaultsAndUpdate(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "GET", "/api/v1/admin/settings", nil, env.adminKey)
	var got envelope[database.Settings]
	parseResponse(t, rr, &got)
	if !got.Data.Enabled || got.Data.PreFestivalDays != 3 {
		t.Errorf("GetSettings() = %+v, want defaults", got.Data)
	}

	rr = env.do(t, "PUT", "/api/v1/admin/settings", map[string]any{"pre_festival_days": 5}, env.adminKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("UpdateSettings() status = %d, body: %s", rr.Code, rr.Body.String())
	}
	var updated envelope[database.Settings]
	parseResponse(t, rr, &updated)
	if updated.Data.PreFestivalDays != 5 || !updated.Data.Enabled {
		t.Errorf("UpdateSettings() = %+v, want 5 days and enabled kept", updated.Data)
	}

	// With a 5-day window Christmas is announced on December 20
	rr = env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-12-20", nil, "")
	var current envelope[*CurrentResponse]
	parseResponse(t, rr, &current)
	if current.Data == nil || current.Data.DaysUntil != 5 {
		t.Errorf("CurrentFestival() = %+v, want 5-day announcement", current.Data)
	}
}

func TestSettings_UpdateInvalid(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "PUT", "/api/v1/admin/settings", map[string]any{"pre_festival_days": 45}, env.adminKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = env.do(t, "PUT", "/api/v1/admin/settings", map[string]any{"colour": "red"}, env.adminKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func customFestivalBody() map[string]any {
	return map[string]any{
		"name":            "Founders Day",
		"month":           9,
		"day":             14,
		"duration":        1,
		"primary_color":   "#123456",
		"secondary_color": "#654321",
		"accent_color":    "#ffffff",
		"animation":       "confetti",
		"intensity":       "medium",
		"greeting":        "Happy Founders Day!",
		"countries":       []string{"gb"},
		"priority":        60,
	}
}

func TestCustomFestivals_Lifecycle(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "POST", "/api/v1/admin/custom-festivals", customFestivalBody(), env.adminKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateCustomFestival() status = %d, body: %s", rr.Code, rr.Body.String())
	}
	var created envelope[database.CustomFestival]
	parseResponse(t, rr, &created)
	id := created.Data.ID
	if !strings.HasPrefix(id, database.CustomIDPrefix) {
		t.Errorf("ID = %q, want %q prefix", id, database.CustomIDPrefix)
	}

	// Merged into resolution
	rr = env.do(t, "GET", "/api/v1/festivals/current?country=GB&date=2025-09-14", nil, "")
	var current envelope[*CurrentResponse]
	parseResponse(t, rr, &current)
	if current.Data == nil || current.Data.Festival.ID != id {
		t.Fatalf("CurrentFestival() = %s, want %s", rr.Body.String(), id)
	}

	// Not for other countries
	rr = env.do(t, "GET", "/api/v1/festivals/current?country=US&date=2025-09-14", nil, "")
	if !strings.Contains(rr.Body.String(), `"data":null`) {
		t.Errorf("custom GB festival shown for US: %s", rr.Body.String())
	}

	rr = env.do(t, "GET", "/api/v1/admin/custom-festivals", nil, env.adminKey)
	var list envelope[[]database.CustomFestival]
	parseResponse(t, rr, &list)
	if len(list.Data) != 1 {
		t.Errorf("ListCustomFestivals() = %d entries, want 1", len(list.Data))
	}

	rr = env.do(t, "DELETE", "/api/v1/admin/custom-festivals/"+id, nil, env.adminKey)
	if rr.Code != http.StatusOK {
		t.Errorf("DeleteCustomFestival() status = %d", rr.Code)
	}
	rr = env.do(t, "DELETE", "/api/v1/admin/custom-festivals/"+id, nil, env.adminKey)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second DeleteCustomFestival() status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCustomFestivals_CatalogCollisionIgnored(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()

	// Rows written before the catalog gained the same ID
	shadowed := &database.CustomFestival{
		ID:           "christmas",
		Name:         "Company Christmas",
		Month:        12,
		Day:          25,
		PrimaryColor: "#000000",
		Animation:    "snowfall",
		Intensity:    "low",
		Greeting:     "Season's greetings from the office",
		Countries:    database.StringList{"US"},
		Priority:     100,
	}
	if err := env.db.CreateCustomFestival(ctx, shadowed); err != nil {
		t.Fatalf("CreateCustomFestival() error = %v", err)
	}
	other := &database.CustomFestival{
		ID:           "office_party",
		Name:         "Office Party",
		Month:        12,
		Day:          24,
		PrimaryColor: "#00ff00",
		Animation:    "confetti",
		Intensity:    "medium",
		Greeting:     "Party time!",
		Countries:    database.StringList{"US"},
		Priority:     40,
	}
	if err := env.db.CreateCustomFestival(ctx, other); err != nil {
		t.Fatalf("CreateCustomFestival() error = %v", err)
	}

	rr := env.do(t, "GET", "/api/v1/festivals/current?country=US&date=2025-12-25", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("CurrentFestival() status = %d, body: %s", rr.Code, rr.Body.String())
	}
	var current envelope[*CurrentResponse]
	parseResponse(t, rr, &current)
	if current.Data == nil || current.Data.Festival.DisplayName != "Christmas" {
		t.Errorf("CurrentFestival() = %+v, want catalog Christmas", current.Data)
	}

	for _, path := range []string{
		"/api/v1/festivals?year=2025&country=US",
		"/api/v1/festivals/active?country=US&date=2025-12-25",
		"/api/v1/festivals/upcoming?country=US&date=2025-12-20",
		"/api/v1/festivals/month/2025/12?country=US",
	} {
		if rr := env.do(t, "GET", path, nil, ""); rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rr.Code, http.StatusOK)
		}
	}

	// Non-colliding rows still resolve
	rr = env.do(t, "GET", "/api/v1/festivals/current?country=US&date=2025-12-24", nil, "")
	parseResponse(t, rr, &current)
	if current.Data == nil || current.Data.Festival.ID != "office_party" {
		t.Errorf("CurrentFestival(2025-12-24) = %+v, want office_party", current.Data)
	}
}

func TestCustomFestivals_Rejected(t *testing.T) {
	env := setupTest(t)

	builtin := customFestivalBody()
	builtin["id"] = "christmas"

	invalid := customFestivalBody()
	invalid["animation"] = "sparkles"

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"collides with catalog", builtin, http.StatusConflict},
		{"invalid animation", invalid, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "POST", "/api/v1/admin/custom-festivals", tt.body, env.adminKey)
			if rr.Code != tt.want {
				t.Errorf("Status = %d, want %d, body: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}

	dup := customFestivalBody()
	dup["id"] = "founders_day"
	if rr := env.do(t, "POST", "/api/v1/admin/custom-festivals", dup, env.adminKey); rr.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rr.Code)
	}
	if rr := env.do(t, "POST", "/api/v1/admin/custom-festivals", dup, env.adminKey); rr.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestClearGreetingCache(t *testing.T) {
	env := setupTest(t)

	rr := env.do(t, "DELETE", "/api/v1/admin/greetings/cache", nil, env.adminKey)
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}
