package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/festival-api/internal/calendar"
	"github.com/zapponejosh/festival-api/internal/config"
	"github.com/zapponejosh/festival-api/internal/database"
	"github.com/zapponejosh/festival-api/internal/festival"
	"github.com/zapponejosh/festival-api/internal/greeting"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        *database.DB
	catalog   *festival.Catalog
	greetings *greeting.Augmentor
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandlers creates a new Handlers instance. greetings may be nil, in
// which case static greetings are always used.
func NewHandlers(db *database.DB, catalog *festival.Catalog, greetings *greeting.Augmentor, cfg *config.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		db:        db,
		catalog:   catalog,
		greetings: greetings,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// =============================================================================
// Response types
// =============================================================================

// OccurrenceResponse is a festival placed on the calendar.
type OccurrenceResponse struct {
	Festival  *festival.Festival `json:"festival"`
	Start     string             `json:"start"`
	End       string             `json:"end"`
	Precision calendar.Precision `json:"precision"`
}

// CurrentResponse is the festival to display now, with its greeting.
type CurrentResponse struct {
	Date          string             `json:"date"`
	Country       string             `json:"country"`
	Festival      *festival.Festival `json:"festival"`
	IsPreFestival bool               `json:"is_pre_festival"`
	DaysUntil     int                `json:"days_until"`
	Greeting      string             `json:"greeting"`
}

func toOccurrenceResponse(o festival.Occurrence) OccurrenceResponse {
	return OccurrenceResponse{
		Festival:  o.Festival,
		Start:     calendar.FormatDate(o.Start),
		End:       calendar.FormatDate(o.End),
		Precision: o.Precision,
	}
}

// =============================================================================
// Health
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]any{
		"status":    "healthy",
		"festivals": h.catalog.Len(),
		"greetings": h.greetings != nil && h.greetings.Enabled(),
	})
}

// =============================================================================
// Festival endpoints
// =============================================================================

// ListFestivals handles GET /api/v1/festivals?year=YYYY&country=CC
func (h *Handlers) ListFestivals(w http.ResponseWriter, r *http.Request) {
	year := h.today().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := parseYear(s)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		year = y
	}

	// An empty country lists the whole catalog.
	country, err := parseCountry(r.URL.Query().Get("country"), "")
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	resolver, _, err := h.resolver(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build resolver", slog.Any("error", err))
		WriteInternalError(w, "Failed to load festivals")
		return
	}

	occurrences := resolver.AllWithDates(year, country)
	out := make([]OccurrenceResponse, len(occurrences))
	for i, o := range occurrences {
		out[i] = toOccurrenceResponse(o)
	}
	WriteSuccess(w, out)
}

// GetFestival handles GET /api/v1/festivals/{id}?year=YYYY
func (h *Handlers) GetFestival(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	year := h.today().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := parseYear(s)
		if err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		year = y
	}

	resolver, _, err := h.resolver(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build resolver", slog.Any("error", err))
		WriteInternalError(w, "Failed to load festivals")
		return
	}

	f, ok := resolver.Catalog().ByID(id)
	if !ok {
		WriteNotFound(w, fmt.Sprintf("Festival %q not found", id))
		return
	}

	occ := festival.OccurrenceIn(f, year)
	WriteSuccess(w, OccurrenceResponse{
		Festival:  f,
		Start:     calendar.FormatDate(occ.Date),
		End:       calendar.FormatDate(calendar.AddDays(occ.Date, f.Duration-1)),
		Precision: occ.Precision,
	})
}

// CurrentFestival handles GET /api/v1/festivals/current?country=CC&date=YYYY-MM-DD
//
// Data is null when festivals are disabled or nothing is current.
func (h *Handlers) CurrentFestival(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	country, date, ok := h.countryAndDate(w, r)
	if !ok {
		return
	}

	resolver, settings, err := h.resolver(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build resolver", slog.Any("error", err))
		WriteInternalError(w, "Failed to load festivals")
		return
	}
	if !settings.Enabled {
		WriteSuccess(w, nil)
		return
	}

	state := resolver.CurrentWithMeta(country, date)
	if state == nil {
		WriteSuccess(w, nil)
		return
	}

	resp := CurrentResponse{
		Date:          calendar.FormatDate(date),
		Country:       country,
		Festival:      state.Festival,
		IsPreFestival: state.IsPreFestival,
		DaysUntil:     state.DaysUntil,
	}
	switch {
	case state.IsPreFestival:
		resp.Greeting = state.PreGreeting
	case settings.DynamicGreetings && h.greetings != nil:
		resp.Greeting = h.greetings.Greeting(ctx, state.Festival, country)
	default:
		resp.Greeting = state.Festival.Greeting
	}

	WriteSuccess(w, resp)
}

// ActiveFestivals handles GET /api/v1/festivals/active?country=CC&date=YYYY-MM-DD
func (h *Handlers) ActiveFestivals(w http.ResponseWriter, r *http.Request) {
	country, date, ok := h.countryAndDate(w, r)
	if !ok {
		return
	}

	resolver, _, err := h.resolver(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build resolver", slog.Any("error", err))
		WriteInternalError(w, "Failed to load festivals")
		return
	}

	WriteSuccess(w, nonNil(resolver.Active(country, date)))
}

// UpcomingFestivals handles GET /api/v1/festivals/upcoming?country=CC&date=YYYY-MM-DD
func (h *Handlers) UpcomingFestivals(w http.ResponseWriter, r *http.Request) {
	country, date, ok := h.countryAndDate(w, r)
	if !ok {
		return
	}

	resolver, _, err := h.resolver(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build resolver", slog.Any("error", err))
		WriteInternalError(w, "Failed to load festivals")
		return
	}

	WriteSuccess(w, nonNil(resolver.Upcoming(country, date)))
}

// MonthFestivals handles GET /api/v1/festivals/month/{year}/{month}?country=CC
func (h *Handlers) MonthFestivals(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(chi.URLParam(r, "year"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	m, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || m < 1 || m > 12 {
		WriteBadRequest(w, "Month must be between 1 and 12")
		return
	}

	country, err := parseCountry(r.URL.Query().Get("country"), festival.Global)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	resolver, _, err := h.resolver(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build resolver", slog.Any("error", err))
		WriteInternalError(w, "Failed to load festivals")
		return
	}

	WriteSuccess(w, nonNil(resolver.ForMonth(time.Month(m), year, country)))
}

// =============================================================================
// Admin endpoints
// =============================================================================

// GetSettings handles GET /api/v1/admin/settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load settings", slog.Any("error", err))
		WriteInternalError(w, "Failed to load settings")
		return
	}
	WriteSuccess(w, s)
}

// SettingsRequest is a partial settings update. Omitted fields keep their
// current value.
type SettingsRequest struct {
	Enabled          *bool `json:"enabled"`
	PreFestivalDays  *int  `json:"pre_festival_days"`
	ShowPreFestival  *bool `json:"show_pre_festival"`
	DynamicGreetings *bool `json:"dynamic_greetings"`
}

// UpdateSettings handles PUT /api/v1/admin/settings
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	s, err := h.settings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load settings", slog.Any("error", err))
		WriteInternalError(w, "Failed to load settings")
		return
	}

	if req.Enabled != nil {
		s.Enabled = *req.Enabled
	}
	if req.PreFestivalDays != nil {
		s.PreFestivalDays = *req.PreFestivalDays
	}
	if req.ShowPreFestival != nil {
		s.ShowPreFestival = *req.ShowPreFestival
	}
	if req.DynamicGreetings != nil {
		s.DynamicGreetings = *req.DynamicGreetings
	}

	if err := s.Validate(); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.db.UpdateSettings(ctx, s)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update settings", slog.Any("error", err))
		WriteInternalError(w, "Failed to update settings")
		return
	}

	h.logger.InfoContext(ctx, "festival settings updated",
		slog.Bool("enabled", updated.Enabled),
		slog.Int("pre_festival_days", updated.PreFestivalDays),
	)
	WriteSuccess(w, updated)
}

// ListCustomFestivals handles GET /api/v1/admin/custom-festivals
func (h *Handlers) ListCustomFestivals(w http.ResponseWriter, r *http.Request) {
	list, err := h.db.ListCustomFestivals(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list custom festivals", slog.Any("error", err))
		WriteInternalError(w, "Failed to list custom festivals")
		return
	}
	WriteSuccess(w, list)
}

// CreateCustomFestival handles POST /api/v1/admin/custom-festivals
func (h *Handlers) CreateCustomFestival(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cf database.CustomFestival
	if err := decodeJSON(r, &cf); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	if cf.ID != "" {
		if _, exists := h.catalog.ByID(cf.ID); exists {
			WriteConflict(w, fmt.Sprintf("Festival %q already exists in the catalog", cf.ID))
			return
		}
	}

	err := h.db.CreateCustomFestival(ctx, &cf)
	switch {
	case err == nil:
	case errors.Is(err, festival.ErrInvalidFestival):
		WriteBadRequest(w, err.Error())
		return
	case errors.Is(err, database.ErrDuplicate):
		WriteConflict(w, fmt.Sprintf("Custom festival %q already exists", cf.ID))
		return
	default:
		h.logger.ErrorContext(ctx, "failed to create custom festival", slog.Any("error", err))
		WriteInternalError(w, "Failed to create custom festival")
		return
	}

	h.logger.InfoContext(ctx, "custom festival created", slog.String("festival_id", cf.ID))
	WriteCreated(w, cf)
}

// DeleteCustomFestival handles DELETE /api/v1/admin/custom-festivals/{id}
func (h *Handlers) DeleteCustomFestival(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.db.DeleteCustomFestival(ctx, id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Custom festival %q not found", id))
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete custom festival", slog.Any("error", err))
		WriteInternalError(w, "Failed to delete custom festival")
		return
	}

	h.logger.InfoContext(ctx, "custom festival deleted", slog.String("festival_id", id))
	WriteSuccess(w, map[string]string{"deleted": id})
}

// ClearGreetingCache handles DELETE /api/v1/admin/greetings/cache
func (h *Handlers) ClearGreetingCache(w http.ResponseWriter, r *http.Request) {
	if h.greetings != nil {
		h.greetings.ClearCache()
	}
	h.logger.InfoContext(r.Context(), "greeting cache cleared")
	WriteSuccess(w, map[string]bool{"cleared": true})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handlers) today() time.Time {
	return calendar.Day(h.now())
}

// settings returns the stored settings, or the configured defaults when
// none have been written.
func (h *Handlers) settings(ctx context.Context) (database.Settings, error) {
	s, err := h.db.GetSettings(ctx)
	if err != nil {
		if database.IsNotFound(err) {
			return database.DefaultSettings(h.cfg.PreFestivalDays), nil
		}
		return database.Settings{}, err
	}
	return *s, nil
}

// resolver builds a resolver over the catalog plus stored custom festivals,
// using the stored pre-festival window.
func (h *Handlers) resolver(ctx context.Context) (*festival.Resolver, database.Settings, error) {
	s, err := h.settings(ctx)
	if err != nil {
		return nil, s, fmt.Errorf("load settings: %w", err)
	}

	custom, err := h.db.CustomFestivals(ctx)
	if err != nil {
		return nil, s, fmt.Errorf("load custom festivals: %w", err)
	}

	// A stored row may collide with a catalog entry added after it was
	// written; the catalog entry wins and the row is ignored.
	usable := custom[:0]
	for _, f := range custom {
		if _, exists := h.catalog.ByID(f.ID); exists {
			h.logger.WarnContext(ctx, "custom festival shadowed by catalog entry",
				slog.String("festival_id", f.ID),
			)
			continue
		}
		usable = append(usable, f)
	}

	catalog, err := h.catalog.Merge(usable...)
	if err != nil {
		return nil, s, fmt.Errorf("merge custom festivals: %w", err)
	}

	return festival.NewResolver(catalog, festival.WithPreFestivalDays(s.EffectivePreFestivalDays())), s, nil
}

// countryAndDate parses the country and date query parameters shared by the
// resolution endpoints. It writes a 400 and returns false on bad input.
func (h *Handlers) countryAndDate(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	country, err := parseCountry(r.URL.Query().Get("country"), festival.Global)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return "", time.Time{}, false
	}

	date := h.today()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := calendar.ParseDateString(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", s))
			return "", time.Time{}, false
		}
		date = d
	}

	return country, date, true
}

// parseCountry normalizes a country code. Codes are two ASCII letters or
// GLOBAL; an empty value yields def.
func parseCountry(s, def string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "" {
		return def, nil
	}
	if code == festival.Global {
		return code, nil
	}
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "", fmt.Errorf("invalid country code %q, use a two-letter code", s)
	}
	return code, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 2200 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil(fs []*festival.Festival) []*festival.Festival {
	if fs == nil {
		return []*festival.Festival{}
	}
	return fs
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
