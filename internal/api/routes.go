package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zapponejosh/festival-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/festivals                      all festivals with dates
//	GET    /api/v1/festivals/current              festival to display now
//	GET    /api/v1/festivals/active
//	GET    /api/v1/festivals/upcoming
//	GET    /api/v1/festivals/month/{year}/{month}
//	GET    /api/v1/festivals/{id}
//	GET    /api/v1/admin/settings                 (X-API-Key)
//	PUT    /api/v1/admin/settings                 (X-API-Key)
//	GET    /api/v1/admin/custom-festivals         (X-API-Key)
//	POST   /api/v1/admin/custom-festivals         (X-API-Key)
//	DELETE /api/v1/admin/custom-festivals/{id}    (X-API-Key)
//	DELETE /api/v1/admin/greetings/cache          (X-API-Key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)
	if reg != nil {
		r.Use(NewHTTPMetrics(reg).Middleware)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// ======================================================================
		// Public routes
		// ======================================================================
		r.Route("/festivals", func(r chi.Router) {
			r.Get("/", handlers.ListFestivals)
			r.Get("/current", handlers.CurrentFestival)
			r.Get("/active", handlers.ActiveFestivals)
			r.Get("/upcoming", handlers.UpcomingFestivals)
			r.Get("/month/{year}/{month}", handlers.MonthFestivals)
			r.Get("/{id}", handlers.GetFestival)
		})

		// ======================================================================
		// Admin routes (API key)
		// ======================================================================
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg, logger))

			r.Get("/settings", handlers.GetSettings)
			r.Put("/settings", handlers.UpdateSettings)
			r.Get("/custom-festivals", handlers.ListCustomFestivals)
			r.Post("/custom-festivals", handlers.CreateCustomFestival)
			r.Delete("/custom-festivals/{id}", handlers.DeleteCustomFestival)
			r.Delete("/greetings/cache", handlers.ClearGreetingCache)
		})
	})

	return r
}
