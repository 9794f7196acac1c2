// Package main is the entry point for the festival API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zapponejosh/festival-api/internal/api"
	"github.com/zapponejosh/festival-api/internal/config"
	"github.com/zapponejosh/festival-api/internal/database"
	"github.com/zapponejosh/festival-api/internal/festival"
	"github.com/zapponejosh/festival-api/internal/greeting"
	"github.com/zapponejosh/festival-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting festival API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	log.Info("festival catalog loaded",
		slog.Int("festivals", catalog.Len()),
		slog.String("source", catalogSource(cfg)),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if err := db.EnsureSettings(ctx, database.DefaultSettings(cfg.PreFestivalDays)); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	greetings, err := newAugmentor(ctx, cfg, reg, log)
	if err != nil {
		return err
	}

	handlers := api.NewHandlers(db, catalog, greetings, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, reg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("festival API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func loadCatalog(cfg *config.Config) (*festival.Catalog, error) {
	if cfg.CatalogPath != "" {
		return festival.LoadFile(cfg.CatalogPath)
	}
	return festival.Default()
}

func catalogSource(cfg *config.Config) string {
	if cfg.CatalogPath != "" {
		return cfg.CatalogPath
	}
	return "embedded"
}

// newAugmentor wires the greeting generator. Without a credential the
// augmentor passes static greetings through.
func newAugmentor(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, log *slog.Logger) (*greeting.Augmentor, error) {
	var gen greeting.Generator
	if cfg.GreetingsEnabled() {
		g, err := greeting.NewGenAIGenerator(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			return nil, fmt.Errorf("create greeting generator: %w", err)
		}
		gen = g
		log.Info("dynamic greetings enabled", slog.String("model", cfg.GenAIModel))
	}

	return greeting.New(gen, greeting.NewMemoryCache(cfg.GreetingCacheTTL),
		greeting.WithTimeout(cfg.GreetingTimeout),
		greeting.WithRateLimit(cfg.GreetingRatePerMinute),
		greeting.WithMetrics(greeting.NewMetrics(reg)),
		greeting.WithLogger(log),
	), nil
}
