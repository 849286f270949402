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

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/example/capacity-planner/internal/application"
	"github.com/example/capacity-planner/internal/config"
	httptransport "github.com/example/capacity-planner/internal/http"
	"github.com/example/capacity-planner/internal/logging"
	"github.com/example/capacity-planner/internal/persistence/sqlite"
	"github.com/example/capacity-planner/internal/scheduler"
	"github.com/example/capacity-planner/internal/workload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("auto", "info", os.Stderr)
		fallback.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("planner API stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	applied, err := storage.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("database ready", "migrations_applied", applied)

	srv, err := buildServer(cfg, storage, logger)
	if err != nil {
		return err
	}
	go srv.invalidateOnHangup(ctx, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           srv.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planner API listening",
		"addr", server.Addr,
		"timezone", cfg.Location.String(),
		"forecast_ttl", cfg.ForecastTTL.String(),
		"cache_size", humanize.Comma(int64(cfg.CacheSize)),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	handler   http.Handler
	forecasts *application.ForecastService
}

// buildServer wires services and handlers over storage.
func buildServer(cfg config.Config, storage *sqlite.Storage, logger *slog.Logger) (*server, error) {
	now := time.Now
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	profileService := application.NewProfileServiceWithLogger(storage, now, logger)
	plannerService := application.NewPlannerServiceWithLogger(scheduler.NewGenerator(loc, now), profileService, logger)
	forecastService, err := application.NewForecastServiceWithLogger(
		profileService,
		storage,
		workload.NewSnapshot(loc),
		application.ForecastServiceConfig{
			Location:    loc,
			Validity:    cfg.ForecastTTL,
			CacheSize:   cfg.CacheSize,
			Concurrency: cfg.ForecastConcurrency,
		},
		uuid.NewString,
		now,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build forecast service: %w", err)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Schedules: httptransport.NewScheduleHandler(plannerService, loc, logger),
		Forecasts: httptransport.NewForecastHandler(forecastService, loc, logger),
		Profiles:  httptransport.NewProfileHandler(profileService, logger),
		Health:    storage,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})
	return &server{handler: router, forecasts: forecastService}, nil
}

// invalidateOnHangup drops cached forecasts on every SIGHUP until ctx ends.
func (s *server) invalidateOnHangup(ctx context.Context, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			s.forecasts.InvalidateCache()
			logger.Info("forecast cache cleared")
		}
	}
}
