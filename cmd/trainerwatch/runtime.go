package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jask/trainerwatch/internal/config"
	"github.com/jask/trainerwatch/internal/database"
	"github.com/jask/trainerwatch/internal/database/repository"
	"github.com/jask/trainerwatch/internal/feedback"
	"github.com/jask/trainerwatch/internal/quote"
	"github.com/jask/trainerwatch/internal/service"
)

// runtime is the opened store plus the services built on it.
type runtime struct {
	cfg         config.Config
	db          *sql.DB
	diary       *service.DiaryService
	maintenance *service.MaintenanceService
}

func (r *runtime) Close() {
	_ = r.db.Close()
}

func loadConfig(root *CLI) (config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if root.DB != "" {
		cfg.Database.Path = root.DB
	}
	return cfg, nil
}

// openRuntime migrates and opens the database, seeds goals and wires services.
func openRuntime(ctx context.Context, root *CLI) (*runtime, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	seed := repository.Goals{DailyCalories: cfg.Goals.DailyCalories, DailyWater: cfg.Goals.DailyWater}
	if err := database.SeedDefaults(ctx, db, seed); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Warn("Using local timezone", "error", err)
	}

	return &runtime{
		cfg: cfg,
		db:  db,
		diary: &service.DiaryService{
			Entries:  repository.NewEntryRepo(db),
			Goals:    repository.NewGoalsRepo(db),
			Haptics:  feedback.Nop{},
			Location: loc,
			Now:      time.Now,
			Logger:   slog.Default(),
		},
		maintenance: &service.MaintenanceService{DB: db},
	}, nil
}

// newFetcher picks the quote source: the built-in list when offline, otherwise
// the HTTP client behind a near-duplicate filter.
func newFetcher(cfg config.Config, logger *slog.Logger) quote.Fetcher {
	if cfg.Quotes.Offline {
		return quote.NewOffline()
	}
	client := quote.NewClient(quote.ClientConfig{
		Endpoint:      cfg.Quotes.Endpoint,
		Timeout:       cfg.Quotes.Timeout,
		RatePerMinute: cfg.Quotes.RatePerMinute,
		Burst:         cfg.Quotes.Burst,
		Logger:        logger,
	})
	return &quote.Distinct{Next: client, Retries: 1}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics listener stopped", "addr", addr, "error", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return srv
}

func printSummary(w io.Writer, sum service.Summary) {
	fmt.Fprintf(w, "%s\n", sum.Day.Format("Monday 2 January 2006"))
	for _, kind := range []repository.EntryKind{repository.KindCalories, repository.KindWater} {
		mark := ""
		if sum.GoalMet(kind) {
			mark = "  goal reached"
		}
		fmt.Fprintf(w, "  %-9s %6.0f / %.0f %s (%3.0f%%)%s\n",
			kind, sum.Total(kind), sum.Goals.For(kind), kind.Unit(), sum.Progress(kind)*100, mark)
	}
}
