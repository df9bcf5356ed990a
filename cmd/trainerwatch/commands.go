package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jask/trainerwatch/internal/database/repository"
	"github.com/jask/trainerwatch/internal/feedback"
	"github.com/jask/trainerwatch/internal/overlay"
	"github.com/jask/trainerwatch/internal/testdata"
	"github.com/jask/trainerwatch/internal/tui"
)

// Global is shared with every subcommand.
type Global struct {
	Out io.Writer
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" type:"path"`
	DB      string           `name:"db" help:"Database path (overrides database.path)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run   RunCmd   `cmd:"" default:"1" help:"Start the terminal UI"`
	Log   LogCmd   `cmd:"" help:"Record a diary entry without the UI"`
	Today TodayCmd `cmd:"" help:"Print today's totals"`
	Goals GoalsCmd `cmd:"" help:"Set the daily goals"`
	Quote QuoteCmd `cmd:"" help:"Fetch one quote and print it"`
	Seed  SeedCmd  `cmd:"" help:"Fill past days with demo entries"`
	Reset ResetCmd `cmd:"" help:"Delete every diary entry"`
}

// AfterApply runs after flag parsing; headless commands log to stderr.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.Verbose))
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// RunCmd implements the default 'run' command.
type RunCmd struct {
	Bell bool `help:"Ring the terminal bell as haptic feedback" default:"true" negatable:""`
}

func (r *RunCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx, root)
	if err != nil {
		return err
	}
	defer rt.Close()

	// stdout belongs to the UI from here on
	logFile, err := os.OpenFile(filepath.Join(filepath.Dir(rt.cfg.Database.Path), "trainerwatch.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, root.Verbose)
	slog.SetDefault(logger)
	rt.diary.Logger = logger

	if r.Bell {
		rt.diary.Haptics = feedback.NewBell(os.Stderr)
	}

	reg := prometheus.NewRegistry()
	metrics := overlay.NewMetrics(reg)
	if addr := rt.cfg.Metrics.Addr; addr != "" {
		srv := serveMetrics(addr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	coord := overlay.New(ctx, overlay.Options{
		Fetcher:      newFetcher(rt.cfg, logger),
		Clock:        clockwork.NewRealClock(),
		DismissAfter: rt.cfg.Quotes.DismissAfter,
		Logger:       logger,
		Metrics:      metrics,
	})

	logger.Info("Starting UI", "db", rt.cfg.Database.Path, "offline", rt.cfg.Quotes.Offline)
	p := tea.NewProgram(
		tui.New(ctx, tui.Services{Diary: rt.diary, Maintenance: rt.maintenance}, coord),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// LogCmd implements the 'log' command.
type LogCmd struct {
	Kind   string  `arg:"" enum:"calories,water" help:"What to record (calories or water)"`
	Amount float64 `arg:"" help:"Amount in kcal or ml"`
}

func (l *LogCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, root)
	if err != nil {
		return err
	}
	defer rt.Close()

	kind := repository.EntryKind(l.Kind)
	sum, err := rt.diary.AddEntry(ctx, kind, l.Amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "logged %.0f %s\n", l.Amount, kind.Unit())
	printSummary(g.Out, sum)
	return nil
}

// TodayCmd implements the 'today' command.
type TodayCmd struct{}

func (TodayCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, root)
	if err != nil {
		return err
	}
	defer rt.Close()

	sum, err := rt.diary.Today(ctx)
	if err != nil {
		return err
	}
	printSummary(g.Out, sum)
	return nil
}

// GoalsCmd implements the 'goals' command.
type GoalsCmd struct {
	Calories float64 `arg:"" help:"Daily calorie goal in kcal"`
	Water    float64 `arg:"" help:"Daily water goal in ml"`
}

func (c *GoalsCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, root)
	if err != nil {
		return err
	}
	defer rt.Close()

	goals, err := rt.diary.UpdateGoals(ctx, c.Calories, c.Water)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "goals: %.0f kcal, %.0f ml\n", goals.DailyCalories, goals.DailyWater)
	return nil
}

// QuoteCmd implements the 'quote' command.
type QuoteCmd struct{}

func (QuoteCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	timeout := cfg.Quotes.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	q, err := newFetcher(cfg, slog.Default()).FetchQuote(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(g.Out, q.String())
	return nil
}

// SeedCmd implements the 'seed' command.
type SeedCmd struct {
	Days int    `help:"Number of past days to fill" default:"14"`
	Seed uint64 `help:"Random seed" default:"1"`
}

func (s *SeedCmd) Run(g *Global, root *CLI) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, root)
	if err != nil {
		return err
	}
	defer rt.Close()

	n, err := testdata.Seed(ctx, rt.diary.Entries, rt.diary.Now(), s.Days, s.Seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "seeded %d entries over %d days\n", n, s.Days)
	return nil
}

// ResetCmd implements the 'reset' command.
type ResetCmd struct {
	Yes bool `help:"Confirm deleting every diary entry"`
}

func (r *ResetCmd) Run(g *Global, root *CLI) error {
	if !r.Yes {
		return errors.New("refusing to reset without --yes")
	}
	ctx := context.Background()
	rt, err := openRuntime(ctx, root)
	if err != nil {
		return err
	}
	defer rt.Close()

	n, err := rt.maintenance.Reset(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "removed %d entries\n", n)
	return nil
}
