package tui

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/trainerwatch/internal/database"
	"github.com/jask/trainerwatch/internal/database/repository"
	"github.com/jask/trainerwatch/internal/feedback"
	"github.com/jask/trainerwatch/internal/overlay"
	"github.com/jask/trainerwatch/internal/quote"
	"github.com/jask/trainerwatch/internal/service"
)

type harness struct {
	t       *testing.T
	app     *App
	clock   *clockwork.FakeClock
	haptics *feedback.Recorder
	db      *sql.DB
	msgs    chan tea.Msg
}

var testQuote = quote.Quote{Text: "Keep going.", Author: "Anon"}

func newHarness(t *testing.T, fetch quote.FetcherFunc) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "tui.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db, database.DefaultGoals))

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := &feedback.Recorder{}
	diary := &service.DiaryService{
		Entries:  repository.NewEntryRepo(db),
		Goals:    repository.NewGoalsRepo(db),
		Haptics:  rec,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
	clock := clockwork.NewFakeClock()
	coord := overlay.New(ctx, overlay.Options{Fetcher: fetch, Clock: clock})

	return &harness{
		t:       t,
		app:     New(ctx, Services{Diary: diary, Maintenance: &service.MaintenanceService{DB: db}}, coord),
		clock:   clock,
		haptics: rec,
		db:      db,
		msgs:    make(chan tea.Msg, 64),
	}
}

func staticFetcher(q quote.Quote) quote.FetcherFunc {
	return func(context.Context) (quote.Quote, error) { return q, nil }
}

// run executes cmd in the background; its message is applied by settle.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			for _, c := range msg {
				h.run(c)
			}
		default:
			h.msgs <- msg
		}
	}()
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.app.Update(msg)
	h.run(cmd)
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		switch k {
		case "enter":
			h.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "esc":
			h.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "tab":
			h.send(tea.KeyMsg{Type: tea.KeyTab})
		case "backspace":
			h.send(tea.KeyMsg{Type: tea.KeyBackspace})
		case "right":
			h.send(tea.KeyMsg{Type: tea.KeyRight})
		case "left":
			h.send(tea.KeyMsg{Type: tea.KeyLeft})
		default:
			h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

// settle applies messages until none arrive for a short while. Quit and
// timer messages that never fire are left alone.
func (h *harness) settle() {
	for {
		select {
		case msg := <-h.msgs:
			if _, ok := msg.(tea.QuitMsg); ok {
				continue
			}
			h.send(msg)
		case <-time.After(50 * time.Millisecond):
			return
		}
	}
}

func (h *harness) start() {
	h.run(h.app.Init())
	h.settle()
}

func TestInitLoadsSummaryAndWarmsCache(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	assert.True(t, h.app.loaded)
	assert.Equal(t, 2000.0, h.app.summary.Goals.DailyCalories)
	require.NotNil(t, h.app.overlay.Cached())
	assert.Equal(t, testQuote, *h.app.overlay.Cached())
	assert.False(t, h.app.overlay.Visible(), "launch must not show the overlay")
	assert.Contains(t, h.app.View(), "Today")
}

func TestAddEntryShowsCachedQuote(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("w")
	assert.Equal(t, viewEntry, h.app.state)
	assert.Equal(t, 100.0, h.app.amount)
	h.press("right", "+")
	assert.Equal(t, 300.0, h.app.amount)
	h.press("enter")
	h.settle()

	assert.Equal(t, viewDashboard, h.app.state)
	assert.Equal(t, 300.0, h.app.summary.Water)
	assert.True(t, h.app.overlay.Visible())
	assert.False(t, h.app.overlay.Loading())
	assert.Contains(t, h.app.View(), "Keep going.")
	assert.Contains(t, h.haptics.Cues(), feedback.CueDirectionUp)
	assert.Contains(t, h.haptics.Cues(), feedback.CueClick)
}

func TestOverlayHidesAfterDismissDelay(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("c", "enter")
	h.settle()
	require.True(t, h.app.overlay.Visible())

	h.clock.Advance(overlay.DefaultDismissAfter - time.Millisecond)
	h.settle()
	assert.True(t, h.app.overlay.Visible())

	h.clock.Advance(time.Millisecond)
	h.settle()
	assert.False(t, h.app.overlay.Visible())
	assert.NotContains(t, h.app.View(), "Keep going.")
}

func TestOverlayKeysDismissWithoutLeakingToViews(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("c", "enter")
	h.settle()
	require.True(t, h.app.overlay.Visible())

	// navigation keys are swallowed while the overlay is up
	h.press("g")
	assert.Equal(t, viewDashboard, h.app.state)
	assert.True(t, h.app.overlay.Visible())

	h.press("esc")
	assert.False(t, h.app.overlay.Visible())
	assert.Equal(t, viewDashboard, h.app.state)
}

func TestOverlayLoadingThenPlaceholderOnFailure(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, func(ctx context.Context) (quote.Quote, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return quote.Quote{}, quote.ErrUnavailable
	})
	h.start()
	require.Nil(t, h.app.overlay.Cached())

	h.press("c", "enter")
	h.settle()
	require.True(t, h.app.overlay.Visible())
	assert.True(t, h.app.overlay.Loading())
	assert.Contains(t, h.app.View(), "Finding some motivation")

	close(release)
	h.settle()
	assert.False(t, h.app.overlay.Loading())
	assert.True(t, h.app.overlay.Visible())
	assert.Contains(t, h.app.View(), "Keep it up")
}

func TestUndoWithoutEntriesReportsStatus(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("c", "u")
	h.settle()
	assert.Equal(t, "no calories entries today", h.app.status)
	assert.False(t, h.app.overlay.Visible())
}

func TestUndoRemovesLastEntry(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("c", "enter")
	h.settle()
	h.press("esc")
	require.Equal(t, 100.0, h.app.summary.Calories)

	h.press("c", "u")
	h.settle()
	assert.Equal(t, 0.0, h.app.summary.Calories)
	assert.False(t, h.app.overlay.Visible(), "undo is not a logged entry")
}

func TestGoalsEditAndSave(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("g")
	require.Equal(t, viewGoals, h.app.state)
	assert.Equal(t, [2]string{"2000", "2000"}, h.app.goalInputs)

	h.press("backspace", "backspace", "backspace", "backspace", "2", "5", "0", "0")
	h.press("tab", "backspace", "backspace", "backspace", "backspace", "3", "0", "0", "0")
	h.press("enter")
	h.settle()

	assert.Equal(t, viewDashboard, h.app.state)
	assert.Equal(t, "goals saved", h.app.status)
	assert.Equal(t, 2500.0, h.app.summary.Goals.DailyCalories)
	assert.Equal(t, 3000.0, h.app.summary.Goals.DailyWater)
	assert.Contains(t, h.haptics.Cues(), feedback.CueSuccess)
}

func TestGoalsRejectsEmptyInput(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("g", "backspace", "backspace", "backspace", "backspace", "enter")
	h.settle()
	assert.Equal(t, viewGoals, h.app.state)
	assert.Equal(t, "calorie goal must be a number", h.app.status)
}

func TestResetNeedsConfirmation(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("c", "enter")
	h.settle()
	h.press("esc", "g", "r")
	assert.Equal(t, modalConfirmReset, h.app.modal)
	assert.Contains(t, h.app.View(), "Delete every diary entry?")

	h.press("n")
	assert.Equal(t, modalNone, h.app.modal)
	assert.Equal(t, "reset cancelled", h.app.status)

	h.press("r", "y")
	h.settle()
	assert.Equal(t, "diary cleared (1 entries)", h.app.status)
	assert.Equal(t, 0.0, h.app.summary.Calories)
}

func TestConfirmExpiry(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.start()

	h.press("g", "r")
	require.Equal(t, modalConfirmReset, h.app.modal)
	h.send(confirmExpiredMsg{})
	assert.Equal(t, modalNone, h.app.modal)
}

func TestErrorsShownInStatus(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	h.send(errMsg{errors.New("disk full")})
	assert.Equal(t, "error: disk full", h.app.status)
	assert.Contains(t, h.app.View(), "disk full")
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t, staticFetcher(testQuote))
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
