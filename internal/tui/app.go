package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/trainerwatch/internal/database/repository"
	"github.com/jask/trainerwatch/internal/overlay"
	"github.com/jask/trainerwatch/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	services Services
	overlay  *overlay.Coordinator
	keys     keyMap
	state    appState
	modal    modalState

	summary service.Summary
	loaded  bool
	status  string

	// add-entry flow
	entryKind    repository.EntryKind
	optionCursor int
	amount       float64

	// goals flow
	goalInputs [2]string
	goalField  int

	calBar   progress.Model
	waterBar progress.Model
	width    int
	height   int
}

type Services struct {
	Diary       *service.DiaryService
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewEntry     appState = "entry"
	viewGoals     appState = "goals"
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmReset modalState = "confirmReset"
)

const confirmWindow = 5 * time.Second

func New(ctx context.Context, services Services, coord *overlay.Coordinator) *App {
	return &App{
		ctx:      ctx,
		services: services,
		overlay:  coord,
		keys:     newKeyMap(),
		state:    viewDashboard,
		calBar:   newBar(colorCalories),
		waterBar: newBar(colorWater),
	}
}

func newBar(c lipgloss.Color) progress.Model {
	return progress.New(
		progress.WithSolidFill(string(c)),
		progress.WithoutPercentage(),
		progress.WithWidth(32),
	)
}

// Init loads today's totals and warms the quote cache.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadSummary(), a.overlay.Launch())
}

func (a *App) loadSummary() tea.Cmd {
	return func() tea.Msg {
		sum, err := a.services.Diary.Today(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return summaryMsg(sum)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.overlay.Update(msg); ok {
		return a, cmd
	}

	switch m := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(m)
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		w := max(m.Width-24, 10)
		a.calBar.Width = min(w, 48)
		a.waterBar.Width = min(w, 48)
	case summaryMsg:
		a.summary = service.Summary(m)
		a.loaded = true
	case entryAddedMsg:
		a.summary = m.Summary
		a.loaded = true
		a.status = fmt.Sprintf("added %s %s", formatAmount(m.Kind, m.Amount), m.Kind)
		if m.Summary.GoalMet(m.Kind) {
			a.status += " · goal reached"
		}
		a.state = viewDashboard
		return a, a.overlay.EntryLogged()
	case entryUndoneMsg:
		a.summary = m.Summary
		a.status = fmt.Sprintf("removed last %s entry", m.Kind)
	case goalsSavedMsg:
		a.summary.Goals = repository.Goals(m)
		a.status = "goals saved"
		a.state = viewDashboard
		return a, a.loadSummary()
	case resetDoneMsg:
		a.status = fmt.Sprintf("diary cleared (%d entries)", int64(m))
		return a, a.loadSummary()
	case confirmExpiredMsg:
		if a.modal == modalConfirmReset {
			a.modal = modalNone
			a.status = "reset cancelled"
		}
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.overlay.Visible() {
		if key.Matches(m, a.keys.Dismiss) {
			a.overlay.DismissNow()
		}
		return a, nil
	}
	if a.modal == modalConfirmReset {
		return a.handleConfirmKey(m)
	}
	switch a.state {
	case viewEntry:
		return a.handleEntryKey(m)
	case viewGoals:
		return a.handleGoalsKey(m)
	}

	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Calories):
		a.openEntry(repository.KindCalories)
	case key.Matches(m, a.keys.Water):
		a.openEntry(repository.KindWater)
	case key.Matches(m, a.keys.Goals):
		a.openGoals()
	}
	return a, nil
}

func (a *App) openEntry(kind repository.EntryKind) {
	a.services.Diary.Click()
	a.state = viewEntry
	a.entryKind = kind
	a.optionCursor = 0
	a.amount = service.QuickAddOptions(kind)[0]
	a.status = ""
}

func (a *App) handleEntryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := service.QuickAddOptions(a.entryKind)
	switch {
	case key.Matches(m, a.keys.Back):
		a.state = viewDashboard
	case key.Matches(m, a.keys.Left), key.Matches(m, a.keys.Up):
		if a.optionCursor > 0 {
			a.optionCursor--
			a.amount = opts[a.optionCursor]
			a.services.Diary.Click()
		}
	case key.Matches(m, a.keys.Right), key.Matches(m, a.keys.Down):
		if a.optionCursor < len(opts)-1 {
			a.optionCursor++
			a.amount = opts[a.optionCursor]
			a.services.Diary.Click()
		}
	case key.Matches(m, a.keys.Plus):
		a.amount += service.AdjustStep
		a.services.Diary.Click()
	case key.Matches(m, a.keys.Minus):
		if a.amount > service.AdjustStep {
			a.amount -= service.AdjustStep
			a.services.Diary.Click()
		}
	case key.Matches(m, a.keys.Undo):
		return a, a.undoCmd(a.entryKind)
	case key.Matches(m, a.keys.Confirm):
		a.status = "saving..."
		return a, a.addEntryCmd(a.entryKind, a.amount)
	}
	return a, nil
}

func (a *App) openGoals() {
	a.services.Diary.Click()
	a.state = viewGoals
	a.goalField = 0
	a.goalInputs = [2]string{
		strconv.FormatFloat(a.summary.Goals.DailyCalories, 'f', -1, 64),
		strconv.FormatFloat(a.summary.Goals.DailyWater, 'f', -1, 64),
	}
	a.status = ""
}

func (a *App) handleGoalsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.state = viewDashboard
	case "tab", "shift+tab", "up", "down":
		a.goalField = 1 - a.goalField
	case "backspace":
		in := a.goalInputs[a.goalField]
		if len(in) > 0 {
			a.goalInputs[a.goalField] = in[:len(in)-1]
		}
	case "enter":
		cal, err := strconv.ParseFloat(a.goalInputs[0], 64)
		if err != nil {
			a.status = "calorie goal must be a number"
			return a, nil
		}
		water, err := strconv.ParseFloat(a.goalInputs[1], 64)
		if err != nil {
			a.status = "water goal must be a number"
			return a, nil
		}
		return a, a.saveGoalsCmd(cal, water)
	case "r":
		if a.services.Maintenance == nil {
			return a, nil
		}
		a.modal = modalConfirmReset
		a.status = "press y within 5s to delete every diary entry"
		return a, confirmTimerCmd()
	default:
		if m.Type == tea.KeyRunes {
			for _, r := range m.Runes {
				if (r >= '0' && r <= '9') || r == '.' {
					a.goalInputs[a.goalField] += string(r)
				}
			}
		}
	}
	return a, nil
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.modal = modalNone
	if m.String() == "y" {
		a.status = "clearing diary..."
		return a, a.resetCmd()
	}
	a.status = "reset cancelled"
	return a, nil
}

// commands
func (a *App) addEntryCmd(kind repository.EntryKind, amount float64) tea.Cmd {
	return func() tea.Msg {
		sum, err := a.services.Diary.AddEntry(a.ctx, kind, amount)
		if err != nil {
			return errMsg{err}
		}
		return entryAddedMsg{Kind: kind, Amount: amount, Summary: sum}
	}
}

func (a *App) undoCmd(kind repository.EntryKind) tea.Cmd {
	return func() tea.Msg {
		sum, err := a.services.Diary.UndoLast(a.ctx, kind)
		if errors.Is(err, repository.ErrNotFound) {
			return statusMsg(fmt.Sprintf("no %s entries today", kind))
		}
		if err != nil {
			return errMsg{err}
		}
		return entryUndoneMsg{Kind: kind, Summary: sum}
	}
}

func (a *App) saveGoalsCmd(calories, water float64) tea.Cmd {
	return func() tea.Msg {
		g, err := a.services.Diary.UpdateGoals(a.ctx, calories, water)
		if err != nil {
			return errMsg{err}
		}
		return goalsSavedMsg(g)
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := a.services.Maintenance.Reset(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return resetDoneMsg(n)
	}
}

func confirmTimerCmd() tea.Cmd {
	return tea.Tick(confirmWindow, func(time.Time) tea.Msg { return confirmExpiredMsg{} })
}

// messages
type summaryMsg service.Summary

type entryAddedMsg struct {
	Kind    repository.EntryKind
	Amount  float64
	Summary service.Summary
}

type entryUndoneMsg struct {
	Kind    repository.EntryKind
	Summary service.Summary
}

type goalsSavedMsg repository.Goals

type resetDoneMsg int64

type confirmExpiredMsg struct{}

type statusMsg string

type errMsg struct{ error }
