package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jask/trainerwatch/internal/database/repository"
	"github.com/jask/trainerwatch/internal/feedback"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrUnknownKind   = errors.New("unknown entry kind")
)

// AdjustStep is the fine-tune increment offered next to the quick-add options.
const AdjustStep = 50

var quickAdd = map[repository.EntryKind][]float64{
	repository.KindCalories: {100, 200, 300, 500, 1000},
	repository.KindWater:    {100, 250, 500, 750, 1000},
}

// QuickAddOptions returns the preset amounts for kind.
func QuickAddOptions(kind repository.EntryKind) []float64 {
	return append([]float64(nil), quickAdd[kind]...)
}

// Summary is one day's totals measured against the goals.
type Summary struct {
	Day      time.Time
	Calories float64
	Water    float64
	Goals    repository.Goals
}

func (s Summary) Total(kind repository.EntryKind) float64 {
	if kind == repository.KindWater {
		return s.Water
	}
	return s.Calories
}

// Progress is the fraction of the goal reached, capped at 1.
func (s Summary) Progress(kind repository.EntryKind) float64 {
	goal := s.Goals.For(kind)
	if goal <= 0 {
		return 0
	}
	return math.Min(s.Total(kind)/goal, 1)
}

func (s Summary) GoalMet(kind repository.EntryKind) bool {
	goal := s.Goals.For(kind)
	return goal > 0 && s.Total(kind) >= goal
}

// Remaining is how much is left to reach the goal, never negative.
func (s Summary) Remaining(kind repository.EntryKind) float64 {
	return math.Max(s.Goals.For(kind)-s.Total(kind), 0)
}

// DiaryService records entries and keeps goals.
type DiaryService struct {
	Entries  *repository.EntryRepo
	Goals    *repository.GoalsRepo
	Haptics  feedback.Haptics
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
}

// AddEntry stores an entry and returns today's updated summary. Haptics are
// played after the entry is stored: a direction cue always, and a
// notification when the goal for that kind has been reached.
func (s *DiaryService) AddEntry(ctx context.Context, kind repository.EntryKind, amount float64) (Summary, error) {
	if !kind.Valid() {
		return Summary{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Summary{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	entry := repository.DiaryEntry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Amount:    amount,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Entries.Insert(ctx, entry); err != nil {
		return Summary{}, fmt.Errorf("insert entry: %w", err)
	}
	s.logger().Debug("entry added", "kind", kind, "amount", amount)

	sum, err := s.Today(ctx)
	if err != nil {
		return Summary{}, err
	}
	s.play(feedback.CueDirectionUp)
	if sum.GoalMet(kind) {
		s.play(feedback.CueNotification)
	}
	return sum, nil
}

// Today returns the totals for the current day in the service's location.
func (s *DiaryService) Today(ctx context.Context) (Summary, error) {
	return s.SummaryFor(ctx, s.now())
}

// SummaryFor returns the totals for the day containing t.
func (s *DiaryService) SummaryFor(ctx context.Context, t time.Time) (Summary, error) {
	from, to := s.dayBounds(t)
	goals, err := s.Goals.Get(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load goals: %w", err)
	}
	cal, err := s.Entries.TotalBetween(ctx, repository.KindCalories, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("sum calories: %w", err)
	}
	water, err := s.Entries.TotalBetween(ctx, repository.KindWater, from, to)
	if err != nil {
		return Summary{}, fmt.Errorf("sum water: %w", err)
	}
	return Summary{Day: from, Calories: cal, Water: water, Goals: goals}, nil
}

// UndoLast removes today's most recent entry of kind.
func (s *DiaryService) UndoLast(ctx context.Context, kind repository.EntryKind) (Summary, error) {
	if !kind.Valid() {
		return Summary{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	from, to := s.dayBounds(s.now())
	if _, err := s.Entries.DeleteLatestBetween(ctx, kind, from, to); err != nil {
		return Summary{}, fmt.Errorf("undo %s: %w", kind, err)
	}
	return s.Today(ctx)
}

// UpdateGoals validates and stores new daily goals.
func (s *DiaryService) UpdateGoals(ctx context.Context, calories, water float64) (repository.Goals, error) {
	if calories <= 0 || water <= 0 {
		return repository.Goals{}, fmt.Errorf("%w: goals %v kcal / %v ml", ErrInvalidAmount, calories, water)
	}
	g := repository.Goals{DailyCalories: calories, DailyWater: water}
	if err := s.Goals.Save(ctx, g); err != nil {
		return repository.Goals{}, fmt.Errorf("save goals: %w", err)
	}
	s.play(feedback.CueSuccess)
	return s.Goals.Get(ctx)
}

// Click plays the button-press cue.
func (s *DiaryService) Click() {
	s.play(feedback.CueClick)
}

func (s *DiaryService) dayBounds(t time.Time) (time.Time, time.Time) {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *DiaryService) play(cue feedback.Cue) {
	if s.Haptics != nil {
		s.Haptics.Play(cue)
	}
}

func (s *DiaryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DiaryService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
