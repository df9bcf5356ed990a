package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jask/trainerwatch/internal/database/repository"
)

// DefaultGoals are the general-guidance daily targets used for a new database.
var DefaultGoals = repository.Goals{DailyCalories: 2000, DailyWater: 2000}

// SeedDefaults ensures a goals row exists. It is idempotent and safe to run on
// every startup; an existing row is never overwritten.
func SeedDefaults(ctx context.Context, db *sql.DB, goals repository.Goals) error {
	repo := repository.NewGoalsRepo(db)
	_, err := repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if goals.DailyCalories <= 0 || goals.DailyWater <= 0 {
		goals = DefaultGoals
	}
	return repo.Save(ctx, goals)
}
