package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// GoalsRepo handles the single-row goals table.
type GoalsRepo struct {
	db *sql.DB
}

func NewGoalsRepo(db *sql.DB) *GoalsRepo { return &GoalsRepo{db: db} }

// Get returns the stored goals, or ErrNotFound before they are seeded.
func (r *GoalsRepo) Get(ctx context.Context) (Goals, error) {
	var g Goals
	err := r.db.QueryRowContext(ctx, `SELECT daily_calories, daily_water, updated_at FROM goals WHERE id = 1`).
		Scan(&g.DailyCalories, &g.DailyWater, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Goals{}, ErrNotFound
	}
	return g, err
}

func (r *GoalsRepo) Save(ctx context.Context, g Goals) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO goals(id, daily_calories, daily_water, updated_at)
	VALUES (1, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 daily_calories=excluded.daily_calories,
	 daily_water=excluded.daily_water,
	 updated_at=excluded.updated_at;
	`, g.DailyCalories, g.DailyWater, time.Now().UTC())
	return err
}
