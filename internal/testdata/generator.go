package testdata

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jask/trainerwatch/internal/database/repository"
)

// Seed writes sample diary entries for the days before now (today excluded)
// and returns how many were written. The same seed yields the same data.
func Seed(ctx context.Context, entries *repository.EntryRepo, now time.Time, days int, seed uint64) (int, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	written := 0
	for d := 1; d <= days; d++ {
		day := now.AddDate(0, 0, -d)
		start := time.Date(day.Year(), day.Month(), day.Day(), 7, 0, 0, 0, day.Location())

		for _, e := range sampleDay(rng, start) {
			if err := entries.Insert(ctx, e); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}

func sampleDay(rng *rand.Rand, start time.Time) []repository.DiaryEntry {
	meals := []float64{300, 500, 700, 200, 1000}
	drinks := []float64{250, 500, 750, 100}

	var out []repository.DiaryEntry
	for i := 0; i < 3+rng.IntN(3); i++ {
		out = append(out, repository.DiaryEntry{
			ID:        uuid.NewString(),
			Kind:      repository.KindCalories,
			Amount:    meals[rng.IntN(len(meals))],
			CreatedAt: start.Add(time.Duration(i*4) * time.Hour).Add(time.Duration(rng.IntN(60)) * time.Minute),
		})
	}
	for i := 0; i < 4+rng.IntN(5); i++ {
		out = append(out, repository.DiaryEntry{
			ID:        uuid.NewString(),
			Kind:      repository.KindWater,
			Amount:    drinks[rng.IntN(len(drinks))],
			CreatedAt: start.Add(time.Duration(i*90) * time.Minute),
		})
	}
	return out
}
