package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// EntryKind identifies what a diary entry measures.
type EntryKind string

const (
	KindCalories EntryKind = "calories"
	KindWater    EntryKind = "water"
)

// Valid reports whether k is a known kind.
func (k EntryKind) Valid() bool {
	return k == KindCalories || k == KindWater
}

// Unit returns the display unit for the kind.
func (k EntryKind) Unit() string {
	if k == KindWater {
		return "ml"
	}
	return "kcal"
}

// DiaryEntry represents a diary_entries row.
type DiaryEntry struct {
	ID        string
	Kind      EntryKind
	Amount    float64
	CreatedAt time.Time
}

// Goals represents the single goals row.
type Goals struct {
	DailyCalories float64
	DailyWater    float64 // ml
	UpdatedAt     time.Time
}

// For returns the goal for kind.
func (g Goals) For(kind EntryKind) float64 {
	if kind == KindWater {
		return g.DailyWater
	}
	return g.DailyCalories
}
