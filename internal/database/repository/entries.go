package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// EntryRepo handles diary entries.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

func (r *EntryRepo) Insert(ctx context.Context, e DiaryEntry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO diary_entries(id, kind, amount, created_at)
	VALUES(?, ?, ?, ?);
	`, e.ID, string(e.Kind), e.Amount, e.CreatedAt.UTC())
	return err
}

// ListBetween returns entries created in [from, to), newest first.
func (r *EntryRepo) ListBetween(ctx context.Context, from, to time.Time) ([]DiaryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, kind, amount, created_at
	FROM diary_entries
	WHERE created_at >= ? AND created_at < ?
	ORDER BY created_at DESC, id DESC;
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DiaryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TotalBetween sums the amounts of one kind created in [from, to).
func (r *EntryRepo) TotalBetween(ctx context.Context, kind EntryKind, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(amount), 0)
	FROM diary_entries
	WHERE kind = ? AND created_at >= ? AND created_at < ?;
	`, string(kind), from.UTC(), to.UTC()).Scan(&total)
	return total, err
}

// DeleteLatestBetween removes the newest entry of kind in [from, to) and returns it.
func (r *EntryRepo) DeleteLatestBetween(ctx context.Context, kind EntryKind, from, to time.Time) (DiaryEntry, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, kind, amount, created_at
	FROM diary_entries
	WHERE kind = ? AND created_at >= ? AND created_at < ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1;
	`, string(kind), from.UTC(), to.UTC())
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DiaryEntry{}, ErrNotFound
		}
		return DiaryEntry{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE id = ?`, e.ID); err != nil {
		return DiaryEntry{}, err
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (DiaryEntry, error) {
	var e DiaryEntry
	var kind string
	if err := row.Scan(&e.ID, &kind, &e.Amount, &e.CreatedAt); err != nil {
		return DiaryEntry{}, err
	}
	e.Kind = EntryKind(kind)
	return e, nil
}
