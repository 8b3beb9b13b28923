package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type LedgerRepo struct {
	db DBTX
}

func NewLedgerRepo(db DBTX) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) Get(ctx context.Context, userKey string) (*Ledger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_key, total_xp, updated_at FROM xp_ledger WHERE user_key = ?`, userKey)

	var (
		l         Ledger
		updatedAt sql.NullTime
	)
	if err := row.Scan(&l.UserKey, &l.TotalXP, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger get: %w", err)
	}
	if updatedAt.Valid {
		v := updatedAt.Time
		l.UpdatedAt = &v
	}
	return &l, nil
}

func (r *LedgerRepo) GetOrCreate(ctx context.Context, userKey string) (*Ledger, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO xp_ledger (user_key) VALUES (?) ON CONFLICT(user_key) DO NOTHING`, userKey); err != nil {
		return nil, fmt.Errorf("ledger insert: %w", err)
	}
	return r.Get(ctx, userKey)
}

// AddXP increments the user's total in a single statement and returns the new
// total. Concurrent callers never lose an increment.
func (r *LedgerRepo) AddXP(ctx context.Context, userKey string, amount int, at time.Time) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("ledger add: negative amount %d", amount)
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO xp_ledger (user_key, total_xp, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_key) DO UPDATE
		SET total_xp = xp_ledger.total_xp + excluded.total_xp, updated_at = excluded.updated_at
		RETURNING total_xp
	`, userKey, amount, at)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("ledger add: %w", err)
	}
	return total, nil
}
