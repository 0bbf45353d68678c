package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/bosstimers/internal/settings"
)

// BestTimeRepository keeps best times in the best_times table, keyed by
// storage key. It satisfies settings.Backend.
type BestTimeRepository struct {
	pool *pgxpool.Pool
}

// NewBestTimeRepository creates a new BestTimeRepository.
func NewBestTimeRepository(pool *pgxpool.Pool) *BestTimeRepository {
	return &BestTimeRepository{pool: pool}
}

// ReadDuration returns the stored value for key or settings.ErrNotFound.
func (r *BestTimeRepository) ReadDuration(ctx context.Context, key string) (time.Duration, error) {
	var ms int64
	err := r.pool.QueryRow(ctx,
		`SELECT duration_ms FROM best_times WHERE key = $1`, key,
	).Scan(&ms)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("best time %q: %w", key, settings.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("query best time %q: %w", key, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// WriteDuration inserts or replaces the value for key.
func (r *BestTimeRepository) WriteDuration(ctx context.Context, key string, d time.Duration) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO best_times (key, duration_ms, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET
		   duration_ms = EXCLUDED.duration_ms,
		   updated_at  = EXCLUDED.updated_at`,
		key, d.Milliseconds())
	if err != nil {
		return fmt.Errorf("upsert best time %q: %w", key, err)
	}
	return nil
}

// LoadAll returns every stored best time.
func (r *BestTimeRepository) LoadAll(ctx context.Context) (map[string]time.Duration, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, duration_ms FROM best_times`)
	if err != nil {
		return nil, fmt.Errorf("query best_times: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Duration)
	for rows.Next() {
		var (
			key string
			ms  int64
		)
		if err := rows.Scan(&key, &ms); err != nil {
			return nil, fmt.Errorf("scan best_times: %w", err)
		}
		out[key] = time.Duration(ms) * time.Millisecond
	}
	return out, rows.Err()
}
