package store

import (
	"context"
	"time"
)

// InsertDeadLetter records a delivery that exhausted its attempts.
func (s *Store) InsertDeadLetter(ctx context.Context, dl *DeadLetter) error {
	if dl.CreatedAt == 0 {
		dl.CreatedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO dead_letters (id, payload, reason, attempts, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		dl.ID, dl.Payload, dl.Reason, dl.Attempts, dl.CreatedAt,
	)
	return err
}

// ListDeadLetters returns dead letters newest first, capped at limit.
// A non-positive limit defaults to 100.
func (s *Store) ListDeadLetters(ctx context.Context, limit int) ([]*DeadLetter, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, payload, reason, attempts, created_at
		FROM dead_letters ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DeadLetter
	for rows.Next() {
		var dl DeadLetter
		if err := rows.Scan(&dl.ID, &dl.Payload, &dl.Reason, &dl.Attempts, &dl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &dl)
	}
	return out, rows.Err()
}
