package store

import (
	"context"
	"time"
)

// InsertDispatchLog appends an outcome entry for a dispatch attempt.
func (s *Store) InsertDispatchLog(ctx context.Context, e *DispatchLogEntry) error {
	if e.LoggedAt == 0 {
		e.LoggedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO dispatch_log (id, job_id, status, error_message, logged_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.JobID, e.Status, e.ErrorMessage, e.LoggedAt,
	)
	return err
}

// JobHistory returns every logged attempt for a job, oldest first.
func (s *Store) JobHistory(ctx context.Context, jobID string) ([]*DispatchLogEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, job_id, status, error_message, logged_at
		FROM dispatch_log WHERE job_id = ? ORDER BY logged_at ASC, id ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DispatchLogEntry
	for rows.Next() {
		var e DispatchLogEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.Status, &e.ErrorMessage, &e.LoggedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
