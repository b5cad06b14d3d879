// CLAUDE:SUMMARY Email job CRUD, atomic due-job claiming, and exhausted-job selection.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/cvpipe/dbopen"
)

// InsertJob persists a new email job. Attempts start at zero.
func (s *Store) InsertJob(ctx context.Context, job *EmailJob) error {
	if job.CreatedAt == 0 {
		job.CreatedAt = time.Now().UnixMilli()
	}
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = 3
	}
	if job.Timezone == "" {
		job.Timezone = "UTC"
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO email_jobs (id, recipient, subject, text_body, html_body,
		timezone, scheduled_for, attempts, max_attempts, last_error, last_attempt_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, '', NULL, ?)`,
		job.ID, job.Recipient, job.Subject, job.TextBody, job.HTMLBody,
		job.Timezone, job.ScheduledFor, job.MaxAttempts, job.CreatedAt,
	)
	return err
}

// GetJob retrieves a job by ID, or nil if it no longer exists.
func (s *Store) GetJob(ctx context.Context, id string) (*EmailJob, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, recipient, subject, text_body, html_body, timezone,
		scheduled_for, attempts, max_attempts, last_error,
		COALESCE(last_attempt_at, 0), created_at
		FROM email_jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// ClaimDueJobs atomically selects all jobs whose scheduled_for has passed
// and whose attempts are below max_attempts, incrementing attempts in the
// same statement. The increment-at-claim guards overlapping dispatcher runs:
// a job claimed by one run is no longer due for a concurrent one at the
// same attempt number.
func (s *Store) ClaimDueJobs(ctx context.Context, now time.Time) ([]*EmailJob, error) {
	rows, err := s.DB.QueryContext(ctx,
		`UPDATE email_jobs
		SET attempts = attempts + 1, last_attempt_at = ?
		WHERE scheduled_for <= ? AND attempts < max_attempts
		RETURNING id, recipient, subject, text_body, html_body, timezone,
		scheduled_for, attempts, max_attempts, last_error,
		COALESCE(last_attempt_at, 0), created_at`,
		now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*EmailJob
	for rows.Next() {
		job, err := scanJobRows(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// RecordJobError stores the failure reason for a claimed job. The attempt
// count was already incremented at claim time.
func (s *Store) RecordJobError(ctx context.Context, id, errMsg string) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE email_jobs SET last_error = ? WHERE id = ?`, errMsg, id)
	return err
}

// DeleteJob removes a job after a successful send or abandonment.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM email_jobs WHERE id = ?`, id)
	return err
}

// CompleteJob deletes a job and writes its terminal log entry in a single
// transaction, so a crash cannot leave a deleted job without its "sent" or
// "abandoned" record. Retries on SQLITE_BUSY.
func (s *Store) CompleteJob(ctx context.Context, jobID string, entry *DispatchLogEntry) error {
	if entry.LoggedAt == 0 {
		entry.LoggedAt = time.Now().UnixMilli()
	}
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM email_jobs WHERE id = ?`, jobID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dispatch_log (id, job_id, status, error_message, logged_at)
			VALUES (?, ?, ?, ?, ?)`,
			entry.ID, entry.JobID, entry.Status, entry.ErrorMessage, entry.LoggedAt,
		)
		return err
	})
}

// ExhaustedJobs returns jobs whose attempts reached max_attempts. These are
// abandoned by the dispatcher's cleanup pass.
func (s *Store) ExhaustedJobs(ctx context.Context) ([]*EmailJob, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, recipient, subject, text_body, html_body, timezone,
		scheduled_for, attempts, max_attempts, last_error,
		COALESCE(last_attempt_at, 0), created_at
		FROM email_jobs WHERE attempts >= max_attempts
		ORDER BY scheduled_for ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*EmailJob
	for rows.Next() {
		job, err := scanJobRows(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CountJobs returns the number of pending email jobs.
func (s *Store) CountJobs(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_jobs`).Scan(&count)
	return count, err
}

func scanJob(row *sql.Row) (*EmailJob, error) {
	var j EmailJob
	err := row.Scan(
		&j.ID, &j.Recipient, &j.Subject, &j.TextBody, &j.HTMLBody, &j.Timezone,
		&j.ScheduledFor, &j.Attempts, &j.MaxAttempts, &j.LastError,
		&j.LastAttemptAt, &j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func scanJobRows(rows *sql.Rows) (*EmailJob, error) {
	var j EmailJob
	err := rows.Scan(
		&j.ID, &j.Recipient, &j.Subject, &j.TextBody, &j.HTMLBody, &j.Timezone,
		&j.ScheduledFor, &j.Attempts, &j.MaxAttempts, &j.LastError,
		&j.LastAttemptAt, &j.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan email job: %w", err)
	}
	return &j, nil
}
