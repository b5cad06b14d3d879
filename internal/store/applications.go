package store

import (
	"context"
	"database/sql"
	"time"
)

// InsertApplication persists a processed application and its parsed profile.
func (s *Store) InsertApplication(ctx context.Context, app *Application) error {
	if app.ReceivedAt == 0 {
		app.ReceivedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO applications (id, name, email, phone, timezone,
		cv_file_name, cv_link, profile_json, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID, app.Name, app.Email, app.Phone, app.Timezone,
		app.CVFileName, app.CVLink, app.ProfileJSON, app.ReceivedAt,
	)
	return err
}

// GetApplication retrieves an application by ID, or nil when absent.
func (s *Store) GetApplication(ctx context.Context, id string) (*Application, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, name, email, phone, timezone, cv_file_name, cv_link, profile_json, received_at
		FROM applications WHERE id = ?`, id)

	var a Application
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Timezone,
		&a.CVFileName, &a.CVLink, &a.ProfileJSON, &a.ReceivedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListApplications returns applications newest first, capped at limit.
// A non-positive limit defaults to 200.
func (s *Store) ListApplications(ctx context.Context, limit int) ([]*Application, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, email, phone, timezone, cv_file_name, cv_link, profile_json, received_at
		FROM applications ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Timezone,
			&a.CVFileName, &a.CVLink, &a.ProfileJSON, &a.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
