// CLAUDE:SUMMARY Applies the complete delivery SQL schema (email jobs, dead letters, dispatch log, applications).
package store

import "database/sql"

// Schema is the complete delivery schema.
const Schema = `
-- Scheduled confirmation emails awaiting dispatch
CREATE TABLE IF NOT EXISTS email_jobs (
    id              TEXT PRIMARY KEY,
    recipient       TEXT NOT NULL,
    subject         TEXT NOT NULL,
    text_body       TEXT NOT NULL DEFAULT '',
    html_body       TEXT NOT NULL DEFAULT '',
    timezone        TEXT NOT NULL DEFAULT 'UTC',
    scheduled_for   INTEGER NOT NULL,
    attempts        INTEGER NOT NULL DEFAULT 0,
    max_attempts    INTEGER NOT NULL DEFAULT 3,
    last_error      TEXT NOT NULL DEFAULT '',
    last_attempt_at INTEGER,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_email_jobs_due ON email_jobs(scheduled_for, attempts);

-- Webhook payloads that exhausted all retries, kept for remediation
CREATE TABLE IF NOT EXISTS dead_letters (
    id          TEXT PRIMARY KEY,
    payload     TEXT NOT NULL,
    reason      TEXT NOT NULL DEFAULT '',
    attempts    INTEGER NOT NULL DEFAULT 0,
    created_at  INTEGER NOT NULL
);

-- Terminal and per-attempt outcomes for email jobs
CREATE TABLE IF NOT EXISTS dispatch_log (
    id            TEXT PRIMARY KEY,
    job_id        TEXT NOT NULL,
    status        TEXT NOT NULL,
    error_message TEXT NOT NULL DEFAULT '',
    logged_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dispatch_log_job ON dispatch_log(job_id, logged_at);

-- Received applications with their parsed profile
CREATE TABLE IF NOT EXISTS applications (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL DEFAULT '',
    email        TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    timezone     TEXT NOT NULL DEFAULT 'UTC',
    cv_file_name TEXT NOT NULL DEFAULT '',
    cv_link      TEXT NOT NULL DEFAULT '',
    profile_json TEXT NOT NULL DEFAULT '{}',
    received_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_received ON applications(received_at);
`

// ApplySchema creates all delivery tables if they don't exist.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
