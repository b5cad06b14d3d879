// Package store provides the durable data access layer for the delivery
// pipeline: scheduled email jobs, webhook dead letters, the dispatch log,
// and received applications.
//
// The store receives an already-opened *sql.DB (see dbopen) and owns the
// schema. All timestamps are milliseconds since epoch.
package store

import "database/sql"

// Store wraps the delivery database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}
