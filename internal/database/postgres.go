// Package database manages the PostgreSQL connection and schema migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrStoreUnavailable marks store-level failures (network, timeout, driver).
// It is the only error class callers are expected to retry automatically.
var ErrStoreUnavailable = errors.New("store unavailable")

// Unavailable wraps a driver error so callers can match it with
// errors.Is(err, ErrStoreUnavailable) without depending on driver types.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// NewPostgresConnection opens a connection pool, verifies it and runs the
// schema migrations.
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
