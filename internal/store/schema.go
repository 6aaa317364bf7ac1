package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const schemaVersion = 1

// A bands table keyed by an auto-assigned integer id with a
// store-generated creation timestamp, and a users table keyed by
// unique username holding only the password hash.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL
	) WITHOUT ROWID`,
	`CREATE TABLE IF NOT EXISTS bands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		coordinate_x REAL NOT NULL,
		coordinate_y REAL NOT NULL,
		genre TEXT NOT NULL,
		number_of_participants INTEGER NOT NULL,
		singles_count INTEGER NOT NULL,
		creation_date INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		owner TEXT NOT NULL,
		best_album_name TEXT NOT NULL,
		best_album_sales REAL NOT NULL
	)`,
	"CREATE INDEX IF NOT EXISTS idx_bands_owner ON bands(owner)",
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int

	err := row.Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

func createSchemaInTxn(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema txn: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schemaStatements {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply schema statement %q: %w", stmt, err)
		}
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	if err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit schema txn: %w", err)
	}

	committed = true

	return nil
}

// ExecAdmin executes a single maintenance statement outside the CRUD
// surface, e.g. a table reset. It takes the write lock like any other
// mutation.
func (s *Store) ExecAdmin(ctx context.Context, stmt string) error {
	if ctx == nil {
		return errors.New("exec admin: context is nil")
	}

	if s == nil || s.sql == nil {
		return errors.New("exec admin: store is not open")
	}

	s.mu.Lock()
	_, err := s.sql.ExecContext(ctx, stmt)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("exec admin: %w: %w", ErrUnavailable, err)
	}

	return nil
}

// Reset drops and recreates both tables, discarding all rows. It is
// the maintenance path behind "init --reset".
func (s *Store) Reset(ctx context.Context) error {
	if ctx == nil {
		return errors.New("reset: context is nil")
	}

	if s == nil || s.sql == nil {
		return errors.New("reset: store is not open")
	}

	statements := append([]string{
		"DROP TABLE IF EXISTS bands",
		"DROP TABLE IF EXISTS users",
	}, schemaStatements...)

	for _, stmt := range statements {
		err := s.ExecAdmin(ctx, stmt)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}

	return nil
}
