// Package store is the persistent store gateway. All SQL funnels
// through a single Store, which owns the SQLite handle and guards
// statement execution with a readers/writer lock.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/bandvault/bandvault/internal/logger"
)

const defaultBusyTimeout = 5 * time.Second

// Store owns the connection to the backing store.
//
// One sync.RWMutex serializes access: every writing statement takes
// the write side exclusively, reads take the read side. The lock scope
// is exactly the statement execution (including row drain for
// queries); it is never held across calls back into the cache layer.
// The pool is capped at one connection, so serializing writers
// in-process also avoids SQLITE_BUSY churn on the single file.
type Store struct {
	path string
	sql  *sql.DB
	mu   sync.RWMutex
	log  logger.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	log         logger.Logger
	busyTimeout time.Duration
}

// WithLogger sets the logger used for dropped-row and policy
// diagnostics. Defaults to logger.NopLogger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithBusyTimeout bounds how long a statement waits on a locked
// database file before failing. Defaults to 5s.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// Open opens (creating if needed) the band database at path and
// bootstraps the schema when the database is new.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("open store: context is nil")
	}

	if path == "" {
		return nil, errors.New("open store: path is empty")
	}

	o := options{log: logger.NopLogger, busyTimeout: defaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o750)
	if err != nil {
		return nil, fmt.Errorf("open store: create directory: %w", err)
	}

	db, err := openSQLite(ctx, path, o.busyTimeout)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	version, err := userVersion(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open store: %w", err)
	}

	if version != schemaVersion {
		err = createSchemaInTxn(ctx, db)
		if err != nil {
			_ = db.Close()

			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	return &Store{path: path, sql: db, log: o.log}, nil
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close releases the SQLite handle opened by Open.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}

	err := s.sql.Close()
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}

func openSQLite(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single shared connection; the RWMutex supplies the discipline.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db, busyTimeout)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

func applyPragmas(ctx context.Context, db *sql.DB, busyTimeout time.Duration) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}
