package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/bandvault/bandvault/internal/band"
)

// Register inserts a new (username, password hash) row. Only the hash
// is persisted; the plaintext never leaves this call. A duplicate
// username surfaces as ErrConflict via the primary key constraint.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if ctx == nil {
		return errors.New("register: context is nil")
	}

	if s == nil || s.sql == nil {
		return errors.New("register: store is not open")
	}

	if password == "" {
		return fmt.Errorf("register: %w: password is empty", ErrInvalid)
	}

	u := band.User{Username: username, PasswordHash: hashPassword(password)}

	validErr := u.Validate()
	if validErr != nil {
		return fmt.Errorf("register: %w: %w", ErrInvalid, validErr)
	}

	s.mu.Lock()
	_, err := s.sql.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		u.Username, u.PasswordHash,
	)
	s.mu.Unlock()

	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("register %q: %w", username, ErrConflict)
		}

		return fmt.Errorf("register: %w: %w", ErrUnavailable, err)
	}

	return nil
}

// Authenticate reports whether the stored hash for username equals
// the digest of password. An unknown username is (false, nil), not an
// error; only a failed store call returns one.
func (s *Store) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if ctx == nil {
		return false, errors.New("authenticate: context is nil")
	}

	if s == nil || s.sql == nil {
		return false, errors.New("authenticate: store is not open")
	}

	s.mu.RLock()
	row := s.sql.QueryRowContext(ctx,
		"SELECT password_hash FROM users WHERE username = ?", username)

	var stored string

	err := row.Scan(&stored)
	s.mu.RUnlock()

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("authenticate: %w: %w", ErrUnavailable, err)
	}

	// Legacy rows may carry padding from fixed-width columns.
	return strings.TrimSpace(stored) == hashPassword(password), nil
}

// hashPassword returns the lowercase hex SHA-256 digest of password.
func hashPassword(password string) string {
	digest := sha256.Sum256([]byte(password))

	return hex.EncodeToString(digest[:])
}
