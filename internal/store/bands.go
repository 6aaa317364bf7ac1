package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bandvault/bandvault/internal/band"
)

// InsertBand inserts every mutable column of b. The id and creation
// date come from store defaults. Every value is bound as a statement
// parameter; nothing is interpolated into query text.
func (s *Store) InsertBand(ctx context.Context, b band.Band) error {
	if ctx == nil {
		return errors.New("insert band: context is nil")
	}

	if s == nil || s.sql == nil {
		return errors.New("insert band: store is not open")
	}

	err := b.ValidateFields()
	if err != nil {
		return fmt.Errorf("insert band: %w: %w", ErrInvalid, err)
	}

	s.mu.Lock()
	res, err := s.sql.ExecContext(ctx, `
		INSERT INTO bands (
			name,
			coordinate_x,
			coordinate_y,
			genre,
			number_of_participants,
			singles_count,
			owner,
			best_album_name,
			best_album_sales
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Name,
		b.Coordinates.X,
		b.Coordinates.Y,
		string(b.Genre),
		b.Participants,
		b.Singles,
		b.Owner,
		b.BestAlbum.Name,
		b.BestAlbum.Sales,
	)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("insert band: %w: %w", ErrUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert band: rows affected: %w", err)
	}

	if affected != 1 {
		return fmt.Errorf("insert band: %w: affected %d rows", ErrUnavailable, affected)
	}

	return nil
}

// UpdateBand updates every mutable column of the row matching
// (b.ID, b.Owner). A foreign owner or an unknown id matches no row
// and returns ErrNotFound; the store row is left untouched.
func (s *Store) UpdateBand(ctx context.Context, b band.Band) error {
	if ctx == nil {
		return errors.New("update band: context is nil")
	}

	if s == nil || s.sql == nil {
		return errors.New("update band: store is not open")
	}

	if b.ID <= 0 {
		return fmt.Errorf("update band: %w: %w", ErrInvalid, band.ErrNoID)
	}

	err := b.ValidateFields()
	if err != nil {
		return fmt.Errorf("update band: %w: %w", ErrInvalid, err)
	}

	s.mu.Lock()
	res, err := s.sql.ExecContext(ctx, `
		UPDATE bands SET
			name = ?,
			coordinate_x = ?,
			coordinate_y = ?,
			genre = ?,
			number_of_participants = ?,
			singles_count = ?,
			best_album_name = ?,
			best_album_sales = ?
		WHERE id = ? AND owner = ?`,
		b.Name,
		b.Coordinates.X,
		b.Coordinates.Y,
		string(b.Genre),
		b.Participants,
		b.Singles,
		b.BestAlbum.Name,
		b.BestAlbum.Sales,
		b.ID,
		b.Owner,
	)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("update band: %w: %w", ErrUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update band: rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update band %d: %w", b.ID, ErrNotFound)
	}

	return nil
}

// DeleteBand removes the row matching (id, owner). Like UpdateBand, a
// foreign owner or an unknown id matches no row and returns
// ErrNotFound; the store row is left untouched.
func (s *Store) DeleteBand(ctx context.Context, id int64, owner string) error {
	if ctx == nil {
		return errors.New("delete band: context is nil")
	}

	if s == nil || s.sql == nil {
		return errors.New("delete band: store is not open")
	}

	if owner == "" {
		return fmt.Errorf("delete band: %w: owner is empty", ErrInvalid)
	}

	s.mu.Lock()
	res, err := s.sql.ExecContext(ctx,
		"DELETE FROM bands WHERE id = ? AND owner = ?", id, owner)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("delete band: %w: %w", ErrUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete band: rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete band %d: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteAllForUser removes every row owned by username and reports
// how many were removed. Deleting for a user with no rows is not an
// error; it removes zero rows.
func (s *Store) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	if ctx == nil {
		return 0, errors.New("delete all: context is nil")
	}

	if s == nil || s.sql == nil {
		return 0, errors.New("delete all: store is not open")
	}

	if username == "" {
		return 0, fmt.Errorf("delete all: %w: username is empty", ErrInvalid)
	}

	s.mu.Lock()
	res, err := s.sql.ExecContext(ctx, "DELETE FROM bands WHERE owner = ?", username)
	s.mu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("delete all for %q: %w: %w", username, ErrUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all: rows affected: %w", err)
	}

	return affected, nil
}

// LoadAll selects every band row and returns the ones passing the
// validity predicate, keyed by id. Invalid rows are dropped from the
// result (never from the store) and logged. An unreachable store
// returns (nil, err); an empty store returns an empty, non-nil map.
func (s *Store) LoadAll(ctx context.Context) (map[int64]band.Band, error) {
	if ctx == nil {
		return nil, errors.New("load all: context is nil")
	}

	if s == nil || s.sql == nil {
		return nil, errors.New("load all: store is not open")
	}

	// The read lock covers the statement and the row drain; rows hold
	// the single connection until closed.
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.sql.QueryContext(ctx, `
		SELECT id, name, coordinate_x, coordinate_y, genre,
			number_of_participants, singles_count, creation_date,
			owner, best_album_name, best_album_sales
		FROM bands`)
	if err != nil {
		return nil, fmt.Errorf("load all: %w: %w", ErrUnavailable, err)
	}

	defer func() { _ = rows.Close() }()

	bands := make(map[int64]band.Band)

	for rows.Next() {
		var (
			b         band.Band
			genre     string
			createdAt int64
		)

		scanErr := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Coordinates.X,
			&b.Coordinates.Y,
			&genre,
			&b.Participants,
			&b.Singles,
			&createdAt,
			&b.Owner,
			&b.BestAlbum.Name,
			&b.BestAlbum.Sales,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("load all: scan: %w", scanErr)
		}

		b.Genre = band.Genre(genre)
		b.CreatedAt = time.Unix(createdAt, 0).UTC()

		validErr := b.Validate()
		if validErr != nil {
			s.log.Warnf("load all: dropping band %d: %v", b.ID, validErr)

			continue
		}

		bands[b.ID] = b
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("load all: rows: %w", err)
	}

	return bands, nil
}
