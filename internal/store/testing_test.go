package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bandvault/bandvault/internal/band"
	"github.com/bandvault/bandvault/internal/store"
)

// openStore opens a fresh store in a temp directory and closes it
// when the test finishes.
func openStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bands.db")

	s, err := store.Open(t.Context(), path, opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

// testBand returns a valid band owned by owner, without the
// store-assigned fields.
func testBand(owner, name string) band.Band {
	return band.Band{
		Name:         name,
		Coordinates:  band.Coordinates{X: 1.5, Y: -2.25},
		Genre:        band.GenreRock,
		Participants: 4,
		Singles:      2,
		Owner:        owner,
		BestAlbum:    band.Album{Name: "First Pressing", Sales: 5000},
	}
}

// mustRegister registers a user or fails the test.
func mustRegister(ctx context.Context, t *testing.T, s *store.Store, username, password string) {
	t.Helper()

	err := s.Register(ctx, username, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
}

// mustInsert inserts a band or fails the test.
func mustInsert(ctx context.Context, t *testing.T, s *store.Store, b band.Band) {
	t.Helper()

	err := s.InsertBand(ctx, b)
	if err != nil {
		t.Fatalf("insert band %q: %v", b.Name, err)
	}
}

// loadOne loads all bands and returns the single one named name.
func loadOne(ctx context.Context, t *testing.T, s *store.Store, name string) band.Band {
	t.Helper()

	bands, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}

	for _, b := range bands {
		if b.Name == name {
			return b
		}
	}

	t.Fatalf("band %q not found in %d loaded bands", name, len(bands))

	return band.Band{}
}

// rawExec runs a statement directly against the database file,
// bypassing the gateway, for fixtures the public API refuses to
// create (e.g. rows violating the validity predicate).
func rawExec(t *testing.T, s *store.Store, stmt string, args ...any) {
	t.Helper()

	db, err := sql.Open("sqlite3", s.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}

	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(t.Context(), stmt, args...)
	if err != nil {
		t.Fatalf("raw exec: %v", err)
	}
}

// rawQueryInt runs a scalar query directly against the database file.
func rawQueryInt(t *testing.T, s *store.Store, query string, args ...any) int64 {
	t.Helper()

	db, err := sql.Open("sqlite3", s.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}

	defer func() { _ = db.Close() }()

	var got int64

	err = db.QueryRowContext(t.Context(), query, args...).Scan(&got)
	if err != nil {
		t.Fatalf("raw query: %v", err)
	}

	return got
}
