package cache_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bandvault/bandvault/internal/band"
	"github.com/bandvault/bandvault/internal/cache"
	"github.com/bandvault/bandvault/internal/store"
)

// newCollection opens a fresh store and a collection over it.
func newCollection(t *testing.T) (*store.Store, *cache.Collection) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bands.db")

	s, err := store.Open(t.Context(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	c, err := cache.New(t.Context(), s)
	if err != nil {
		t.Fatalf("new collection: %v", err)
	}

	return s, c
}

// testBand returns a valid band owned by owner, without the
// store-assigned fields.
func testBand(owner, name string) band.Band {
	return band.Band{
		Name:         name,
		Coordinates:  band.Coordinates{X: 10, Y: 20},
		Genre:        band.GenreBlues,
		Participants: 3,
		Singles:      1,
		Owner:        owner,
		BestAlbum:    band.Album{Name: "Live", Sales: 900},
	}
}

// mustAdd adds a band through the collection or fails the test.
func mustAdd(ctx context.Context, t *testing.T, c *cache.Collection, b band.Band) {
	t.Helper()

	err := c.Add(ctx, b)
	if err != nil {
		t.Fatalf("add band %q: %v", b.Name, err)
	}
}

// findByName returns the snapshot band with the given name.
func findByName(t *testing.T, c *cache.Collection, name string) band.Band {
	t.Helper()

	for b := range c.All() {
		if b.Name == name {
			return b
		}
	}

	t.Fatalf("band %q not in snapshot of size %d", name, c.Size())

	return band.Band{}
}

// plantRow inserts a row directly into the database file, bypassing
// both cache and gateway.
func plantRow(t *testing.T, s *store.Store, name, owner string, participants int64) {
	t.Helper()

	db, err := sql.Open("sqlite3", s.Path())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}

	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(t.Context(), `
		INSERT INTO bands (
			name, coordinate_x, coordinate_y, genre,
			number_of_participants, singles_count, owner,
			best_album_name, best_album_sales
		) VALUES (?, 0, 0, 'rock', ?, 0, ?, 'None', 0)`,
		name, participants, owner)
	if err != nil {
		t.Fatalf("plant row: %v", err)
	}
}
