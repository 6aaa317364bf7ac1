// Package band defines the value types stored and served by bandvault.
package band

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// Genre is the musical genre of a band. Only the values listed in
// Genres are accepted by validation and by the store.
type Genre string

// Known genres.
const (
	GenreRock     Genre = "rock"
	GenreHipHop   Genre = "hip_hop"
	GenreJazz     Genre = "jazz"
	GenreBlues    Genre = "blues"
	GenreMathRock Genre = "math_rock"
	GenrePostRock Genre = "post_rock"
)

// Genres lists every accepted genre value.
var Genres = []Genre{
	GenreRock,
	GenreHipHop,
	GenreJazz,
	GenreBlues,
	GenreMathRock,
	GenrePostRock,
}

// IsValidGenre reports whether g is one of the known genres.
func IsValidGenre(g Genre) bool {
	return slices.Contains(Genres, g)
}

// Coordinates is a point on the band map.
type Coordinates struct {
	X float64 // X must be finite.
	Y float64 // Y must be finite.
}

// Album is a band's best-selling album.
type Album struct {
	Name  string  // Name of the album.
	Sales float64 // Sales must be non-negative.
}

// Band is the primary record managed by the system.
//
// ID and CreatedAt are assigned by the store on insert and are
// immutable afterwards. Owner ties the record to exactly one user;
// updates and bulk deletes are scoped to the matching owner.
type Band struct {
	ID           int64       // ID is the store-assigned unique identifier.
	Name         string      // Name is non-empty.
	Coordinates  Coordinates // Coordinates of the band.
	Genre        Genre       // Genre is one of Genres.
	Participants int64       // Participants is the member count, positive.
	Singles      int64       // Singles is the released singles count, non-negative.
	CreatedAt    time.Time   // CreatedAt is set by the store at insert, UTC.
	Owner        string      // Owner is the username of the owning user.
	BestAlbum    Album       // BestAlbum is the band's best album.
}

// Validation errors.
var (
	ErrNoID            = errors.New("id missing or not positive")
	ErrNoName          = errors.New("name is empty")
	ErrNoOwner         = errors.New("owner is empty")
	ErrBadGenre        = errors.New("unknown genre")
	ErrBadParticipants = errors.New("participants must be positive")
	ErrBadSingles      = errors.New("singles must be non-negative")
	ErrBadCoordinates  = errors.New("coordinates must be finite")
	ErrNegativeSales   = errors.New("album sales must be non-negative")
)

// Validate is the validity predicate gating admission into the
// in-memory snapshot. Rows failing it stay in the store but are
// dropped when the cache loads.
func (b Band) Validate() error {
	if b.ID <= 0 {
		return ErrNoID
	}

	return b.ValidateFields()
}

// ValidateFields checks every field except the store-assigned id.
// The gateway runs it before inserting, when no id exists yet.
func (b Band) ValidateFields() error {
	if b.Name == "" {
		return ErrNoName
	}

	if b.Owner == "" {
		return ErrNoOwner
	}

	if !IsValidGenre(b.Genre) {
		return fmt.Errorf("%w: %q", ErrBadGenre, b.Genre)
	}

	if b.Participants <= 0 {
		return ErrBadParticipants
	}

	if b.Singles < 0 {
		return ErrBadSingles
	}

	if !isFinite(b.Coordinates.X) || !isFinite(b.Coordinates.Y) {
		return ErrBadCoordinates
	}

	if b.BestAlbum.Sales < 0 {
		return ErrNegativeSales
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// User identifies an account. Only the password hash is ever stored;
// the plaintext exists transiently inside register and authenticate.
type User struct {
	Username     string // Username is unique across the store.
	PasswordHash string // PasswordHash is a lowercase hex digest.
}

// User validation errors.
var (
	ErrNoUsername = errors.New("username is empty")
	ErrNoHash     = errors.New("password hash is empty")
)

// Validate checks the user row is storable.
func (u User) Validate() error {
	if u.Username == "" {
		return ErrNoUsername
	}

	if u.PasswordHash == "" {
		return ErrNoHash
	}

	return nil
}
