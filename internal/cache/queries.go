package cache

import (
	"cmp"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/bandvault/bandvault/internal/band"
)

// Read paths. Each loads the current snapshot once and works on that
// value alone, so results are self-consistent even while a mutation
// swaps in a replacement.

// Size returns the number of bands in the current snapshot.
func (c *Collection) Size() int {
	return len(c.snap.Load().ids)
}

// ByPosition returns the band at the 1-indexed position k in the
// sorted id order. It reports false for k outside [1, Size],
// including every k on an empty snapshot.
func (c *Collection) ByPosition(k int) (band.Band, bool) {
	snap := c.snap.Load()

	if k < 1 || k > len(snap.ids) {
		return band.Band{}, false
	}

	return snap.bands[snap.ids[k-1]], true
}

// ByID returns the band with the given id, or false when no such band
// is in the snapshot.
func (c *Collection) ByID(id int64) (band.Band, bool) {
	snap := c.snap.Load()

	b, ok := snap.bands[id]

	return b, ok
}

// DefaultOrder compares bands by id ascending. It is the comparator
// MinBy callers use when they have no better total order.
func DefaultOrder(a, b band.Band) int {
	return cmp.Compare(a.ID, b.ID)
}

// MinBy returns the band minimizing the caller-supplied total order,
// or false when the snapshot is empty. Ties resolve to the earliest
// band in sorted id order, so the result is deterministic.
func (c *Collection) MinBy(order func(a, b band.Band) int) (band.Band, bool) {
	snap := c.snap.Load()

	if len(snap.ids) == 0 {
		return band.Band{}, false
	}

	best := snap.bands[snap.ids[0]]
	for _, id := range snap.ids[1:] {
		candidate := snap.bands[id]
		if order(candidate, best) < 0 {
			best = candidate
		}
	}

	return best, true
}

// Participants returns the participant count of the band with the
// given id, or false when no such band is in the snapshot.
func (c *Collection) Participants(id int64) (int64, bool) {
	snap := c.snap.Load()

	b, ok := snap.bands[id]
	if !ok {
		return 0, false
	}

	return b.Participants, true
}

// All returns a lazy, restartable sequence over the snapshot current
// at call time, in sorted id order. Mutations after the call do not
// affect an obtained sequence; it is a point-in-time view.
func (c *Collection) All() iter.Seq[band.Band] {
	snap := c.snap.Load()

	return func(yield func(band.Band) bool) {
		for _, id := range snap.ids {
			if !yield(snap.bands[id]) {
				return
			}
		}
	}
}

// Info describes the current snapshot. Diagnostic only.
type Info struct {
	Size      int       // Size is the number of bands held.
	CreatedAt time.Time // CreatedAt is when the snapshot was built.
	Label     uuid.UUID // Label identifies this snapshot instance.
}

// Describe returns size, creation time, and identity label of the
// current snapshot.
func (c *Collection) Describe() Info {
	snap := c.snap.Load()

	return Info{
		Size:      len(snap.ids),
		CreatedAt: snap.createdAt,
		Label:     snap.label,
	}
}
