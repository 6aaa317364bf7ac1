package cache

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bandvault/bandvault/internal/band"
)

// snapshot is the full in-memory materialization of the store's
// contents at a point in time. It is immutable after construction:
// mutations build a fresh snapshot and swap the pointer, they never
// edit an installed one.
type snapshot struct {
	bands     map[int64]band.Band
	ids       []int64 // sorted ascending, same membership as bands
	createdAt time.Time
	label     uuid.UUID
}

func newSnapshot(bands map[int64]band.Band) *snapshot {
	if bands == nil {
		bands = make(map[int64]band.Band)
	}

	ids := make([]int64, 0, len(bands))
	for id := range bands {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return &snapshot{
		bands:     bands,
		ids:       ids,
		createdAt: time.Now().UTC(),
		label:     uuid.New(),
	}
}
