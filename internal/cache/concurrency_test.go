package cache_test

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

// Contract: a reader always observes a complete snapshot. The id
// sequence it iterates is sorted, duplicate-free, and every band it
// yields passes validation — never a torn intermediate state.
func Test_Readers_See_Consistent_Snapshots_During_Writes(t *testing.T) {
	t.Parallel()

	_, c := newCollection(t)

	const (
		readers = 4
		inserts = 25
	)

	var wg sync.WaitGroup

	stop := make(chan struct{})

	for range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-stop:
					return
				default:
				}

				info := c.Describe()

				var ids []int64
				for b := range c.All() {
					if err := b.Validate(); err != nil {
						t.Errorf("invalid band in snapshot: %v", err)

						return
					}

					ids = append(ids, b.ID)
				}

				if !slices.IsSorted(ids) {
					t.Errorf("snapshot ids not sorted: %v", ids)

					return
				}

				if len(slices.Compact(slices.Clone(ids))) != len(ids) {
					t.Errorf("snapshot ids contain duplicates: %v", ids)

					return
				}

				// Both views of one snapshot value agree on membership.
				if len(ids) != info.Size && info.Label == c.Describe().Label {
					t.Errorf("iterated %d ids, describe says %d", len(ids), info.Size)

					return
				}
			}
		}()
	}

	for i := range inserts {
		mustAdd(t.Context(), t, c, testBand("alice", fmt.Sprintf("band-%d", i)))
	}

	close(stop)
	wg.Wait()

	if c.Size() != inserts {
		t.Fatalf("final size = %d, want %d", c.Size(), inserts)
	}
}

// Contract: mutations are serialized against each other; concurrent
// adds and removes leave the snapshot equal to the store's state.
func Test_Concurrent_Mutations_Converge(t *testing.T) {
	t.Parallel()

	s, c := newCollection(t)

	const perWorker = 10

	var wg sync.WaitGroup

	for w := range 3 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range perWorker {
				err := c.Add(t.Context(), testBand("alice", fmt.Sprintf("w%d-%d", w, i)))
				if err != nil {
					t.Errorf("add: %v", err)
				}
			}
		}()
	}

	wg.Wait()

	// One authoritative reload, then snapshot and store must agree.
	err := c.Load(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	bands, err := s.LoadAll(t.Context())
	if err != nil {
		t.Fatalf("load all: %v", err)
	}

	if c.Size() != len(bands) {
		t.Fatalf("snapshot size = %d, store rows = %d", c.Size(), len(bands))
	}

	if c.Size() != 3*perWorker {
		t.Fatalf("size = %d, want %d", c.Size(), 3*perWorker)
	}
}
