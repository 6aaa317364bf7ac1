// Package cache holds the in-memory collection cache: a full snapshot
// of the store's bands, re-synchronized after every mutation.
//
// Reads never block behind mutations. The current snapshot sits
// behind an atomic pointer; a reader observes either the pre-mutation
// or the post-mutation state in full, never an interleaving, because
// the pointer is swapped only after a complete reload. Mutations are
// serialized against each other by a mutex the read paths never take.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bandvault/bandvault/internal/band"
	"github.com/bandvault/bandvault/internal/logger"
	"github.com/bandvault/bandvault/internal/store"
)

// Collection presents the latest known snapshot of the store and
// writes every mutation through the gateway before refreshing.
type Collection struct {
	store *store.Store
	log   logger.Logger

	mu   sync.Mutex // serializes mutations, never taken by reads
	snap atomic.Pointer[snapshot]
}

// Option configures New.
type Option func(*Collection)

// WithLogger sets the logger for reload and clear-policy diagnostics.
// Defaults to logger.NopLogger.
func WithLogger(log logger.Logger) Option {
	return func(c *Collection) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a Collection over st and performs the initial load.
func New(ctx context.Context, st *store.Store, opts ...Option) (*Collection, error) {
	if ctx == nil {
		return nil, errors.New("new collection: context is nil")
	}

	if st == nil {
		return nil, errors.New("new collection: store is nil")
	}

	c := &Collection{store: st, log: logger.NopLogger}
	for _, opt := range opts {
		opt(c)
	}

	bands, err := st.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("new collection: %w", err)
	}

	c.snap.Store(newSnapshot(bands))

	return c, nil
}

// Load replaces the snapshot with the gateway's current contents.
// When the gateway fails, the previous snapshot stays installed and
// the failure is logged and returned (stale-read-on-failure).
func (c *Collection) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reloadLocked(ctx)
}

// reloadLocked swaps in a fresh snapshot. Callers hold c.mu.
func (c *Collection) reloadLocked(ctx context.Context) error {
	bands, err := c.store.LoadAll(ctx)
	if err != nil {
		c.log.Errorf("cache reload failed, serving stale snapshot: %v", err)

		return fmt.Errorf("reload: %w", err)
	}

	c.snap.Store(newSnapshot(bands))

	return nil
}

// Add writes b through the gateway and re-synchronizes. The reload
// runs even when the insert failed; a spurious refresh is harmless
// and keeps the snapshot honest. The returned error is the insert's.
func (c *Collection) Add(ctx context.Context, b band.Band) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	insertErr := c.store.InsertBand(ctx, b)

	reloadErr := c.reloadLocked(ctx)
	if reloadErr != nil && insertErr == nil {
		return reloadErr
	}

	return insertErr
}

// Replace updates the stored row matching (b.ID, b.Owner) through the
// gateway and re-synchronizes. A foreign owner or unknown id reports
// store.ErrNotFound and leaves the row untouched.
func (c *Collection) Replace(ctx context.Context, b band.Band) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	updateErr := c.store.UpdateBand(ctx, b)

	reloadErr := c.reloadLocked(ctx)
	if reloadErr != nil && updateErr == nil {
		return reloadErr
	}

	return updateErr
}

// Remove deletes the band matching (id, owner) through the gateway
// and re-synchronizes. A foreign owner or unknown id reports
// store.ErrNotFound and leaves the row untouched. The map and the
// sorted id sequence stay consistent by construction, since both come
// from the same reload.
func (c *Collection) Remove(ctx context.Context, id int64, owner string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleteErr := c.store.DeleteBand(ctx, id, owner)

	reloadErr := c.reloadLocked(ctx)
	if reloadErr != nil && deleteErr == nil {
		return reloadErr
	}

	return deleteErr
}

// Clear removes every band owned by username. Policy: proceed
// regardless — a failed delete is logged and returned, but the reload
// still runs so the snapshot tracks whatever state the store is in.
func (c *Collection) Clear(ctx context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted, deleteErr := c.store.DeleteAllForUser(ctx, username)
	if deleteErr != nil {
		c.log.Errorf("clear %q failed, proceeding with reload: %v", username, deleteErr)
	} else {
		c.log.Infof("cleared %d bands owned by %q", deleted, username)
	}

	reloadErr := c.reloadLocked(ctx)
	if reloadErr != nil && deleteErr == nil {
		return reloadErr
	}

	return deleteErr
}
