package application

import (
	"fmt"

	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// Loader acquires process exclusivity and builds the initial in-memory state
// from the persisted snapshot. Every failure here is fatal for startup:
// another running instance, an unreadable file, unparseable content, or a
// snapshot whose accounts violate the uniqueness invariants.
type Loader struct {
	lock  driven.InstanceLock
	snaps driven.SnapshotStore
}

// NewLoader creates a Loader.
func NewLoader(lock driven.InstanceLock, snaps driven.SnapshotStore) *Loader {
	return &Loader{lock: lock, snaps: snaps}
}

// Load takes the instance lock and restores the snapshot into a fresh Store.
// A missing or empty snapshot yields an empty store. On any error the lock
// is released before returning, so a failed startup never strands it.
func (l *Loader) Load() (*Store, error) {
	if err := l.lock.Acquire(); err != nil {
		return nil, err
	}

	snap, err := l.snaps.Load()
	if err != nil {
		_ = l.lock.Release()
		return nil, err
	}

	store := NewStore()
	if err := store.restore(snap); err != nil {
		_ = l.lock.Release()
		return nil, err
	}
	return store, nil
}

// Close releases the instance lock. Call after the final flush on clean
// shutdown.
func (l *Loader) Close() error {
	if err := l.lock.Release(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
