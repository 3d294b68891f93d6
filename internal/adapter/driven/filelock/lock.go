// Package filelock implements the InstanceLock port with an advisory file
// lock, preventing two processes from opening the same store.
package filelock

import (
	"fmt"

	"github.com/gofrs/flock"

	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.InstanceLock = (*Lock)(nil)

// Lock guards a store directory through a lock file (typically "bank.lock"
// beside the snapshot).
type Lock struct {
	fl *flock.Flock
}

// New creates a Lock on the given lock file path. The file is created on
// Acquire if absent.
func New(path string) *Lock {
	return &Lock{fl: flock.New(path)}
}

// Acquire takes the lock without blocking. Returns driven.ErrLockHeld when
// another process holds it.
func (l *Lock) Acquire() error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock %q: %w", l.fl.Path(), err)
	}
	if !ok {
		return fmt.Errorf("%q: %w", l.fl.Path(), driven.ErrLockHeld)
	}
	return nil
}

// Release frees the lock. Safe to call once after a successful Acquire.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release instance lock %q: %w", l.fl.Path(), err)
	}
	return nil
}
