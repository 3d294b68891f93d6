package driven

import "errors"

// ErrLockHeld indicates another process already holds the store's exclusive
// instance lock. Fatal at startup.
var ErrLockHeld = errors.New("store is locked by another instance")

// InstanceLock defines the driven port for process exclusivity over the
// store's files. Acquire returns ErrLockHeld when the lock is taken; Release
// must be called on clean shutdown.
type InstanceLock interface {
	Acquire() error
	Release() error
}
