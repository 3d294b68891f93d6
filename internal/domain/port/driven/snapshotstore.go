package driven

import (
	"errors"

	"github.com/castlebank/ledgerstore/internal/domain/model"
)

var (
	// ErrSnapshotRead indicates the snapshot file exists but could not be read.
	// Fatal at startup.
	ErrSnapshotRead = errors.New("snapshot unreadable")

	// ErrSnapshotCorrupt indicates the snapshot file was read but does not
	// parse or validate as a snapshot object. Fatal at startup.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// SnapshotStore defines the driven port for durable snapshot persistence.
//
// Load returns an empty snapshot (no error) when no snapshot has ever been
// written; a missing or empty file is a fresh store, not a failure. Read
// failures wrap ErrSnapshotRead and malformed content wraps ErrSnapshotCorrupt.
// Save replaces the previous snapshot atomically.
type SnapshotStore interface {
	Load() (model.Snapshot, error)
	Save(snap model.Snapshot) error
}
