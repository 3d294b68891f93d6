package application

import (
	"context"
	"sync"
	"time"

	"github.com/castlebank/ledgerstore/internal/domain/model"
	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// DefaultDebounce is the window during which further mutations batch into an
// already-scheduled flush.
const DefaultDebounce = time.Second

// Flight is one pending flush cycle. Every Schedule call inside the same
// debounce window receives the same Flight.
type Flight struct {
	done chan struct{}
	err  error
}

// Wait blocks until the flush completes or ctx is done. It returns the
// flush's I/O error, if any.
func (f *Flight) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FlushScheduler coalesces bursts of mutations into single durable writes.
// There is exactly one pending-write slot: scheduling while a cycle is
// pending joins that cycle instead of starting another, so at most one flush
// is in flight at a time. A failed flush is reported to that cycle's waiters
// and not retried; the in-memory state stays authoritative and the next
// mutation schedules a fresh attempt.
type FlushScheduler struct {
	sink     driven.SnapshotStore
	snapshot func() model.Snapshot
	debounce time.Duration

	mu      sync.Mutex
	pending *Flight

	// saveMu serializes snapshot writes: at most one is in flight, even when
	// FlushNow races a debounced cycle.
	saveMu sync.Mutex
}

// NewFlushScheduler creates a scheduler flushing snapshots from the given
// source into sink. debounce <= 0 selects DefaultDebounce.
func NewFlushScheduler(sink driven.SnapshotStore, snapshot func() model.Snapshot, debounce time.Duration) *FlushScheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FlushScheduler{
		sink:     sink,
		snapshot: snapshot,
		debounce: debounce,
	}
}

// Schedule requests a durable write of the current state and returns the
// cycle's Flight. Callers that do not care about durability may discard it.
// Any mutation committed before the flush captures its snapshot is included
// in that flush; a mutation committed after the capture begins belongs to
// the next cycle.
func (s *FlushScheduler) Schedule() *Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return s.pending
	}
	f := &Flight{done: make(chan struct{})}
	s.pending = f
	go s.run(f)
	return f
}

func (s *FlushScheduler) run(f *Flight) {
	time.Sleep(s.debounce)

	// Clear the pending slot before capturing the snapshot: from this point
	// a new mutation cannot assume it is covered by this flush, so it must
	// be able to open the next cycle.
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	f.err = s.save()
	close(f.done)
}

// save captures a snapshot and writes it, holding saveMu for the duration so
// writes never overlap.
func (s *FlushScheduler) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.sink.Save(s.snapshot())
}

// FlushNow writes the current state synchronously, bypassing the debounce
// window. Used at shutdown so the final snapshot is durable before the
// instance lock is released.
func (s *FlushScheduler) FlushNow() error {
	return s.save()
}
