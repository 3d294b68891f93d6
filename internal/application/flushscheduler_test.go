package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlebank/ledgerstore/internal/domain/model"
)

func TestFlushSchedulerCoalescesBurst(t *testing.T) {
	env := newTestEnv(t)
	// Wide window so the whole burst lands in one cycle even on a slow runner.
	env.scheduler.debounce = 200 * time.Millisecond
	a := env.mustCreate(t, "alice")

	// A burst of mutations inside one debounce window. Each schedules a
	// write; all must collapse into the same cycle.
	flights := make([]*Flight, 0, 5)
	for i := 0; i < 5; i++ {
		_, err := env.transfers.Transfer(model.ReservoirID, a, 1, "drip")
		require.NoError(t, err)
		flights = append(flights, env.scheduler.Schedule())
	}
	for _, f := range flights[1:] {
		assert.Same(t, flights[0], f, "calls within the window share one flight")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, flights[0].Wait(ctx))

	// mustCreate and the five transfers each called Schedule; still one flush.
	assert.Equal(t, 1, env.sink.saveCount())

	snap := env.sink.lastSave()
	assert.Len(t, snap.Transfers, 5, "the flushed snapshot reflects every mutation in the batch")
	require.Len(t, snap.Accounts, 1)
}

func TestFlushSchedulerNewCycleAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := env.scheduler.Schedule()
	require.NoError(t, first.Wait(ctx))

	second := env.scheduler.Schedule()
	assert.NotSame(t, first, second, "a completed cycle is not reused")
	require.NoError(t, second.Wait(ctx))
	assert.Equal(t, 2, env.sink.saveCount())
}

func TestFlushSchedulerFailureReachesEveryWaiter(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("disk full")
	env.sink.setFail(boom)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f1 := env.scheduler.Schedule()
	f2 := env.scheduler.Schedule()
	assert.ErrorIs(t, f1.Wait(ctx), boom)
	assert.ErrorIs(t, f2.Wait(ctx), boom)

	// No automatic retry: the failed cycle wrote nothing and the scheduler
	// is idle until the next mutation schedules again.
	assert.Equal(t, 0, env.sink.saveCount())
	env.sink.setFail(nil)
	require.NoError(t, env.scheduler.Schedule().Wait(ctx))
	assert.Equal(t, 1, env.sink.saveCount())
}

func TestFlushSchedulerWaitHonorsContext(t *testing.T) {
	env := newTestEnv(t)
	// Long debounce so the flight is still pending when the context dies.
	env.scheduler.debounce = time.Minute

	f := env.scheduler.Schedule()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Wait(ctx), context.Canceled)
}

// slowSink tracks how many Save calls overlap.
type slowSink struct {
	mockSink
	mu        sync.Mutex
	active    int
	maxActive int
}

func (s *slowSink) Save(snap model.Snapshot) error {
	s.mu.Lock()
	s.active++
	if s.active > s.maxActive {
		s.maxActive = s.active
	}
	s.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return s.mockSink.Save(snap)
}

func TestFlushNowNeverOverlapsAPendingCycle(t *testing.T) {
	store := NewStore()
	sink := &slowSink{}
	scheduler := NewFlushScheduler(sink, store.Snapshot, time.Millisecond)

	f := scheduler.Schedule()
	// Give the debounced cycle time to enter its write.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, scheduler.FlushNow())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.Wait(ctx))

	assert.Equal(t, 2, sink.saveCount())
	assert.Equal(t, 1, sink.maxActive, "snapshot writes must be serialized")
}

func TestFlushSchedulerFlushNow(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreate(t, "alice")

	require.NoError(t, env.scheduler.FlushNow())
	snap := env.sink.lastSave()
	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, "alice", snap.Accounts[0].Name)
}
