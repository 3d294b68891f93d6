package application

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/castlebank/ledgerstore/internal/domain/model"
)

// --- Mock implementations shared across application tests ---

// mockHasher is a transparent stand-in for the bcrypt adapter so tests stay
// out of key-stretching territory.
type mockHasher struct{}

func (mockHasher) Hash(secret string) (string, error) {
	return "hashed:" + secret, nil
}

func (mockHasher) Verify(digest, secret string) (bool, error) {
	return digest == "hashed:"+secret, nil
}

// mockIDGen issues queued ids first, then a deterministic sequence. Queued
// ids let tests force collisions.
type mockIDGen struct {
	queue []string
	next  int
}

func (g *mockIDGen) NewID() string {
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

// mockSink records saved snapshots and optionally fails.
type mockSink struct {
	mu    sync.Mutex
	saves []model.Snapshot
	fail  error
}

func (s *mockSink) Load() (model.Snapshot, error) {
	return model.Snapshot{}, nil
}

func (s *mockSink) Save(snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saves = append(s.saves, snap)
	return nil
}

func (s *mockSink) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func (s *mockSink) lastSave() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return model.Snapshot{}
	}
	return s.saves[len(s.saves)-1]
}

func (s *mockSink) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// mockLock is an in-process InstanceLock.
type mockLock struct {
	held     bool
	acquires int
	releases int
}

func (l *mockLock) Acquire() error {
	l.acquires++
	if l.held {
		return errors.New("already held")
	}
	l.held = true
	return nil
}

func (l *mockLock) Release() error {
	l.releases++
	l.held = false
	return nil
}

// --- Helper functions ---

// testEnv wires a full in-memory service stack with a short debounce window.
type testEnv struct {
	store     *Store
	accounts  *AccountService
	ledger    *Ledger
	transfers *TransferService
	scheduler *FlushScheduler
	sink      *mockSink
	ids       *mockIDGen
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := NewStore()
	sink := &mockSink{}
	ids := &mockIDGen{}
	scheduler := NewFlushScheduler(sink, store.Snapshot, 10*time.Millisecond)
	ledger := NewLedger(store)
	return &testEnv{
		store:     store,
		accounts:  NewAccountService(store, mockHasher{}, ids, scheduler, 0),
		ledger:    ledger,
		transfers: NewTransferService(store, ledger, scheduler),
		scheduler: scheduler,
		sink:      sink,
		ids:       ids,
	}
}

// mustCreate creates an account with a valid credential and fails the test
// on error.
func (e *testEnv) mustCreate(t *testing.T, name string) string {
	t.Helper()
	id, err := e.accounts.Create(name, "long-enough-secret")
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return id
}
