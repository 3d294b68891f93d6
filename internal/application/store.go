// Package application contains the ledger store's core services: account
// management, the append-only transfer log, transfer processing, and
// write-coalescing persistence.
package application

import (
	"fmt"
	"sync"

	"github.com/castlebank/ledgerstore/internal/domain/model"
)

// Store owns the in-memory ledger state: the account list (creation order)
// and the append-only transfer log. One store-wide mutex serializes every
// mutation; transfers touch two accounts, so the lock is deliberately not
// per-account. Services in this package share the live records through
// unexported accessors; everything crossing the package boundary is a copy.
type Store struct {
	mu        sync.Mutex
	accounts  []*model.Account
	byID      map[string]*model.Account
	byName    map[string]*model.Account
	transfers []model.Transfer
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*model.Account),
		byName: make(map[string]*model.Account),
	}
}

// restore replaces the store's state with the snapshot. Duplicate account
// ids or names, or an account claiming the reservoir id, return an
// IntegrityError: the snapshot does not describe a valid ledger and the
// caller must not proceed with it.
func (s *Store) restore(snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*model.Account, 0, len(snap.Accounts))
	byID := make(map[string]*model.Account, len(snap.Accounts))
	byName := make(map[string]*model.Account, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if a.ID == model.ReservoirID {
			return &model.IntegrityError{Detail: fmt.Sprintf("account %q uses the reserved reservoir id", a.Name)}
		}
		if _, ok := byID[a.ID]; ok {
			return &model.IntegrityError{Detail: fmt.Sprintf("duplicate account id %q", a.ID)}
		}
		if _, ok := byName[a.Name]; ok {
			return &model.IntegrityError{Detail: fmt.Sprintf("duplicate account name %q", a.Name)}
		}
		rec := a.Clone()
		accounts = append(accounts, rec)
		byID[rec.ID] = rec
		byName[rec.Name] = rec
	}

	s.accounts = accounts
	s.byID = byID
	s.byName = byName
	s.transfers = append([]model.Transfer(nil), snap.Transfers...)
	return nil
}

// Snapshot returns a deep copy of the full state for serialization. The copy
// is taken under the store lock, so it is a consistent point-in-time view.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot{
		Accounts:  make([]model.Account, 0, len(s.accounts)),
		Transfers: append([]model.Transfer(nil), s.transfers...),
	}
	for _, a := range s.accounts {
		snap.Accounts = append(snap.Accounts, *a)
	}
	return snap
}

// account returns the live record for id, or nil. Caller must hold s.mu;
// the record must never escape this package.
func (s *Store) account(id string) *model.Account {
	return s.byID[id]
}

// accountByName returns the live record for name, or nil. Caller must hold s.mu.
func (s *Store) accountByName(name string) *model.Account {
	return s.byName[name]
}

// insertAccount adds a new live record. Caller must hold s.mu and have
// checked id and name uniqueness.
func (s *Store) insertAccount(rec *model.Account) {
	s.accounts = append(s.accounts, rec)
	s.byID[rec.ID] = rec
	s.byName[rec.Name] = rec
}
