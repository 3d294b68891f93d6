package application

import (
	"strings"

	"github.com/castlebank/ledgerstore/internal/domain/model"
	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// DefaultMinCredentialLen is the minimum accepted credential length.
const DefaultMinCredentialLen = 10

// AccountService owns account creation, lookup, and credential verification.
// Hashing runs outside the store's critical section: bcrypt is a suspension
// point and must never sit between a uniqueness check and an insert.
type AccountService struct {
	store     *Store
	hasher    driven.PasswordHasher
	ids       driven.IDGenerator
	scheduler *FlushScheduler
	minCred   int
}

// NewAccountService creates an AccountService. minCredentialLen <= 0 selects
// DefaultMinCredentialLen.
func NewAccountService(store *Store, hasher driven.PasswordHasher, ids driven.IDGenerator, scheduler *FlushScheduler, minCredentialLen int) *AccountService {
	if minCredentialLen <= 0 {
		minCredentialLen = DefaultMinCredentialLen
	}
	return &AccountService{
		store:     store,
		hasher:    hasher,
		ids:       ids,
		scheduler: scheduler,
		minCred:   minCredentialLen,
	}
}

// Create registers a new account with balance 0 and returns its id.
// Validation failures wrap model.ErrValidation; a taken name wraps
// model.ErrConflict. Name uniqueness is checked under the store lock at
// insert time, after the credential digest has been computed.
func (s *AccountService) Create(name, credential string) (string, error) {
	if name == "" {
		return "", model.ErrBlankName
	}
	if strings.TrimSpace(name) != name {
		return "", model.ErrPaddedName
	}
	if len(credential) < s.minCred {
		return "", model.ErrShortCredential
	}

	digest, err := s.hasher.Hash(credential)
	if err != nil {
		return "", err
	}

	s.store.mu.Lock()
	if s.store.accountByName(name) != nil {
		s.store.mu.Unlock()
		return "", model.ErrNameTaken
	}

	// Fresh id, retrying on the vanishingly unlikely collision with an
	// existing account.
	id := s.ids.NewID()
	for s.store.account(id) != nil || id == model.ReservoirID {
		id = s.ids.NewID()
	}

	s.store.insertAccount(&model.Account{
		ID:           id,
		Name:         name,
		PasswordHash: digest,
		Balance:      0,
	})
	s.store.mu.Unlock()

	s.scheduler.Schedule()
	return id, nil
}

// Verify checks name and credential. Precondition violations come back as a
// VerifyResult listing every failure rather than as errors; the error return
// is reserved for hasher failures and for the fatal case of more than one
// account carrying the same name, which means the uniqueness invariant has
// been broken and the store must not keep operating.
func (s *AccountService) Verify(name, credential string) (*model.Account, model.VerifyResult, error) {
	var res model.VerifyResult
	if strings.TrimSpace(name) == "" {
		res.Failures = append(res.Failures, model.VerifyBlankName)
	}
	if credential == "" {
		res.Failures = append(res.Failures, model.VerifyBlankPassword)
	}
	if !res.OK() {
		return nil, res, nil
	}

	s.store.mu.Lock()
	var match *model.Account
	matches := 0
	for _, a := range s.store.accounts {
		if a.Name == name {
			match = a
			matches++
		}
	}
	if matches > 1 {
		s.store.mu.Unlock()
		return nil, res, &model.IntegrityError{Detail: "multiple accounts named " + name}
	}
	if matches == 0 {
		s.store.mu.Unlock()
		res.Failures = append(res.Failures, model.VerifyNoSuchAccount)
		return nil, res, nil
	}
	acct := match.Clone()
	s.store.mu.Unlock()

	// Digest comparison outside the lock; it is slow by construction.
	ok, err := s.hasher.Verify(acct.PasswordHash, credential)
	if err != nil {
		return nil, res, err
	}
	if !ok {
		res.Failures = append(res.Failures, model.VerifyWrongPassword)
		return nil, res, nil
	}
	return acct, res, nil
}

// GetByID returns a copy of the account, or nil when absent.
func (s *AccountService) GetByID(id string) *model.Account {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.account(id).Clone()
}

// GetByName returns a copy of the account, or nil when absent. Matching is
// exact and case-sensitive.
func (s *AccountService) GetByName(name string) *model.Account {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return s.store.accountByName(name).Clone()
}

// ListAll returns copies of every account in creation order.
func (s *AccountService) ListAll() []*model.Account {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]*model.Account, 0, len(s.store.accounts))
	for _, a := range s.store.accounts {
		out = append(out, a.Clone())
	}
	return out
}
