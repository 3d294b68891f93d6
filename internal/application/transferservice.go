package application

import (
	"time"

	"github.com/castlebank/ledgerstore/internal/domain/model"
)

// TransferService validates and commits transfers, coordinating the account
// records and the ledger. The check-then-append sequence runs as one
// critical section under the store-wide lock with no I/O inside it, so two
// concurrent transfers from the same account cannot both pass the balance
// check before either appends.
type TransferService struct {
	store     *Store
	ledger    *Ledger
	scheduler *FlushScheduler
	now       func() time.Time
}

// NewTransferService creates a TransferService stamping transfers with the
// system clock.
func NewTransferService(store *Store, ledger *Ledger, scheduler *FlushScheduler) *TransferService {
	return &TransferService{
		store:     store,
		ledger:    ledger,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Transfer moves amount from one party to the other and returns both
// balances after commit. Either party may be the reservoir. Insufficient
// funds is a declined result, not an error: Declined is set, FromBalance
// carries the recomputed balance, and nothing is mutated. Persistence is
// scheduled but not awaited; the logical commit is the in-memory append.
func (s *TransferService) Transfer(from, to string, amount int64, memo string) (model.TransferResult, error) {
	if from == to {
		return model.TransferResult{}, model.ErrSameAccount
	}
	if amount <= 0 {
		return model.TransferResult{}, model.ErrNonPositiveAmount
	}

	s.store.mu.Lock()

	if from != model.ReservoirID {
		bal, err := s.ledger.balanceLocked(from, true)
		if err != nil {
			s.store.mu.Unlock()
			return model.TransferResult{}, err
		}
		if bal < amount {
			s.store.mu.Unlock()
			return model.TransferResult{Declined: true, FromBalance: bal}, nil
		}
	}
	if to != model.ReservoirID && s.store.account(to) == nil {
		s.store.mu.Unlock()
		return model.TransferResult{}, model.ErrAccountNotFound
	}

	if err := s.ledger.appendLocked(model.Transfer{
		Time:   s.now(),
		From:   from,
		To:     to,
		Amount: amount,
		Memo:   memo,
	}); err != nil {
		s.store.mu.Unlock()
		return model.TransferResult{}, err
	}

	res := model.TransferResult{}
	var err error
	if res.FromBalance, err = s.ledger.balanceLocked(from, true); err != nil {
		s.store.mu.Unlock()
		return model.TransferResult{}, err
	}
	if res.ToBalance, err = s.ledger.balanceLocked(to, true); err != nil {
		s.store.mu.Unlock()
		return model.TransferResult{}, err
	}
	s.store.mu.Unlock()

	s.scheduler.Schedule()
	return res, nil
}
