package application

import "github.com/castlebank/ledgerstore/internal/domain/model"

// Ledger owns the append-only transfer log and balance derivation. Entries
// are never edited or deleted; an account's true balance is always the fold
// of the full log, and the cached balance on the account record is only an
// optimization of that fold.
type Ledger struct {
	store *Store
}

// NewLedger creates a Ledger over the store.
func NewLedger(store *Store) *Ledger {
	return &Ledger{store: store}
}

// Append validates and appends one transfer to the log. It does not touch
// cached balances; callers recompute explicitly.
func (l *Ledger) Append(t model.Transfer) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.appendLocked(t)
}

// appendLocked is Append for callers already inside the store's critical
// section (the transfer processor). Caller must hold store.mu.
func (l *Ledger) appendLocked(t model.Transfer) error {
	if t.From == t.To {
		return model.ErrSameAccount
	}
	if t.Amount <= 0 {
		return model.ErrNonPositiveAmount
	}
	if t.To != model.ReservoirID && l.store.account(t.To) == nil {
		return model.ErrAccountNotFound
	}
	l.store.transfers = append(l.store.transfers, t)
	return nil
}

// BalanceOf returns the balance for id. The reservoir reports the fixed
// constant. With recompute false the cached value is returned; with
// recompute true the full log is replayed and the cache rewritten, which is
// idempotent: replaying twice over the same log yields the same number.
func (l *Ledger) BalanceOf(id string, recompute bool) (int64, error) {
	if id == model.ReservoirID {
		return model.ReservoirBalance, nil
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.balanceLocked(id, recompute)
}

// balanceLocked is BalanceOf for callers holding store.mu.
func (l *Ledger) balanceLocked(id string, recompute bool) (int64, error) {
	if id == model.ReservoirID {
		return model.ReservoirBalance, nil
	}
	acct := l.store.account(id)
	if acct == nil {
		return 0, model.ErrAccountNotFound
	}
	if recompute {
		acct.Balance = l.replayLocked(id)
	}
	return acct.Balance, nil
}

// replayLocked folds the full transfer log for id: +amount inbound, -amount
// outbound. The fold itself is pure; the single cache write happens in
// balanceLocked. Caller must hold store.mu.
func (l *Ledger) replayLocked(id string) int64 {
	var sum int64
	for _, t := range l.store.transfers {
		if t.To == id {
			sum += t.Amount
		}
		if t.From == id {
			sum -= t.Amount
		}
	}
	return sum
}

// Transfers returns a copy of the full transfer log in append order.
func (l *Ledger) Transfers() []model.Transfer {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return append([]model.Transfer(nil), l.store.transfers...)
}

// TransfersFor returns copies of the log entries where id is either party,
// in append order.
func (l *Ledger) TransfersFor(id string) []model.Transfer {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	var out []model.Transfer
	for _, t := range l.store.transfers {
		if t.From == id || t.To == id {
			out = append(out, t)
		}
	}
	return out
}
