package model

// Account is a named ledger participant. PasswordHash is an opaque digest
// produced by the PasswordHasher port at creation time and never mutated
// afterwards. Balance is a cache of the account's net position; the transfer
// log is the source of truth and the cache is rewritten by Ledger replay.
type Account struct {
	ID           string
	Name         string
	PasswordHash string
	Balance      int64
}

// Clone returns an independent copy. Services hand clones across the public
// boundary so callers cannot reach the live record and bypass validation.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
