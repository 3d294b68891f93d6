package model

// Snapshot is the full persisted state: every account and the complete
// transfer log, written as one atomic unit. The on-disk encoding lives in the
// jsonfile adapter; this type is the in-memory shape.
type Snapshot struct {
	Accounts  []Account
	Transfers []Transfer
}
