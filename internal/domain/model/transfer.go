package model

import "time"

// ReservoirID is the reserved account identifier for the external reservoir:
// an unbounded source/sink representing money entering or leaving the system.
// It is never issued by the identifier generator and never stored as an
// account.
const ReservoirID = "0"

// ReservoirBalance is the fixed balance reported for the reservoir. It is a
// safety cap, not a ledger-derived value; the reservoir's real net flow is
// deliberately untracked.
const ReservoirBalance int64 = 1_000_000_000_000_000

// Transfer is one immutable entry in the append-only transfer log. From and
// To are account IDs or ReservoirID. Amount is always positive; direction is
// carried by the From/To pair.
type Transfer struct {
	Time   time.Time
	From   string
	To     string
	Amount int64
	Memo   string
}

// TransferResult reports the outcome of a committed or declined transfer.
// Declined is a normal business outcome (insufficient funds), not an error.
type TransferResult struct {
	Declined    bool
	FromBalance int64
	ToBalance   int64
}
