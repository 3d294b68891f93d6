// Package jsonfile implements the SnapshotStore port as a single JSON file
// replaced atomically on every save.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/natefinch/atomic"

	"github.com/castlebank/ledgerstore/internal/domain/model"
	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SnapshotStore = (*Store)(nil)

// Store reads and writes the snapshot file at a fixed path.
type Store struct {
	path string
}

// New creates a Store for the given snapshot file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Wire format. Field names ("students", "pash") are kept for compatibility
// with snapshots written by earlier versions of the store.
type snapshotDoc struct {
	Students     []studentDoc     `json:"students"`
	Transactions []transactionDoc `json:"transactions"`
}

type studentDoc struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Pash    string `json:"pash"`
	Balance int64  `json:"balance"`
}

type transactionDoc struct {
	Time   int64  `json:"time"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}

// Load reads the snapshot file. A missing or empty file yields an empty
// snapshot: that is a fresh store, not an error. Read failures wrap
// driven.ErrSnapshotRead; content that does not parse as a snapshot object
// wraps driven.ErrSnapshotCorrupt. Collections absent from the document
// default to empty, so older snapshots load cleanly.
func (s *Store) Load() (model.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return model.Snapshot{}, nil
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", driven.ErrSnapshotRead, err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return model.Snapshot{}, nil
	}
	// encoding/json accepts "null" (and other non-object values decode with
	// misleading errors), so require an object document up front.
	if trimmed[0] != '{' {
		return model.Snapshot{}, fmt.Errorf("%w: document is not a JSON object", driven.ErrSnapshotCorrupt)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", driven.ErrSnapshotCorrupt, err)
	}

	snap := model.Snapshot{
		Accounts:  make([]model.Account, 0, len(doc.Students)),
		Transfers: make([]model.Transfer, 0, len(doc.Transactions)),
	}
	for _, st := range doc.Students {
		snap.Accounts = append(snap.Accounts, model.Account{
			ID:           st.UUID,
			Name:         st.Name,
			PasswordHash: st.Pash,
			Balance:      st.Balance,
		})
	}
	for _, tx := range doc.Transactions {
		snap.Transfers = append(snap.Transfers, model.Transfer{
			Time:   time.UnixMilli(tx.Time),
			From:   tx.From,
			To:     tx.To,
			Amount: tx.Amount,
			Memo:   tx.Memo,
		})
	}
	return snap, nil
}

// Save serializes the snapshot and replaces the file atomically (write to a
// temp file, then rename), so a crash mid-write never corrupts the previous
// snapshot. The document ends with a trailing newline.
func (s *Store) Save(snap model.Snapshot) error {
	doc := snapshotDoc{
		Students:     make([]studentDoc, 0, len(snap.Accounts)),
		Transactions: make([]transactionDoc, 0, len(snap.Transfers)),
	}
	for _, a := range snap.Accounts {
		doc.Students = append(doc.Students, studentDoc{
			UUID:    a.ID,
			Name:    a.Name,
			Pash:    a.PasswordHash,
			Balance: a.Balance,
		})
	}
	for _, t := range snap.Transfers {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			Time:   t.Time.UnixMilli(),
			From:   t.From,
			To:     t.To,
			Amount: t.Amount,
			Memo:   t.Memo,
		})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	raw = append(raw, '\n')

	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write snapshot %q: %w", s.path, err)
	}
	return nil
}
