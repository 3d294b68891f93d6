package application

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlebank/ledgerstore/internal/domain/model"
)

func TestTransferServiceValidation(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "alice")

	_, err := env.transfers.Transfer(a, a, 5, "")
	assert.ErrorIs(t, err, model.ErrSameAccount)

	_, err = env.transfers.Transfer(model.ReservoirID, a, 0, "")
	assert.ErrorIs(t, err, model.ErrNonPositiveAmount)

	_, err = env.transfers.Transfer(model.ReservoirID, a, -10, "")
	assert.ErrorIs(t, err, model.ErrNonPositiveAmount)

	assert.Empty(t, env.ledger.Transfers(), "rejected transfers must not append")
}

func TestTransferServiceUnknownParties(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "alice")
	_, err := env.transfers.Transfer(model.ReservoirID, a, 50, "seed")
	require.NoError(t, err)

	_, err = env.transfers.Transfer("missing", a, 5, "")
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	_, err = env.transfers.Transfer(a, "missing", 5, "")
	assert.ErrorIs(t, err, model.ErrAccountNotFound)

	assert.Len(t, env.ledger.Transfers(), 1, "log unchanged after failures")
}

// The end-to-end scenario: seed from the reservoir, transfer between
// accounts, then decline an overdraft with balances untouched.
func TestTransferServiceScenario(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "alice")

	res, err := env.transfers.Transfer(model.ReservoirID, a, 20, "deposit")
	require.NoError(t, err)
	assert.False(t, res.Declined)
	assert.Equal(t, model.ReservoirBalance, res.FromBalance)
	assert.Equal(t, int64(20), res.ToBalance)

	b := env.mustCreate(t, "bob")
	res, err = env.transfers.Transfer(a, b, 5, "lunch")
	require.NoError(t, err)
	assert.False(t, res.Declined)
	assert.Equal(t, int64(15), res.FromBalance)
	assert.Equal(t, int64(5), res.ToBalance)

	res, err = env.transfers.Transfer(a, b, 100, "too much")
	require.NoError(t, err)
	assert.True(t, res.Declined)
	assert.Equal(t, int64(15), res.FromBalance)

	balA, err := env.ledger.BalanceOf(a, true)
	require.NoError(t, err)
	balB, err := env.ledger.BalanceOf(b, true)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balA)
	assert.Equal(t, int64(5), balB)
	assert.Len(t, env.ledger.Transfers(), 2, "the declined transfer never reached the log")
}

func TestTransferServiceStampsTimeAndMemo(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "alice")

	_, err := env.transfers.Transfer(model.ReservoirID, a, 7, "allowance")
	require.NoError(t, err)

	log := env.ledger.Transfers()
	require.Len(t, log, 1)
	assert.Equal(t, "allowance", log[0].Memo)
	assert.False(t, log[0].Time.IsZero())
}

// Concurrent withdrawals from one account must serialize through the store
// lock: the total withdrawn can never exceed the balance.
func TestTransferServiceNoOverdraftUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	a := env.mustCreate(t, "alice")
	_, err := env.transfers.Transfer(model.ReservoirID, a, 10, "seed")
	require.NoError(t, err)

	const attempts = 20
	var wg sync.WaitGroup
	committed := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.transfers.Transfer(a, model.ReservoirID, 6, "grab")
			if err == nil && !res.Declined {
				committed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(committed)

	assert.Equal(t, 1, len(committed), "only one withdrawal of 6 fits in a balance of 10")
	bal, err := env.ledger.BalanceOf(a, true)
	require.NoError(t, err)
	assert.Equal(t, int64(4), bal)
}
