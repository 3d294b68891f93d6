package model

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers branch with errors.Is on the class sentinels
// (ErrValidation, ErrConflict, ErrNotFound); the concrete sentinels carry the
// specific reason. Insufficient funds is not part of this taxonomy: it is a
// declined TransferResult, not a failure.
var (
	// ErrValidation classifies malformed caller input. No state changes.
	ErrValidation = errors.New("validation failed")

	// ErrConflict classifies uniqueness violations on create.
	ErrConflict = errors.New("conflict")

	// ErrNotFound classifies references to absent accounts.
	ErrNotFound = errors.New("not found")

	ErrSameAccount       = fmt.Errorf("%w: from and to are the same account", ErrValidation)
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be a positive integer", ErrValidation)
	ErrBlankName         = fmt.Errorf("%w: name must be non-empty", ErrValidation)
	ErrPaddedName        = fmt.Errorf("%w: name must not have surrounding whitespace", ErrValidation)
	ErrShortCredential   = fmt.Errorf("%w: credential is shorter than the configured minimum", ErrValidation)

	ErrNameTaken       = fmt.Errorf("%w: account name already exists", ErrConflict)
	ErrAccountNotFound = fmt.Errorf("%w: account does not exist", ErrNotFound)
)

// IntegrityError reports a broken store invariant (duplicate account id or
// name). It is fatal: the in-memory model is corrupted and continuing risks
// silent miscalculation. The caller chooses the shutdown policy.
type IntegrityError struct {
	Detail string
}

func (e *IntegrityError) Error() string {
	return "ledger integrity violation: " + e.Detail
}
