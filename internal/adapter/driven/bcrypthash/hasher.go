// Package bcrypthash implements the PasswordHasher port with bcrypt.
package bcrypthash

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PasswordHasher = (*Hasher)(nil)

// Hasher hashes and verifies credentials with bcrypt.
type Hasher struct {
	cost int
}

// New creates a Hasher at bcrypt's default cost.
func New() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// NewWithCost creates a Hasher at the given cost. Tests use bcrypt.MinCost to
// keep key stretching out of the hot path.
func NewWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest. A mismatch is (false, nil);
// the error return is for malformed digests only.
func (h *Hasher) Verify(digest, secret string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify credential: %w", err)
}
