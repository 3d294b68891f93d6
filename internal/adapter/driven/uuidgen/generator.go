// Package uuidgen implements the IDGenerator port with random UUIDv4s.
package uuidgen

import (
	"github.com/google/uuid"

	"github.com/castlebank/ledgerstore/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IDGenerator = (*Generator)(nil)

// Generator issues random UUID account identifiers.
type Generator struct{}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a fresh UUIDv4 string.
func (g *Generator) NewID() string {
	return uuid.NewString()
}
