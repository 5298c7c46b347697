// Package idgen supplies identifiers for quotes, spaces and cabinet items.
package idgen

import (
	"github.com/google/uuid"

	"github.com/cabinetquote/backend/internal/domain/quote"
)

// UUIDGenerator issues random (version 4) UUID strings
type UUIDGenerator struct{}

var _ quote.IDGenerator = UUIDGenerator{}

// NewUUIDGenerator returns a UUIDGenerator
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// NewID returns a new UUIDv4 in canonical string form
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
