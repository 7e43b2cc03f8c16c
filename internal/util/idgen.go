package util

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces fresh identifiers. It is injected rather than called
// ambiently so tests can substitute a deterministic implementation.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDv4 identifiers.
type UUIDGenerator struct{}

// NewUUIDGenerator creates the production identifier generator.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

// NewID returns a fresh random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues "<prefix>-1", "<prefix>-2", ... deterministically.
// Safe for concurrent use; intended for tests.
type SequenceGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequenceGenerator creates a deterministic generator with the given prefix.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
