// Package id issues opaque identifiers for runs and persisted artifacts.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces hex identifiers with an optional prefix,
// e.g. "run_3f0a...".
type RandomGenerator struct {
	prefix string
	size   int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: 16}
}

func NewPrefixedGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix, size: 16}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := g.size
	if size <= 0 {
		size = 16
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	if g.prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return g.prefix + "_" + hex.EncodeToString(buf), nil
}
