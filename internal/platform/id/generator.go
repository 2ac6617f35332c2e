package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator produces opaque identifiers for rows exposed outside the
// process. Services take the interface so tests can pin IDs.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits 32-char hex IDs from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Func adapts a plain function to the Generator interface.
type Func func() (string, error)

func (f Func) NewID() (string, error) { return f() }
