// Package generator supplies the randomness used to pick target numbers.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces uniformly distributed integers.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for reproducible games.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	return g.rnd.Intn(n)
}
