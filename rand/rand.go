package rand

import (
	mrand "math/rand/v2"

	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"
)

// A Generator is a Mersenne twister PRNG owned by exactly one chain. It is
// NOT safe for concurrent use: run one Generator per chain. Generator
// satisfies math/rand/v2.Source so it can be handed to gonum distributions.
type Generator struct {
	mt   *mt19937.MT19937
	Seed int64 // Seed is the seed given at creation (0 for slice seeds)
}

var _ mrand.Source = (*Generator)(nil)

// NewGenerator creates a new PRNG based on the given seed
func NewGenerator(seed int64) (*Generator, error) {
	r := mt19937.New()
	r.Seed(seed)

	g := &Generator{
		mt:   r,
		Seed: seed,
	}

	return g, nil
}

// NewGeneratorSlice creates a new PRNG seeded with the reference
// init_by_array procedure. Mainly useful for checking against published
// MT19937-64 output.
func NewGeneratorSlice(key []uint64) (*Generator, error) {
	if len(key) < 1 {
		return nil, errors.New("Seed slice must not be empty")
	}

	r := mt19937.New()
	r.SeedFromSlice(key)

	return &Generator{mt: r}, nil
}

// Uint64 returns a uniform 64 bit value (math/rand/v2.Source). Wrap the
// generator with math/rand/v2.New for floats and bounded ints.
func (g *Generator) Uint64() uint64 {
	return g.mt.Uint64()
}
