package sampler

import (
	"github.com/CraigKelly/gibbs/rand"
)

// A Conditional draws one component of the state from its full conditional
// distribution given the rest of the current state. Model parameters are
// bound when the Conditional is created, so Draw only sees the state and the
// chain's generator. Implementations must not keep state between calls.
type Conditional interface {
	// Component is the name of the state component this conditional updates
	Component() string

	// Reads lists the other components Draw looks at
	Reads() []string

	// Draw returns a new value for Component given the current state
	Draw(cur State, gen *rand.Generator) (float64, error)
}

// ConditionalFunc adapts a plain function into a Conditional
type ConditionalFunc struct {
	Name   string
	Inputs []string
	Fn     func(cur State, gen *rand.Generator) (float64, error)
}

// Component implements Conditional
func (c ConditionalFunc) Component() string { return c.Name }

// Reads implements Conditional
func (c ConditionalFunc) Reads() []string { return c.Inputs }

// Draw implements Conditional
func (c ConditionalFunc) Draw(cur State, gen *rand.Generator) (float64, error) {
	return c.Fn(cur, gen)
}
