package sampler

import (
	"math"

	"github.com/CraigKelly/gibbs/model"
)

// Component names used by the bundled conditionals
const (
	Theta     = "theta"     // Location (mean) of the normal model or the mixture
	Precision = "precision" // Inverse variance of the normal model
	Component = "component" // Zero-based mixture component index
)

// State is one state vector: a fixed, ordered set of named scalar
// components. The names are shared between states and never modified; values
// are copied whenever a state crosses an API boundary.
type State struct {
	names  []string
	values []float64
}

// NewState creates a state from parallel name and value slices. Names must be
// non-empty and unique.
func NewState(names []string, values []float64) (State, error) {
	if len(names) < 1 {
		return State{}, model.InvalidConfigf("A state needs at least one component")
	}
	if len(names) != len(values) {
		return State{}, model.InvalidConfigf("State has %d names but %d values", len(names), len(values))
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if len(n) < 1 {
			return State{}, model.InvalidConfigf("State component names must not be empty")
		}
		if seen[n] {
			return State{}, model.InvalidConfigf("Duplicate state component %s", n)
		}
		seen[n] = true
	}

	s := State{
		names:  append([]string(nil), names...),
		values: append([]float64(nil), values...),
	}
	return s, nil
}

// Len is the number of components
func (s State) Len() int {
	return len(s.names)
}

// Names returns a copy of the component names in order
func (s State) Names() []string {
	return append([]string(nil), s.names...)
}

// Values returns a copy of the component values in order
func (s State) Values() []float64 {
	return append([]float64(nil), s.values...)
}

// Index returns the position of the named component or -1
func (s State) Index(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Value returns the named component and whether it exists
func (s State) Value(name string) (float64, bool) {
	i := s.Index(name)
	if i < 0 {
		return 0, false
	}
	return s.values[i], true
}

// Get returns the named component, or NaN when it does not exist. The engine
// checks every name a Conditional Reads before sampling starts, so inside
// Draw a Get of a declared name always succeeds.
func (s State) Get(name string) float64 {
	v, ok := s.Value(name)
	if !ok {
		return math.NaN()
	}
	return v
}

// Equal is true when both states have the same names and bit-identical values
func (s State) Equal(o State) bool {
	if len(s.names) != len(o.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != o.names[i] || math.Float64bits(s.values[i]) != math.Float64bits(o.values[i]) {
			return false
		}
	}
	return true
}

// clone returns a state sharing names but owning a fresh copy of values
func (s State) clone() State {
	return State{
		names:  s.names,
		values: append([]float64(nil), s.values...),
	}
}
