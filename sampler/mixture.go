package sampler

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/rand"
)

// ComponentConditional draws the mixture component given the current location.
type ComponentConditional struct {
	mix *model.Mixture
}

// NewComponentConditional binds the conditional to a MIXTURE model
func NewComponentConditional(m *model.Model) (*ComponentConditional, error) {
	if err := checkMixture(m); err != nil {
		return nil, err
	}
	return &ComponentConditional{mix: m.Clone().Mixture}, nil
}

// Component implements Conditional
func (c *ComponentConditional) Component() string { return Component }

// Reads implements Conditional
func (c *ComponentConditional) Reads() []string { return []string{Theta} }

// Probabilities returns P(component = d | theta), proportional to
// weight[d] * N(theta; mean[d], sd[d]) and normalized to sum to 1. The
// products are formed in log space so far-out locations do not underflow.
func (c *ComponentConditional) Probabilities(theta float64) ([]float64, error) {
	k := c.mix.Components()
	logp := make([]float64, k)
	for d := 0; d < k; d++ {
		dist := distuv.Normal{Mu: c.mix.Means[d], Sigma: c.mix.SD(d)}
		logp[d] = math.Log(c.mix.Weights[d]) + dist.LogProb(theta)
	}

	norm := floats.LogSumExp(logp)
	if math.IsInf(norm, 0) || math.IsNaN(norm) {
		return nil, model.Degeneracyf("No component has positive probability at theta %v", theta)
	}

	probs := make([]float64, k)
	for d, lp := range logp {
		probs[d] = math.Exp(lp - norm)
	}
	return probs, nil
}

// Draw implements Conditional
func (c *ComponentConditional) Draw(cur State, gen *rand.Generator) (float64, error) {
	probs, err := c.Probabilities(cur.Get(Theta))
	if err != nil {
		return 0, err
	}
	return distuv.NewCategorical(probs, gen).Rand(), nil
}

// LocationConditional draws the location given the current component: a
// direct draw from that component's normal.
type LocationConditional struct {
	mix *model.Mixture
}

// NewLocationConditional binds the conditional to a MIXTURE model
func NewLocationConditional(m *model.Model) (*LocationConditional, error) {
	if err := checkMixture(m); err != nil {
		return nil, err
	}
	return &LocationConditional{mix: m.Clone().Mixture}, nil
}

// Component implements Conditional
func (c *LocationConditional) Component() string { return Theta }

// Reads implements Conditional
func (c *LocationConditional) Reads() []string { return []string{Component} }

// Draw implements Conditional
func (c *LocationConditional) Draw(cur State, gen *rand.Generator) (float64, error) {
	d, err := componentIndex(cur.Get(Component), c.mix.Components())
	if err != nil {
		return 0, err
	}
	return distuv.Normal{Mu: c.mix.Means[d], Sigma: c.mix.SD(d), Src: gen}.Rand(), nil
}

// componentIndex converts a stored component value back into an index
func componentIndex(v float64, k int) (int, error) {
	d := int(v)
	if float64(d) != v || d < 0 || d >= k {
		return -1, model.InvalidConfigf("Component value %v is not an index in [0, %d)", v, k)
	}
	return d, nil
}

func checkMixture(m *model.Model) error {
	if m == nil {
		return model.InvalidConfigf("No model supplied")
	}
	if m.Type != model.MIXTURE {
		return model.InvalidConfigf("Model %s is %s, not %s", m.Name, m.Type, model.MIXTURE)
	}
	return m.Check()
}

// MixtureConditionals returns the component then location conditionals, the
// sweep order for the discrete mixture.
func MixtureConditionals(m *model.Model) ([]Conditional, error) {
	comp, err := NewComponentConditional(m)
	if err != nil {
		return nil, err
	}
	loc, err := NewLocationConditional(m)
	if err != nil {
		return nil, err
	}
	return []Conditional{comp, loc}, nil
}

// MixtureInitial seeds the chain at component 0 and theta 0 unless the
// model's initial block says otherwise.
func MixtureInitial(m *model.Model) (State, error) {
	if err := checkMixture(m); err != nil {
		return State{}, err
	}

	comp := m.Initial[Component]
	if _, err := componentIndex(comp, m.Mixture.Components()); err != nil {
		return State{}, err
	}

	return NewState([]string{Component, Theta}, []float64{comp, m.Initial[Theta]})
}
