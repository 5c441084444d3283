package sampler

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/rand"
)

// ThetaConditional draws the normal mean given the current precision under a
// semiconjugate N(mu0, tau0^2) prior.
type ThetaConditional struct {
	prior model.Prior
	stats model.SampleStats
}

// NewThetaConditional binds the conditional to a NORMAL model
func NewThetaConditional(m *model.Model) (*ThetaConditional, error) {
	if err := checkNormal(m); err != nil {
		return nil, err
	}
	return &ThetaConditional{prior: m.Prior, stats: m.Stats()}, nil
}

// Component implements Conditional
func (c *ThetaConditional) Component() string { return Theta }

// Reads implements Conditional
func (c *ThetaConditional) Reads() []string { return []string{Precision} }

// Params returns the conditional mean and variance of theta given precision:
//
//	mu_n    = (mu0/tau0^2 + n*ybar*prec) / (1/tau0^2 + n*prec)
//	tau_n^2 = 1 / (1/tau0^2 + n*prec)
func (c *ThetaConditional) Params(prec float64) (float64, float64, error) {
	n := float64(c.stats.N)
	denom := 1/c.prior.Tau0Sq + n*prec

	variance := 1 / denom
	if !(variance > 0) || math.IsInf(variance, 0) {
		return 0, 0, model.Degeneracyf("Theta conditional variance %v for precision %v", variance, prec)
	}

	mean := (c.prior.Mu0/c.prior.Tau0Sq + n*c.stats.Mean*prec) / denom
	return mean, variance, nil
}

// Draw implements Conditional
func (c *ThetaConditional) Draw(cur State, gen *rand.Generator) (float64, error) {
	mean, variance, err := c.Params(cur.Get(Precision))
	if err != nil {
		return 0, err
	}
	return distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance), Src: gen}.Rand(), nil
}

// PrecisionConditional draws the normal precision given the current theta
// under a semiconjugate Gamma(nu0/2, nu0*sigma0^2/2) prior.
type PrecisionConditional struct {
	prior model.Prior
	stats model.SampleStats
}

// NewPrecisionConditional binds the conditional to a NORMAL model
func NewPrecisionConditional(m *model.Model) (*PrecisionConditional, error) {
	if err := checkNormal(m); err != nil {
		return nil, err
	}
	return &PrecisionConditional{prior: m.Prior, stats: m.Stats()}, nil
}

// Component implements Conditional
func (c *PrecisionConditional) Component() string { return Precision }

// Reads implements Conditional
func (c *PrecisionConditional) Reads() []string { return []string{Theta} }

// Params returns the Gamma shape and rate of the precision given theta:
//
//	nu_n      = nu0 + n
//	sigma_n^2 = (nu0*sigma0^2 + (n-1)*s^2 + n*(ybar-theta)^2) / nu_n
//	shape     = nu_n / 2
//	rate      = sigma_n^2 * nu_n / 2
//
// The variance 1/precision is then inverse-gamma with the same shape and
// scale.
func (c *PrecisionConditional) Params(theta float64) (float64, float64, error) {
	n := float64(c.stats.N)
	p := c.prior

	nuN := p.Nu0 + n
	dev := c.stats.Mean - theta
	sigmaNSq := (p.Nu0*p.Sigma0Sq + (n-1)*c.stats.Var + n*dev*dev) / nuN

	shape := nuN / 2
	rate := sigmaNSq * nuN / 2
	if !(shape > 0) || !(rate > 0) || math.IsInf(rate, 0) {
		return 0, 0, model.Degeneracyf("Precision conditional Gamma(%v, %v) for theta %v", shape, rate, theta)
	}

	return shape, rate, nil
}

// Draw implements Conditional
func (c *PrecisionConditional) Draw(cur State, gen *rand.Generator) (float64, error) {
	shape, rate, err := c.Params(cur.Get(Theta))
	if err != nil {
		return 0, err
	}
	return distuv.Gamma{Alpha: shape, Beta: rate, Src: gen}.Rand(), nil
}

func checkNormal(m *model.Model) error {
	if m == nil {
		return model.InvalidConfigf("No model supplied")
	}
	if m.Type != model.NORMAL {
		return model.InvalidConfigf("Model %s is %s, not %s", m.Name, m.Type, model.NORMAL)
	}
	return m.Check()
}

// NormalConditionals returns the theta then precision conditionals, the
// sweep order for the semiconjugate normal model.
func NormalConditionals(m *model.Model) ([]Conditional, error) {
	theta, err := NewThetaConditional(m)
	if err != nil {
		return nil, err
	}
	prec, err := NewPrecisionConditional(m)
	if err != nil {
		return nil, err
	}
	return []Conditional{theta, prec}, nil
}

// NormalInitial seeds the chain at the sample mean and sample precision,
// unless the model's initial block overrides either value.
func NormalInitial(m *model.Model) (State, error) {
	if err := checkNormal(m); err != nil {
		return State{}, err
	}

	st := m.Stats()
	theta, ok := m.Initial[Theta]
	if !ok {
		theta = st.Mean
	}

	prec, ok := m.Initial[Precision]
	if !ok {
		if !(st.Var > 0) {
			return State{}, model.Degeneracyf("Sample variance is %v: set initial precision explicitly", st.Var)
		}
		prec = 1 / st.Var
	}
	if !(prec > 0) {
		return State{}, model.InvalidConfigf("Initial precision must be > 0, found %v", prec)
	}

	return NewState([]string{Theta, Precision}, []float64{theta, prec})
}
