package model

import (
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model type constant string - matches the "type" key in model files
const (
	NORMAL  = "NORMAL"
	MIXTURE = "MIXTURE"
)

// Reader implementors instantiate a model from a byte stream. Relative data
// files named by the model are resolved against baseDir.
type Reader interface {
	ReadModel(data []byte, baseDir string) (*Model, error)
}

// Prior holds the semiconjugate normal hyperparameters: theta ~ N(Mu0,
// Tau0Sq) and precision ~ Gamma(Nu0/2, Nu0*Sigma0Sq/2).
type Prior struct {
	Mu0      float64 `yaml:"mu0"`
	Tau0Sq   float64 `yaml:"tau0_sq"`
	Sigma0Sq float64 `yaml:"sigma0_sq"`
	Nu0      float64 `yaml:"nu0"`
}

// Mixture holds the fixed constants of a discrete normal mixture.
type Mixture struct {
	Weights   []float64 `yaml:"weights"`
	Means     []float64 `yaml:"means"`
	Variances []float64 `yaml:"variances"`
}

// Components is the number of mixture components
func (m *Mixture) Components() int {
	return len(m.Weights)
}

// SD returns the standard deviation of component d
func (m *Mixture) SD(d int) float64 {
	return math.Sqrt(m.Variances[d])
}

// Density is the closed form mixture density at x. Weights need not be
// normalized.
func (m *Mixture) Density(x float64) float64 {
	dens, tot := 0.0, 0.0
	for d, w := range m.Weights {
		dens += w * distuv.Normal{Mu: m.Means[d], Sigma: m.SD(d)}.Prob(x)
		tot += w
	}
	return dens / tot
}

// Model is the fixed configuration bundle for one sampling run: observed
// data, priors, mixture constants, and optional initial state values. It is
// never modified while a chain runs.
type Model struct {
	Type    string             // Model type - should match a constant
	Name    string             // Model name
	Data    []float64          // Observed sample (NORMAL only)
	Prior   Prior              // Semiconjugate prior (NORMAL only)
	Mixture *Mixture           // Mixture constants (MIXTURE only)
	Initial map[string]float64 // Optional initial state overrides
}

// Clone returns a deep copy of the current model.
func (m *Model) Clone() *Model {
	cp := &Model{
		Type:    m.Type,
		Name:    m.Name,
		Data:    make([]float64, len(m.Data)),
		Prior:   m.Prior,
		Initial: make(map[string]float64, len(m.Initial)),
	}
	copy(cp.Data, m.Data)

	for ky, val := range m.Initial {
		cp.Initial[ky] = val
	}

	if m.Mixture != nil {
		cp.Mixture = &Mixture{
			Weights:   append([]float64(nil), m.Mixture.Weights...),
			Means:     append([]float64(nil), m.Mixture.Means...),
			Variances: append([]float64(nil), m.Mixture.Variances...),
		}
	}

	return cp
}

// NewModelFromFile initializes and creates a model from the specified source.
func NewModelFromFile(r Reader, filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ model from %s", filename)
	}

	model, err := NewModelFromBuffer(r, data, filepath.Dir(filename))
	if err != nil {
		return nil, err
	}

	// Name the model from the file if it didn't name itself
	if len(model.Name) < 1 {
		var ext = filepath.Ext(filename)
		model.Name = filepath.Base(filename[0 : len(filename)-len(ext)])
	}

	return model, nil
}

// NewModelFromBuffer creates a model from the given pre-read data
func NewModelFromBuffer(r Reader, data []byte, baseDir string) (*Model, error) {
	m, err := r.ReadModel(data, baseDir)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE model")
	}

	err = m.Check()
	if err != nil {
		return nil, errors.Wrapf(err, "Parsed model is not valid")
	}

	return m, nil
}

// Check returns an error if there is a problem with the model. All errors
// are ErrInvalidConfig.
func (m *Model) Check() error {
	switch m.Type {
	case NORMAL:
		return m.checkNormal()
	case MIXTURE:
		return m.checkMixture()
	}
	return InvalidConfigf("Unknown model type %s", m.Type)
}

func (m *Model) checkNormal() error {
	if len(m.Data) < 2 {
		return InvalidConfigf("Model %s needs at least 2 observations, found %d", m.Name, len(m.Data))
	}
	for i, y := range m.Data {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return InvalidConfigf("Model %s observation %d is not finite", m.Name, i)
		}
	}

	p := m.Prior
	if !(p.Tau0Sq > 0) {
		return InvalidConfigf("Prior tau0_sq must be > 0, found %v", p.Tau0Sq)
	}
	if !(p.Sigma0Sq > 0) {
		return InvalidConfigf("Prior sigma0_sq must be > 0, found %v", p.Sigma0Sq)
	}
	if !(p.Nu0 > 0) {
		return InvalidConfigf("Prior nu0 must be > 0, found %v", p.Nu0)
	}

	return nil
}

func (m *Model) checkMixture() error {
	mix := m.Mixture
	if mix == nil {
		return InvalidConfigf("Model %s is a MIXTURE but has no mixture block", m.Name)
	}

	k := mix.Components()
	if k < 1 {
		return InvalidConfigf("Mixture needs at least one component")
	}
	if len(mix.Means) != k || len(mix.Variances) != k {
		return InvalidConfigf(
			"Mixture lengths disagree: %d weights, %d means, %d variances",
			k, len(mix.Means), len(mix.Variances),
		)
	}

	tot := 0.0
	for d := 0; d < k; d++ {
		if !(mix.Weights[d] >= 0) {
			return InvalidConfigf("Mixture weight %d is %v", d, mix.Weights[d])
		}
		if !(mix.Variances[d] > 0) {
			return InvalidConfigf("Mixture variance %d is %v", d, mix.Variances[d])
		}
		tot += mix.Weights[d]
	}
	if !(tot > 0) {
		return InvalidConfigf("Mixture weights sum to %v", tot)
	}

	return nil
}
