package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Grid is a brute force evaluation of the semiconjugate normal posterior on a
// theta x precision grid. It is the exact answer a Gibbs chain for the same
// model should approach, so it serves as the "solution" when judging a chain.
type Grid struct {
	Theta     []float64   // Theta grid points (bin centers)
	Precision []float64   // Precision grid points
	Joint     [][]float64 // Normalized posterior mass, indexed [theta][precision]

	ThetaMarginal     []float64 // Sums to 1.0
	PrecisionMarginal []float64 // Sums to 1.0
}

// NewNormalGrid evaluates the posterior of a NORMAL model on points x points
// evenly spaced values of theta in [thetaLo, thetaHi] and precision in
// [precLo, precHi].
func NewNormalGrid(m *Model, thetaLo, thetaHi, precLo, precHi float64, points int) (*Grid, error) {
	if m.Type != NORMAL {
		return nil, InvalidConfigf("Grid posterior requires a NORMAL model, found %s", m.Type)
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	if points < 2 {
		return nil, InvalidConfigf("Grid needs at least 2 points, found %d", points)
	}
	if !(thetaHi > thetaLo) || !(precHi > precLo) {
		return nil, InvalidConfigf("Grid ranges must be increasing")
	}
	if !(precLo > 0) {
		return nil, InvalidConfigf("Precision grid must be strictly positive, found lower bound %v", precLo)
	}

	g := &Grid{
		Theta:             floats.Span(make([]float64, points), thetaLo, thetaHi),
		Precision:         floats.Span(make([]float64, points), precLo, precHi),
		Joint:             make([][]float64, points),
		ThetaMarginal:     make([]float64, points),
		PrecisionMarginal: make([]float64, points),
	}

	st := m.Stats()
	n := float64(st.N)
	p := m.Prior

	thetaPrior := distuv.Normal{Mu: p.Mu0, Sigma: math.Sqrt(p.Tau0Sq)}
	precPrior := distuv.Gamma{Alpha: p.Nu0 / 2, Beta: p.Nu0 * p.Sigma0Sq / 2}

	logPost := make([]float64, 0, points*points)
	for _, theta := range g.Theta {
		lt := thetaPrior.LogProb(theta)
		ss := (n-1)*st.Var + n*(st.Mean-theta)*(st.Mean-theta)
		for _, prec := range g.Precision {
			// log likelihood of the data given (theta, prec) from the
			// sufficient statistics
			ll := 0.5*n*math.Log(prec) - 0.5*n*math.Log(2*math.Pi) - 0.5*prec*ss
			logPost = append(logPost, lt+precPrior.LogProb(prec)+ll)
		}
	}

	norm := floats.LogSumExp(logPost)
	if math.IsInf(norm, 0) || math.IsNaN(norm) {
		return nil, Degeneracyf("Grid posterior has no mass in the given ranges")
	}

	for i := range g.Theta {
		g.Joint[i] = make([]float64, points)
		for j := range g.Precision {
			mass := math.Exp(logPost[i*points+j] - norm)
			g.Joint[i][j] = mass
			g.ThetaMarginal[i] += mass
			g.PrecisionMarginal[j] += mass
		}
	}

	return g, nil
}

// ThetaEdges returns the outer edges of the theta bins: the grid points are
// bin centers, so the edges extend half a step past each end.
func (g *Grid) ThetaEdges() (float64, float64) {
	last := len(g.Theta) - 1
	half := (g.Theta[last] - g.Theta[0]) / float64(last) / 2
	return g.Theta[0] - half, g.Theta[last] + half
}
