package model

import (
	"gonum.org/v1/gonum/stat"
)

// SampleStats are the sufficient statistics of the observed data used by
// the semiconjugate normal conditionals.
type SampleStats struct {
	N    int     // Number of observations
	Mean float64 // Sample mean
	Var  float64 // Unbiased sample variance (n-1 denominator)
}

// Stats returns the sample statistics of the model's observed data.
func (m *Model) Stats() SampleStats {
	mean, variance := stat.MeanVariance(m.Data, nil)
	return SampleStats{
		N:    len(m.Data),
		Mean: mean,
		Var:  variance,
	}
}
