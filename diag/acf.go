// Package diag computes convergence diagnostics for a single scalar series
// taken from a chain: the autocorrelation function, effective sample size,
// quantiles, and distances between a sampled histogram and a known density.
//
// Everything here is pure and read-only, so diagnostics may be computed on any
// prefix of a chain and concurrently across chains or components.
package diag

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/CraigKelly/gibbs/model"
)

// Lag is one point of an autocorrelation function
type Lag struct {
	Lag   int
	Value float64
}

// deviations checks the series and returns its deviations from the mean along
// with their sum of squares.
func deviations(series []float64) ([]float64, float64, error) {
	if len(series) < 2 {
		return nil, 0, model.InvalidConfigf("Series needs at least 2 points, found %d", len(series))
	}

	for i, x := range series {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, 0, model.InvalidConfigf("Series value %d is not finite", i)
		}
	}

	mean := stat.Mean(series, nil)
	dev := make([]float64, len(series))
	ss := 0.0
	for i, x := range series {
		dev[i] = x - mean
		ss += dev[i] * dev[i]
	}

	if !(ss > 0) {
		return nil, 0, model.Degeneracyf("Series of %d points is constant: autocorrelation is undefined", len(series))
	}

	return dev, ss, nil
}

// Autocorrelation returns acf(k) for k = 0..maxLag, where
//
//	acf(k) = sum_{t=1}^{S-k} (x_t - m)(x_{t+k} - m) / sum_{t=1}^{S} (x_t - m)^2
//
// and m is the mean of the full series. acf(0) is always exactly 1.
func Autocorrelation(series []float64, maxLag int) ([]Lag, error) {
	if maxLag < 0 || maxLag >= len(series) {
		return nil, model.InvalidConfigf("Max lag %d out of range for series of %d points", maxLag, len(series))
	}

	dev, ss, err := deviations(series)
	if err != nil {
		return nil, err
	}

	acf := make([]Lag, maxLag+1)
	acf[0] = Lag{0, 1.0}
	for k := 1; k <= maxLag; k++ {
		num := 0.0
		for t := 0; t+k < len(dev); t++ {
			num += dev[t] * dev[t+k]
		}
		acf[k] = Lag{k, num / ss}
	}

	return acf, nil
}

// fullACF returns acf(k) for every k in 0..S-1. It computes the same
// quantity as Autocorrelation via an FFT of the zero-padded deviations, which
// keeps whole-chain ESS at O(S log S).
func fullACF(series []float64) ([]float64, error) {
	dev, _, err := deviations(series)
	if err != nil {
		return nil, err
	}

	n := len(dev)
	size := 1
	for size < 2*n {
		size <<= 1
	}

	padded := make([]float64, size)
	copy(padded, dev)

	fft := fourier.NewFFT(size)
	coeff := fft.Coefficients(nil, padded)
	for i, c := range coeff {
		re, im := real(c), imag(c)
		coeff[i] = complex(re*re+im*im, 0)
	}
	acov := fft.Sequence(nil, coeff)

	rho := make([]float64, n)
	rho[0] = 1.0
	for k := 1; k < n; k++ {
		rho[k] = acov[k] / acov[0]
	}

	return rho, nil
}
