package diag

import (
	"github.com/CraigKelly/gibbs/model"
)

// EffectiveSampleSize estimates how many independent draws the series is
// worth: S / tau with tau = 1 + 2 * sum_{k=1}^{K} acf(k).
//
// The sum is truncated with Geyer's initial monotone sequence: acf values are
// summed in adjacent pairs G_m = acf(2m) + acf(2m+1), stopping at the first
// non-positive pair, and each pair is capped at the previous one. The largest
// lag ever used is S-1. When tau comes out <= 1 (anticorrelated or i.i.d.
// series) the result is S, so 0 < ESS <= S always holds.
func EffectiveSampleSize(series []float64) (float64, error) {
	rho, err := fullACF(series)
	if err != nil {
		return 0, err
	}

	s := len(rho)
	tau := -rho[0]
	prev := 0.0
	for m := 0; 2*m+1 < s; m++ {
		pair := rho[2*m] + rho[2*m+1]
		if pair <= 0 {
			break
		}
		if m > 0 && pair > prev {
			pair = prev
		}
		tau += 2 * pair
		prev = pair
	}

	if tau <= 1 {
		return float64(s), nil
	}
	return float64(s) / tau, nil
}

// ESSPoint is the ESS of the first N values of a series
type ESSPoint struct {
	N   int
	ESS float64
}

// ESSTrace returns the ESS of the prefixes of length step, 2*step, ... and
// always ends with the full series. It shows how ESS grows as a chain gets
// longer.
func ESSTrace(series []float64, step int) ([]ESSPoint, error) {
	if step < 2 {
		return nil, model.InvalidConfigf("ESS trace step must be >= 2, found %d", step)
	}
	if len(series) < step {
		return nil, model.InvalidConfigf("ESS trace step %d is longer than the series (%d)", step, len(series))
	}

	trace := make([]ESSPoint, 0, len(series)/step+1)
	for n := step; ; n += step {
		if n > len(series) {
			n = len(series)
		}

		ess, err := EffectiveSampleSize(series[:n])
		if err != nil {
			return nil, err
		}
		trace = append(trace, ESSPoint{N: n, ESS: ess})

		if n == len(series) {
			break
		}
	}

	return trace, nil
}
