package diag

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/CraigKelly/gibbs/buffer"
	"github.com/CraigKelly/gibbs/model"
)

// Drift compares the older and newer halves of the last window values of the
// series and returns the difference of their means in standard error units.
// Draws are treated as independent, so this overstates drift for sticky
// chains; large values (|z| > 3 or so) mean the chain has not settled.
func Drift(series []float64, window int) (float64, error) {
	if window < 4 {
		return 0, model.InvalidConfigf("Drift window must be >= 4, found %d", window)
	}
	if window > len(series) {
		return 0, model.InvalidConfigf("Drift window %d is longer than the series (%d)", window, len(series))
	}

	hist := buffer.NewCircular(window)
	for _, x := range series {
		hist.Add(x)
	}

	older, newer := hist.Halves()

	m1, v1 := stat.MeanVariance(older, nil)
	m2, v2 := stat.MeanVariance(newer, nil)

	se := math.Sqrt(v1/float64(len(older)) + v2/float64(len(newer)))
	if !(se > 0) {
		return 0, model.Degeneracyf("Both halves of the drift window are constant")
	}

	return (m2 - m1) / se, nil
}
