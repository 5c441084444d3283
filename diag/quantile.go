package diag

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/CraigKelly/gibbs/model"
)

// Quantiles returns the empirical quantiles of series at each probability in
// ps, linearly interpolating the empirical CDF. The series is not modified.
func Quantiles(series []float64, ps ...float64) ([]float64, error) {
	if len(series) < 1 {
		return nil, model.InvalidConfigf("Cannot take quantiles of an empty series")
	}

	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	qs := make([]float64, len(ps))
	for i, p := range ps {
		if !(p >= 0 && p <= 1) {
			return nil, model.InvalidConfigf("Quantile probability %v not in [0, 1]", p)
		}
		qs[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
	}

	return qs, nil
}
