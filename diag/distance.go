package diag

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/CraigKelly/gibbs/model"
)

// Distance represents all the loss/error functions we use to judge a sampled
// distribution against a reference. Both inputs are normalized first, so raw
// counts and probabilities can be mixed.
type Distance struct {
	MeanAbs   float64 // Mean absolute difference per bin
	MaxAbs    float64 // Largest absolute difference in any bin
	Hellinger float64 // Hellinger distance, in [0, 1]
	JSD       float64 // Jensen-Shannon divergence (base 2), in [0, 1]
}

// normalize returns a copy of p that sums to 1.0
func normalize(p []float64) ([]float64, error) {
	tot := 0.0
	for i, v := range p {
		if !(v >= 0) || math.IsInf(v, 0) {
			return nil, model.InvalidConfigf("Mass %v at bin %d is not a finite non-negative value", v, i)
		}
		tot += v
	}
	if !(tot > 0) {
		return nil, model.Degeneracyf("Distribution has no mass")
	}

	cp := make([]float64, len(p))
	copy(cp, p)
	floats.Scale(1/tot, cp)
	return cp, nil
}

// Compare returns the Distance between two discrete distributions over the
// same bins.
func Compare(p, q []float64) (*Distance, error) {
	if len(p) != len(q) {
		return nil, model.InvalidConfigf("Bin count mismatch %d != %d", len(p), len(q))
	}
	if len(p) < 1 {
		return nil, model.InvalidConfigf("No bins to compare")
	}

	pn, err := normalize(p)
	if err != nil {
		return nil, err
	}
	qn, err := normalize(q)
	if err != nil {
		return nil, err
	}

	d := &Distance{}
	hel := 0.0
	for i := range pn {
		diff := math.Abs(pn[i] - qn[i])
		d.MeanAbs += diff
		d.MaxAbs = math.Max(d.MaxAbs, diff)

		// Hellinger distance is similar to the Euclidean L2:
		// sqrt(sum((sqrt(p) - sqrt(q))**2)) / sqrt(2)
		h := math.Sqrt(pn[i]) - math.Sqrt(qn[i])
		hel += h * h
	}
	d.MeanAbs /= float64(len(pn))
	d.Hellinger = math.Sqrt(hel) / math.Sqrt2
	d.JSD = jsDivergence(pn, qn)

	return d, nil
}

// klDivergence returns D_KL(P || Q) in bits. It is strictly a subroutine for
// JS divergence, where q is never zero when p is non-zero.
func klDivergence(p []float64, q []float64) float64 {
	diverge := 0.0
	for i, pi := range p {
		if pi > 0 {
			diverge += pi * math.Log2(pi/q[i])
		}
	}
	return diverge
}

// jsDivergence is the symmetric generalization of KL divergence. Inputs
// must be normalized.
func jsDivergence(p []float64, q []float64) float64 {
	mid := make([]float64, len(p))
	for i := range p {
		mid[i] = (p[i] + q[i]) * 0.5
	}
	return 0.5 * (klDivergence(p, mid) + klDivergence(q, mid))
}

// Histogram returns the fraction of series falling in each of bins equal
// width bins spanning [lo, hi). Values outside the range count toward the
// total but land in no bin.
func Histogram(series []float64, lo, hi float64, bins int) ([]float64, error) {
	if bins < 1 || !(hi > lo) {
		return nil, model.InvalidConfigf("Bad histogram range [%v, %v) with %d bins", lo, hi, bins)
	}
	if len(series) < 1 {
		return nil, model.InvalidConfigf("Cannot bin an empty series")
	}

	inside := make([]float64, 0, len(series))
	for _, x := range series {
		if x >= lo && x < hi {
			inside = append(inside, x)
		}
	}
	sort.Float64s(inside)

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	counts := stat.Histogram(nil, dividers, inside, nil)
	floats.Scale(1/float64(len(series)), counts)

	return counts, nil
}

// DensityBins integrates pdf over the same bins Histogram uses with the
// midpoint rule, giving the reference mass per bin.
func DensityBins(pdf func(float64) float64, lo, hi float64, bins int) ([]float64, error) {
	if bins < 1 || !(hi > lo) {
		return nil, model.InvalidConfigf("Bad density range [%v, %v) with %d bins", lo, hi, bins)
	}

	width := (hi - lo) / float64(bins)
	mass := make([]float64, bins)
	for i := range mass {
		mass[i] = pdf(lo+(float64(i)+0.5)*width) * width
	}

	return mass, nil
}
