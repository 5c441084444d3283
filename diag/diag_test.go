package diag

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/rand"
)

func normalSeries(seed int64, n int) []float64 {
	gen, err := rand.NewGenerator(seed)
	if err != nil {
		panic(err)
	}
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: gen}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = dist.Rand()
	}
	return xs
}

// ar1Series starts from the stationary distribution, so no burn in is needed
func ar1Series(seed int64, n int, phi float64) []float64 {
	noise := normalSeries(seed, n)
	xs := make([]float64, n)
	xs[0] = noise[0] / math.Sqrt(1-phi*phi)
	for i := 1; i < n; i++ {
		xs[i] = phi*xs[i-1] + noise[i]
	}
	return xs
}

func randomWalk(seed int64, n int) []float64 {
	steps := normalSeries(seed, n)
	for i := 1; i < n; i++ {
		steps[i] += steps[i-1]
	}
	return steps
}

func TestAutocorrelationHandCalc(t *testing.T) {
	assert := assert.New(t)

	// mean 3, deviations -2 -1 0 1 2, sum of squares 10
	acf, err := Autocorrelation([]float64{1, 2, 3, 4, 5}, 4)
	assert.NoError(err)
	assert.Len(acf, 5)

	exp := []float64{1.0, 0.4, -0.1, -0.4, -0.4}
	for k, lag := range acf {
		assert.Equal(k, lag.Lag)
		assert.InDelta(exp[k], lag.Value, 1e-12)
	}
}

func TestAutocorrelationLagZero(t *testing.T) {
	assert := assert.New(t)

	acf, err := Autocorrelation([]float64{3.5, -1.25}, 0)
	assert.NoError(err)
	assert.Equal([]Lag{{0, 1.0}}, acf)

	acf, err = Autocorrelation(normalSeries(3, 100), 0)
	assert.NoError(err)
	assert.Equal([]Lag{{0, 1.0}}, acf)
}

func TestAutocorrelationBadInput(t *testing.T) {
	assert := assert.New(t)

	invalid := func(series []float64, maxLag int) {
		acf, err := Autocorrelation(series, maxLag)
		assert.Nil(acf)
		assert.True(errors.Is(err, model.ErrInvalidConfig), "%v", err)
		assert.False(errors.Is(err, model.ErrNumericDegeneracy))
	}

	invalid([]float64{1, 2, 3}, 3)
	invalid([]float64{1, 2, 3}, 10)
	invalid([]float64{1, 2, 3}, -1)
	invalid([]float64{1}, 0)
	invalid(nil, 0)
	invalid([]float64{1, math.NaN(), 3}, 1)
	invalid([]float64{1, math.Inf(1), 3}, 1)

	acf, err := Autocorrelation([]float64{2, 2, 2, 2}, 2)
	assert.Nil(acf)
	assert.True(errors.Is(err, model.ErrNumericDegeneracy), "%v", err)
	assert.False(errors.Is(err, model.ErrInvalidConfig))
}

func TestFullACFMatchesDirect(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{2, 3, 17, 300} {
		xs := ar1Series(int64(n), n, 0.7)

		direct, err := Autocorrelation(xs, n-1)
		assert.NoError(err)
		fast, err := fullACF(xs)
		assert.NoError(err)
		assert.Len(fast, n)

		for k := range fast {
			assert.InDelta(direct[k].Value, fast[k], 1e-9, "n=%d k=%d", n, k)
		}
	}
}

func TestESSIndependent(t *testing.T) {
	assert := assert.New(t)

	const s = 5000
	ess, err := EffectiveSampleSize(normalSeries(42, s))
	assert.NoError(err)
	assert.True(ess > 0.8*s, "ESS %v too small for i.i.d. draws", ess)
	assert.True(ess <= s)
}

func TestESSAR1(t *testing.T) {
	assert := assert.New(t)

	// For AR(1) the true value is S(1-phi)/(1+phi)
	const s = 20000
	ess, err := EffectiveSampleSize(ar1Series(7, s, 0.5))
	assert.NoError(err)
	assert.InEpsilon(s/3.0, ess, 0.25)

	ess, err = EffectiveSampleSize(ar1Series(8, s, 0.9))
	assert.NoError(err)
	assert.InEpsilon(s*0.1/1.9, ess, 0.35)
}

func TestESSRandomWalk(t *testing.T) {
	assert := assert.New(t)

	const s = 5000
	ess, err := EffectiveSampleSize(randomWalk(11, s))
	assert.NoError(err)
	assert.True(ess > 0)
	assert.True(ess < 0.05*s, "random walk ESS %v should be tiny", ess)
}

func TestESSBounds(t *testing.T) {
	assert := assert.New(t)

	// Perfectly alternating series are anticorrelated: tau <= 1 so ESS == S
	alt := make([]float64, 10)
	for i := range alt {
		alt[i] = float64(1 - 2*(i%2))
	}
	ess, err := EffectiveSampleSize(alt)
	assert.NoError(err)
	assert.Equal(10.0, ess)

	ess, err = EffectiveSampleSize([]float64{1, 2})
	assert.NoError(err)
	assert.True(ess > 0 && ess <= 2)

	_, err = EffectiveSampleSize([]float64{1})
	assert.True(errors.Is(err, model.ErrInvalidConfig))

	_, err = EffectiveSampleSize([]float64{4, 4, 4})
	assert.True(errors.Is(err, model.ErrNumericDegeneracy))
}

func TestESSTrace(t *testing.T) {
	assert := assert.New(t)

	xs := ar1Series(5, 1000, 0.5)

	trace, err := ESSTrace(xs, 250)
	assert.NoError(err)
	assert.Len(trace, 4)
	assert.Equal(1000, trace[3].N)

	trace, err = ESSTrace(xs, 300)
	assert.NoError(err)
	ns := []int{}
	for _, pt := range trace {
		ns = append(ns, pt.N)
		assert.True(pt.ESS > 0 && pt.ESS <= float64(pt.N))
	}
	assert.Equal([]int{300, 600, 900, 1000}, ns)

	// Full series ESS matches the last trace point
	full, err := EffectiveSampleSize(xs)
	assert.NoError(err)
	assert.Equal(full, trace[len(trace)-1].ESS)

	_, err = ESSTrace(xs, 1)
	assert.Error(err)
	_, err = ESSTrace(xs[:10], 20)
	assert.Error(err)
}

func TestQuantiles(t *testing.T) {
	assert := assert.New(t)

	xs := []float64{5, 1, 4, 2, 3}
	qs, err := Quantiles(xs, 0, 0.5, 1)
	assert.NoError(err)
	assert.Equal(1.0, qs[0])
	assert.Equal(5.0, qs[2])
	assert.True(qs[1] >= 2 && qs[1] <= 3)
	assert.Equal([]float64{5, 1, 4, 2, 3}, xs) // untouched

	qs, err = Quantiles(normalSeries(99, 20000), 0.025, 0.5, 0.975)
	assert.NoError(err)
	assert.InDelta(-1.96, qs[0], 0.1)
	assert.InDelta(0.0, qs[1], 0.05)
	assert.InDelta(1.96, qs[2], 0.1)

	_, err = Quantiles(xs, 1.5)
	assert.True(errors.Is(err, model.ErrInvalidConfig))
	_, err = Quantiles(nil, 0.5)
	assert.True(errors.Is(err, model.ErrInvalidConfig))
}

func TestCompareHandCalc(t *testing.T) {
	assert := assert.New(t)

	const eps = 1e-8

	p1 := math.Pow(math.Sqrt(0.75)-math.Sqrt(0.50), 2)
	p2 := math.Pow(math.Sqrt(0.25)-math.Sqrt(0.50), 2)
	hellExp := math.Sqrt(p1+p2) / math.Sqrt2

	/* JS Divergence calc via python with from scipy.stats import entropy
	def jsd(p, q):
		_p = p / norm(p, ord=1)
		_q = q / norm(q, ord=1)
		_m = 0.5 * (_p + _q)
		return 0.5 * (entropy(_p, _m, base=2) + entropy(_q, _m, base=2))
	print(jsd([0.5, 0.5], [0.25, 0.75]))
	*/
	jsExp := 0.0487949406953985

	// Raw counts and probabilities mix freely
	d, err := Compare([]float64{250.0, 750.0}, []float64{42.0, 42.0})
	assert.NoError(err)
	assert.InEpsilon(0.25, d.MeanAbs, eps)
	assert.InEpsilon(0.25, d.MaxAbs, eps)
	assert.InEpsilon(hellExp, d.Hellinger, eps)
	assert.InEpsilon(jsExp, d.JSD, eps)

	d, err = Compare([]float64{0.5, 0.5}, []float64{0.5, 0.5})
	assert.NoError(err)
	assert.Equal(Distance{}, *d)

	// Disjoint support is as far apart as it gets
	d, err = Compare([]float64{1, 0}, []float64{0, 1})
	assert.NoError(err)
	assert.InDelta(1.0, d.Hellinger, eps)
	assert.InDelta(1.0, d.JSD, eps)

	_, err = Compare([]float64{1}, []float64{1, 2})
	assert.True(errors.Is(err, model.ErrInvalidConfig))
	_, err = Compare([]float64{0, 0}, []float64{1, 2})
	assert.True(errors.Is(err, model.ErrNumericDegeneracy))
	_, err = Compare([]float64{-1, 2}, []float64{1, 2})
	assert.True(errors.Is(err, model.ErrInvalidConfig))
}

func TestHistogramVsDensity(t *testing.T) {
	assert := assert.New(t)

	gen, err := rand.NewGenerator(17)
	assert.NoError(err)
	unif := distuv.Uniform{Min: 0, Max: 1, Src: gen}
	xs := make([]float64, 20000)
	for i := range xs {
		xs[i] = unif.Rand()
	}
	xs = append(xs, -1, 2) // outside, so they land nowhere

	hist, err := Histogram(xs, 0, 1, 10)
	assert.NoError(err)
	assert.Len(hist, 10)
	tot := 0.0
	for _, h := range hist {
		assert.InDelta(0.1, h, 0.01)
		tot += h
	}
	assert.InDelta(20000.0/20002.0, tot, 1e-9)

	uniform := func(x float64) float64 { return 1.0 }
	mass, err := DensityBins(uniform, 0, 1, 10)
	assert.NoError(err)
	for _, m := range mass {
		assert.InDelta(0.1, m, 1e-12)
	}

	d, err := Compare(hist, mass)
	assert.NoError(err)
	assert.True(d.Hellinger < 0.02, "%+v", d)

	_, err = Histogram(xs, 1, 0, 10)
	assert.Error(err)
	_, err = Histogram(nil, 0, 1, 10)
	assert.Error(err)
	_, err = DensityBins(uniform, 0, 1, 0)
	assert.Error(err)
}

func TestDrift(t *testing.T) {
	assert := assert.New(t)

	z, err := Drift(normalSeries(23, 4000), 2000)
	assert.NoError(err)
	assert.True(math.Abs(z) < 4.5, "stationary drift %v", z)

	shifted := normalSeries(24, 2000)
	for i := 1000; i < len(shifted); i++ {
		shifted[i] += 5
	}
	z, err = Drift(shifted, 2000)
	assert.NoError(err)
	assert.True(z > 10, "shifted drift %v", z)

	_, err = Drift([]float64{1, 1, 1, 1}, 4)
	assert.True(errors.Is(err, model.ErrNumericDegeneracy))
	_, err = Drift(shifted, 2)
	assert.True(errors.Is(err, model.ErrInvalidConfig))
	_, err = Drift(shifted[:10], 20)
	assert.True(errors.Is(err, model.ErrInvalidConfig))
}
