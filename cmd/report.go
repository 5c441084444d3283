package cmd

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/CraigKelly/gibbs/diag"
	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/sampler"
)

// reportQuantiles are the probabilities shown for every component
var reportQuantiles = []float64{0.025, 0.25, 0.5, 0.75, 0.975}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// dropBurnIn removes the burn in rows from every chain
func dropBurnIn(sp *startupParams, chains []*sampler.Chain) ([]*sampler.Chain, error) {
	kept := make([]*sampler.Chain, len(chains))
	for i, ch := range chains {
		k, err := ch.Drop(sp.burnIn)
		if err != nil {
			return nil, err
		}
		kept[i] = k
	}
	return kept, nil
}

// isConstant reports whether err says a series had no variation. That is an
// answer about the chain, not a failure to compute one.
func isConstant(err error) bool {
	return errors.Is(err, model.ErrNumericDegeneracy)
}

// chainReport writes the per component summary for a set of chains
func chainReport(sp *startupParams, chains []*sampler.Chain, mon *monitor) error {
	kept, err := dropBurnIn(sp, chains)
	if err != nil {
		return err
	}

	names := kept[0].Names()
	rows := kept[0].Len()

	sp.out.Printf("--------------------------------------------------\n")
	sp.out.Printf("Diagnostics on %d row(s) per chain after %d burn in\n", rows, sp.burnIn)

	for _, name := range names {
		pooled, err := sampler.PoolColumn(kept, name)
		if err != nil {
			return err
		}

		qs, err := diag.Quantiles(pooled, reportQuantiles...)
		if err != nil {
			return errors.Wrapf(err, "Quantiles for %s", name)
		}
		qtxt := make([]string, len(qs))
		for i, q := range qs {
			qtxt[i] = strconv.FormatFloat(reportQuantiles[i]*100, 'g', -1, 64) + "%:" + strconv.FormatFloat(q, 'f', 4, 64)
		}
		sp.out.Printf("%-10s | Mean:%9.4f | %s\n", name, stat.Mean(pooled, nil), strings.Join(qtxt, " "))

		// A single row has no autocorrelation to speak of
		if rows < 2 {
			sp.out.Printf("%-10s | ESS: too few rows (%d) for ESS/ACF\n", name, rows)
			continue
		}

		// ESS adds across independent chains
		totalESS := 0.0
		constant := false
		for _, ch := range kept {
			col, err := ch.Column(name)
			if err != nil {
				return err
			}
			ess, err := diag.EffectiveSampleSize(col)
			if isConstant(err) {
				constant = true
				break
			} else if err != nil {
				return errors.Wrapf(err, "ESS for %s", name)
			}
			totalESS += ess
		}

		if constant {
			sp.out.Printf("%-10s | ESS: chain is constant (no mixing to measure)\n", name)
			continue
		}
		sp.out.Printf("%-10s | ESS:%10.1f of %d draws (%.1f%%)\n", name, totalESS, len(pooled), 100*totalESS/float64(len(pooled)))
		if mon != nil {
			mon.LastESS.Set(name, expvarFloat(totalESS))
		}

		if err := lagReport(sp, kept[0], name); err != nil {
			return err
		}
	}

	sp.out.Printf("--------------------------------------------------\n")
	return nil
}

// lagReport prints the ACF and drift of one chain's component, plus the ESS
// trace in verbose mode. The chain has already had burn in dropped.
func lagReport(sp *startupParams, ch *sampler.Chain, name string) error {
	col, err := ch.Column(name)
	if err != nil {
		return err
	}

	maxLag := sp.maxLag
	if maxLag >= len(col) {
		maxLag = len(col) - 1
	}

	acf, err := diag.Autocorrelation(col, maxLag)
	if isConstant(err) {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "ACF for %s", name)
	}

	if sp.verbose {
		for _, lag := range acf {
			sp.out.Printf("%-10s | ACF lag %4d: %8.4f\n", name, lag.Lag, lag.Value)
		}
	} else {
		parts := []string{}
		for _, lag := range acf {
			if lag.Lag == 0 {
				continue
			}
			parts = append(parts, strconv.FormatFloat(lag.Value, 'f', 3, 64))
			if len(parts) >= 5 {
				break
			}
		}
		sp.out.Printf("%-10s | ACF(1..%d): %s\n", name, len(parts), strings.Join(parts, " "))
	}

	window := len(col) - len(col)%2
	if window >= 4 {
		z, err := diag.Drift(col, window)
		if err == nil {
			sp.out.Printf("%-10s | Drift z:%7.3f (seed %d)\n", name, z, ch.Seed)
		} else if !isConstant(err) {
			return errors.Wrapf(err, "Drift for %s", name)
		}
	}

	if sp.verbose && len(col) >= 20 {
		trace, err := diag.ESSTrace(col, len(col)/10)
		if err != nil && !isConstant(err) {
			return errors.Wrapf(err, "ESS trace for %s", name)
		}
		for _, pt := range trace {
			sp.out.Printf("%-10s | ESS after %8d: %10.1f\n", name, pt.N, pt.ESS)
		}
	}

	return nil
}

// distanceReport prints a Distance the way we always have: raw and as
// negative log2 so small errors are easy to compare
func distanceReport(sp *startupParams, prefix string, d *diag.Distance) {
	sp.out.Printf(
		"%s | MeanAE:%9.6f MaxAE:%9.6f Hel:%9.6f JSD:%9.6f\n",
		prefix, d.MeanAbs, d.MaxAbs, d.Hellinger, d.JSD,
	)
	sp.out.Printf(
		"%s NLog | MeanAE:%7.3f MaxAE:%7.3f Hel:%7.3f JSD:%7.3f\n",
		prefix,
		-math.Log2(d.MeanAbs),
		-math.Log2(d.MaxAbs),
		-math.Log2(d.Hellinger),
		-math.Log2(d.JSD),
	)
}
