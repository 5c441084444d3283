package cmd

import (
	"context"
	"expvar"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/rand"
	"github.com/CraigKelly/gibbs/sampler"
)

// RunSampler reads the model, runs the chains, and reports diagnostics
func RunSampler(sp *startupParams, modelType string) error {
	mod, err := readModel(sp, modelType)
	if err != nil {
		return err
	}

	var mon *monitor
	if sp.monitor {
		mon = &monitor{}
		if err := mon.Start(sp.monitorAddr); err != nil {
			return err
		}
		defer mon.Stop()
	}

	chains, err := runChains(sp, mod, mon)
	if err != nil {
		return err
	}

	if err := writeTrace(sp, chains); err != nil {
		return err
	}

	return chainReport(sp, chains, mon)
}

// readModel reads the model file and insists it is of the given type
func readModel(sp *startupParams, modelType string) (*model.Model, error) {
	sp.out.Printf("Reading model from %s\n", sp.modelFile)
	mod, err := model.NewModelFromFile(model.YAMLReader{}, sp.modelFile)
	if err != nil {
		return nil, err
	}

	if mod.Type != modelType {
		return nil, errors.Errorf(
			"Model %s is %s but this command samples %s models",
			mod.Name, mod.Type, modelType,
		)
	}

	switch mod.Type {
	case model.NORMAL:
		st := mod.Stats()
		sp.out.Printf("Model %s has %d observations: mean %.4f, variance %.5f\n", mod.Name, st.N, st.Mean, st.Var)
	case model.MIXTURE:
		sp.out.Printf("Model %s has %d mixture components\n", mod.Name, mod.Mixture.Components())
	}

	return mod, nil
}

// countingConditional bumps a shared counter on every draw. It wraps the
// first conditional of a sweep so the counter tracks completed sweeps.
type countingConditional struct {
	sampler.Conditional
	sweeps *expvar.Int
}

// Draw implements sampler.Conditional
func (c countingConditional) Draw(cur sampler.State, gen *rand.Generator) (float64, error) {
	c.sweeps.Add(1)
	return c.Conditional.Draw(cur, gen)
}

// runChains runs sp.chains independent chains with consecutive seeds
func runChains(sp *startupParams, mod *model.Model, mon *monitor) ([]*sampler.Chain, error) {
	build, err := sampler.ModelBuilder(mod)
	if err != nil {
		return nil, err
	}

	if mon != nil {
		inner := build
		build = func() (sampler.State, []sampler.Conditional, error) {
			init, conds, err := inner()
			if err == nil && len(conds) > 0 {
				conds[0] = countingConditional{conds[0], mon.Iterations}
			}
			return init, conds, err
		}
		mon.Chains.Set(int64(sp.chains))
		mon.MaxIters.Set(int64(sp.iterations))
		mon.BurnIn.Set(int64(sp.burnIn))
	}

	seeds := make([]int64, sp.chains)
	for i := range seeds {
		seeds[i] = sp.randomSeed + int64(i)
	}

	sp.out.Printf("Running %d chain(s) of %d iterations from seed %d\n", sp.chains, sp.iterations, sp.randomSeed)

	start := time.Now()
	chains, err := sampler.RunChains(context.Background(), seeds, sp.iterations, build)
	if err != nil {
		return nil, errors.Wrap(err, "Sampling failed")
	}
	elapsed := time.Since(start).Seconds()

	if mon != nil {
		mon.RunTime.Set(elapsed)
		mon.TotalSamples.Set(int64(sp.chains * sp.iterations))
	}
	if sp.verbose {
		sp.out.Printf("Sampling took %.3fs\n", elapsed)
	}

	return chains, nil
}

// writeTrace dumps every row of every chain to the trace file, if any
func writeTrace(sp *startupParams, chains []*sampler.Chain) error {
	if sp.trace == nil {
		return nil
	}

	sp.out.Printf("Writing chains to trace file %s\n", sp.traceFile)

	names := chains[0].Names()
	sp.trace.Printf("chain\tseed\titer\t%s\n", strings.Join(names, "\t"))

	for c, ch := range chains {
		cols := make([][]float64, len(names))
		for i, name := range names {
			col, err := ch.Column(name)
			if err != nil {
				return err
			}
			cols[i] = col
		}

		var row strings.Builder
		for r := 0; r < ch.Len(); r++ {
			row.Reset()
			for i := range cols {
				if i > 0 {
					row.WriteByte('\t')
				}
				row.WriteString(formatFloat(cols[i][r]))
			}
			sp.trace.Printf("%d\t%d\t%d\t%s\n", c, ch.Seed, r, row.String())
		}
	}

	return nil
}
