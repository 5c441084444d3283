package cmd

import (
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/CraigKelly/gibbs/diag"
	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/sampler"
)

func compareCommand(sp *startupParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Check a normal model's Gibbs theta marginal against a grid posterior",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sp.setup(cmd.OutOrStdout()); err != nil {
				return err
			}
			defer sp.Close()

			return CompareGrid(sp)
		},
	}

	cmd.Flags().IntVar(&sp.gridPoints, "grid-points", 100, "Grid points per axis for the brute force posterior")
	return cmd
}

// gridRanges picks grid bounds wide enough to hold essentially all of the
// posterior: theta within 10 standard errors of the sample mean, precision
// around the mean of its approximate Gamma posterior.
func gridRanges(mod *model.Model) (float64, float64, float64, float64) {
	st := mod.Stats()
	n := float64(st.N)
	p := mod.Prior

	se := math.Sqrt(st.Var / n)
	thetaLo, thetaHi := st.Mean-10*se, st.Mean+10*se

	shape := (p.Nu0 + n) / 2
	rate := (p.Nu0*p.Sigma0Sq + (n-1)*st.Var) / 2
	mean, sd := shape/rate, math.Sqrt(shape)/rate

	precLo := math.Max(mean-6*sd, mean*1e-3)
	precHi := mean + 10*sd

	return thetaLo, thetaHi, precLo, precHi
}

// CompareGrid runs the normal sampler and scores its theta histogram against
// the exact grid posterior
func CompareGrid(sp *startupParams) error {
	mod, err := readModel(sp, model.NORMAL)
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

	kept, err := dropBurnIn(sp, chains)
	if err != nil {
		return err
	}
	theta, err := sampler.PoolColumn(kept, sampler.Theta)
	if err != nil {
		return err
	}

	thetaLo, thetaHi, precLo, precHi := gridRanges(mod)
	sp.out.Printf(
		"Grid: %d points, theta [%.4f, %.4f], precision [%.4f, %.4f]\n",
		sp.gridPoints, thetaLo, thetaHi, precLo, precHi,
	)

	grid, err := model.NewNormalGrid(mod, thetaLo, thetaHi, precLo, precHi, sp.gridPoints)
	if err != nil {
		return errors.Wrap(err, "Could not evaluate grid posterior")
	}

	lo, hi := grid.ThetaEdges()
	hist, err := diag.Histogram(theta, lo, hi, len(grid.Theta))
	if err != nil {
		return err
	}

	dist, err := diag.Compare(hist, grid.ThetaMarginal)
	if err != nil {
		return errors.Wrap(err, "Could not compare chain to grid")
	}

	gridMean := stat.Mean(grid.Theta, grid.ThetaMarginal)
	sp.out.Printf("GIBBS MEAN: %8.5f\n", stat.Mean(theta, nil))
	sp.out.Printf("GRID MEAN : %8.5f\n", gridMean)
	distanceReport(sp, "Gibbs vs Grid", dist)

	return nil
}
