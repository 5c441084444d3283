package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/gibbs/model"
)

// startupParams holds everything the subcommands share: flag values and the
// loggers they report through.
type startupParams struct {
	verbose     bool
	modelFile   string
	iterations  int
	randomSeed  int64
	chains      int
	burnIn      int
	maxLag      int
	traceFile   string
	monitor     bool
	monitorAddr string
	gridPoints  int

	out     *log.Logger
	trace   *log.Logger
	traceFh *os.File
}

// setup checks the flags and opens the output targets
func (sp *startupParams) setup(w io.Writer) error {
	if len(sp.modelFile) < 1 {
		return errors.New("A model file is required (--model)")
	}
	if sp.iterations < 1 {
		return errors.Errorf("Iterations must be >= 1, found %d", sp.iterations)
	}
	if sp.chains < 1 {
		return errors.Errorf("Chains must be >= 1, found %d", sp.chains)
	}
	if sp.burnIn < 0 || sp.burnIn >= sp.iterations {
		return errors.Errorf("Burn in %d must be in [0, %d)", sp.burnIn, sp.iterations)
	}
	if sp.maxLag < 0 {
		return errors.Errorf("Max lag must be >= 0, found %d", sp.maxLag)
	}

	sp.out = log.New(w, "", 0)

	if len(sp.traceFile) > 0 {
		fh, err := os.Create(sp.traceFile)
		if err != nil {
			return errors.Wrapf(err, "Could not create trace file %s", sp.traceFile)
		}
		sp.traceFh = fh
		sp.trace = log.New(fh, "", 0)
	}

	return nil
}

// Close releases the trace file if one was opened
func (sp *startupParams) Close() error {
	if sp.traceFh == nil {
		return nil
	}
	err := sp.traceFh.Close()
	sp.traceFh = nil
	sp.trace = nil
	return err
}

// newRootCmd builds the command tree. Flag defaults come from cfg.
func newRootCmd(cfg envConfig) *cobra.Command {
	sp := &startupParams{}

	rootCmd := &cobra.Command{
		Use:   "gibbs",
		Short: "Two block Gibbs sampling with convergence diagnostics",
		Long: `gibbs draws posterior samples with a Gibbs sampler and reports
convergence diagnostics for the resulting chains.
Among other features:

  - Semiconjugate normal model (mean and precision)
  - Discrete normal mixture (component and location)
  - Autocorrelation, effective sample size, and drift per component
  - Comparison against a brute force grid posterior
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&sp.verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	flags.StringVarP(&sp.modelFile, "model", "m", "", "YAML model file to read")
	flags.IntVarP(&sp.iterations, "iterations", "n", cfg.Iterations, "Rows per chain, including the initial state")
	flags.Int64VarP(&sp.randomSeed, "seed", "r", cfg.Seed, "Random seed for the first chain (chain i uses seed+i)")
	flags.IntVar(&sp.chains, "chains", cfg.Chains, "Number of independent chains to run in parallel")
	flags.IntVar(&sp.burnIn, "burn-in", cfg.BurnIn, "Rows dropped from the start of each chain before diagnostics")
	flags.IntVar(&sp.maxLag, "max-lag", cfg.MaxLag, "Largest lag reported for the autocorrelation function")
	flags.StringVarP(&sp.traceFile, "trace", "t", "", "Write every chain row to this file (tab separated)")
	flags.BoolVar(&sp.monitor, "monitor", false, "Serve progress over HTTP (expvar) while sampling")
	flags.StringVar(&sp.monitorAddr, "monitor-addr", cfg.MonitorAddr, "Listen address for --monitor")

	rootCmd.AddCommand(
		sampleCommand(sp, "normal", model.NORMAL, "Sample the mean and precision of a semiconjugate normal model"),
		sampleCommand(sp, "mixture", model.MIXTURE, "Sample the component and location of a discrete normal mixture"),
		compareCommand(sp),
	)

	return rootCmd
}

// sampleCommand creates a subcommand that samples a model of the given type
func sampleCommand(sp *startupParams, name string, modelType string, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sp.setup(cmd.OutOrStdout()); err != nil {
				return err
			}
			defer sp.Close()

			return RunSampler(sp, modelType)
		},
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	cfg, err := loadEnv()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
