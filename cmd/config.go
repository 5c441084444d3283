package cmd

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// envConfig supplies flag defaults, so a batch of runs can be configured from
// the environment and still be overridden per invocation.
type envConfig struct {
	Iterations  int    `env:"GIBBS_ITERATIONS" envDefault:"1000"`
	Seed        int64  `env:"GIBBS_SEED" envDefault:"1"`
	Chains      int    `env:"GIBBS_CHAINS" envDefault:"1"`
	BurnIn      int    `env:"GIBBS_BURN_IN" envDefault:"0"`
	MaxLag      int    `env:"GIBBS_MAX_LAG" envDefault:"20"`
	MonitorAddr string `env:"GIBBS_MONITOR_ADDR" envDefault:":8000"`
}

// loadEnv reads envConfig from the process environment
func loadEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "Could not parse GIBBS_* environment")
	}
	return cfg, nil
}
