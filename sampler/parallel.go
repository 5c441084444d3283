package sampler

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/rand"
)

// Builder creates the initial state and conditionals for one chain. It is
// called once per chain, so chains never share a conditional.
type Builder func() (State, []Conditional, error)

// ModelBuilder returns the Builder for a NORMAL or MIXTURE model
func ModelBuilder(m *model.Model) (Builder, error) {
	if m == nil {
		return nil, model.InvalidConfigf("No model supplied")
	}

	switch m.Type {
	case model.NORMAL:
		return func() (State, []Conditional, error) {
			init, err := NormalInitial(m)
			if err != nil {
				return State{}, nil, err
			}
			conds, err := NormalConditionals(m)
			return init, conds, err
		}, nil

	case model.MIXTURE:
		return func() (State, []Conditional, error) {
			init, err := MixtureInitial(m)
			if err != nil {
				return State{}, nil, err
			}
			conds, err := MixtureConditionals(m)
			return init, conds, err
		}, nil
	}

	return nil, model.InvalidConfigf("Unknown model type %s", m.Type)
}

// RunChains runs one independent chain of n rows per seed, concurrently. Each
// chain owns its generator, so the result for a seed is the same chain
// RunGibbs would produce. Chains come back in seed order. The first failure
// (or ctx cancellation) stops the others between sweeps and no chains are
// returned.
func RunChains(ctx context.Context, seeds []int64, n int, build Builder) ([]*Chain, error) {
	if len(seeds) < 1 {
		return nil, model.InvalidConfigf("At least one seed is required")
	}
	if build == nil {
		return nil, model.InvalidConfigf("A chain builder is required")
	}

	g, ctx := errgroup.WithContext(ctx)
	chains := make([]*Chain, len(seeds))

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			init, conds, err := build()
			if err != nil {
				return errors.Wrapf(err, "Chain %d (seed %d) setup", i, seed)
			}

			gen, err := rand.NewGenerator(seed)
			if err != nil {
				return errors.Wrapf(err, "Chain %d (seed %d) generator", i, seed)
			}

			ch, err := run(ctx, init, n, conds, gen)
			if err != nil {
				return errors.Wrapf(err, "Chain %d (seed %d)", i, seed)
			}
			ch.Seed = seed
			chains[i] = ch
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chains, nil
}
