package sampler

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/CraigKelly/gibbs/model"
	"github.com/CraigKelly/gibbs/rand"
)

// ctxCheckRows is how many sweeps run between context checks. A sweep itself
// is never interrupted.
const ctxCheckRows = 1024

// Validate checks a run configuration without sampling anything. Every error
// is an ErrInvalidConfig.
func Validate(initial State, n int, conds []Conditional) error {
	_, err := resolve(initial, n, conds)
	return err
}

// resolve validates the configuration and returns the state index each
// conditional writes.
func resolve(initial State, n int, conds []Conditional) ([]int, error) {
	if n < 1 {
		return nil, model.InvalidConfigf("Iteration count must be >= 1, found %d", n)
	}
	if initial.Len() < 1 {
		return nil, model.InvalidConfigf("Initial state has no components")
	}
	if len(conds) < 1 {
		return nil, model.InvalidConfigf("At least one conditional is required")
	}

	for i, v := range initial.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, model.InvalidConfigf("Initial component %s is not finite", initial.names[i])
		}
	}

	idx := make([]int, len(conds))
	for i, c := range conds {
		if c == nil {
			return nil, model.InvalidConfigf("Conditional %d is nil", i)
		}

		idx[i] = initial.Index(c.Component())
		if idx[i] < 0 {
			return nil, model.InvalidConfigf("Conditional %d updates %s which is not in the state", i, c.Component())
		}

		for _, r := range c.Reads() {
			if initial.Index(r) < 0 {
				return nil, model.InvalidConfigf("Conditional for %s reads %s which is not in the state", c.Component(), r)
			}
		}
	}

	return idx, nil
}

// sweep updates work in place, one conditional at a time, so each draw sees
// every draw made before it in the same sweep.
func sweep(work State, idx []int, conds []Conditional, gen *rand.Generator) error {
	for i, c := range conds {
		v, err := c.Draw(work, gen)
		if err != nil {
			return errors.Wrapf(err, "Drawing %s", c.Component())
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.Degeneracyf("Conditional for %s produced %v", c.Component(), v)
		}
		work.values[idx[i]] = v
	}
	return nil
}

// Sweep is the Gibbs transition: it returns the state following prev after
// drawing every conditional once, in order. prev is not modified. The result
// depends only on prev, the conditionals, and the draws taken from gen.
func Sweep(prev State, conds []Conditional, gen *rand.Generator) (State, error) {
	idx, err := resolve(prev, 1, conds)
	if err != nil {
		return State{}, err
	}

	next := prev.clone()
	if err := sweep(next, idx, conds, gen); err != nil {
		return State{}, err
	}
	return next, nil
}

// RunGibbs produces a chain of exactly n rows. Row 0 is initial, unmodified;
// every later row is one Sweep of the row before it. The chain gets its own
// generator seeded with seed, so identical arguments give identical chains.
func RunGibbs(initial State, n int, conds []Conditional, seed int64) (*Chain, error) {
	gen, err := rand.NewGenerator(seed)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not create generator for seed %d", seed)
	}

	ch, err := run(context.Background(), initial, n, conds, gen)
	if err != nil {
		return nil, err
	}
	ch.Seed = seed
	return ch, nil
}

// RunGibbsWith is RunGibbs with a caller owned generator. The generator must
// not be used by anything else while the chain runs.
func RunGibbsWith(initial State, n int, conds []Conditional, gen *rand.Generator) (*Chain, error) {
	if gen == nil {
		return nil, model.InvalidConfigf("A generator is required")
	}

	ch, err := run(context.Background(), initial, n, conds, gen)
	if err != nil {
		return nil, err
	}
	ch.Seed = gen.Seed
	return ch, nil
}

// run is the sampling loop: a fold of sweep over n-1 iterations. No partial
// chain escapes on error.
func run(ctx context.Context, initial State, n int, conds []Conditional, gen *rand.Generator) (*Chain, error) {
	idx, err := resolve(initial, n, conds)
	if err != nil {
		return nil, err
	}

	ch := newChain(initial.Names(), n)
	ch.appendRow(initial)

	work := initial.clone()
	for s := 1; s < n; s++ {
		if s%ctxCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrapf(err, "Chain stopped at iteration %d", s)
			}
		}

		if err := sweep(work, idx, conds, gen); err != nil {
			return nil, errors.Wrapf(err, "Iteration %d", s)
		}
		ch.appendRow(work)
	}

	return ch, nil
}
