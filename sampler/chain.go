package sampler

import (
	"github.com/pkg/errors"

	"github.com/CraigKelly/gibbs/model"
)

// Chain is the ordered sequence of states produced by one Gibbs run. Row 0 is
// the initial state. The engine appends rows while sampling; once returned a
// Chain is never modified, and every accessor hands back copies.
type Chain struct {
	names  []string
	values []float64 // row major, len(names) values per row
	rows   int
	Seed   int64 // Seed of the generator that produced the chain
}

// newChain allocates storage for capacity rows
func newChain(names []string, capacity int) *Chain {
	return &Chain{
		names:  names,
		values: make([]float64, 0, capacity*len(names)),
	}
}

// appendRow stores a copy of the state's values
func (c *Chain) appendRow(s State) {
	c.values = append(c.values, s.values...)
	c.rows++
}

// Len is the number of rows (iterations) in the chain
func (c *Chain) Len() int {
	return c.rows
}

// Names returns the component names in column order
func (c *Chain) Names() []string {
	return append([]string(nil), c.names...)
}

// Row returns the state at iteration i (0 is the initial state)
func (c *Chain) Row(i int) State {
	if i < 0 || i >= c.rows {
		panic(errors.Errorf("Chain row %d out of range [0, %d)", i, c.rows))
	}
	k := len(c.names)
	return State{
		names:  c.names,
		values: append([]float64(nil), c.values[i*k:(i+1)*k]...),
	}
}

// Initial is the first row of the chain
func (c *Chain) Initial() State {
	return c.Row(0)
}

// Last is the final row of the chain
func (c *Chain) Last() State {
	return c.Row(c.rows - 1)
}

// Column returns every value of the named component in iteration order
func (c *Chain) Column(name string) ([]float64, error) {
	col := -1
	for i, n := range c.names {
		if n == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, model.InvalidConfigf("Chain has no component %s", name)
	}

	k := len(c.names)
	vals := make([]float64, c.rows)
	for i := range vals {
		vals[i] = c.values[i*k+col]
	}
	return vals, nil
}

// Prefix returns a chain over the first n rows. It shares storage with c,
// which is safe because neither is ever modified.
func (c *Chain) Prefix(n int) (*Chain, error) {
	if n < 1 || n > c.rows {
		return nil, model.InvalidConfigf("Prefix length %d out of range [1, %d]", n, c.rows)
	}

	k := len(c.names)
	return &Chain{
		names:  c.names,
		values: c.values[:n*k:n*k],
		rows:   n,
		Seed:   c.Seed,
	}, nil
}

// Drop returns a chain without its first n rows, as used to discard burn in.
// At least one row must remain. Storage is shared with c.
func (c *Chain) Drop(n int) (*Chain, error) {
	if n < 0 || n >= c.rows {
		return nil, model.InvalidConfigf("Cannot drop %d of %d rows", n, c.rows)
	}

	k := len(c.names)
	return &Chain{
		names:  c.names,
		values: c.values[n*k:],
		rows:   c.rows - n,
		Seed:   c.Seed,
	}, nil
}

// PoolColumn concatenates the named column of every chain, in chain order.
// It is the usual way to combine independent chains before summarizing.
func PoolColumn(chains []*Chain, name string) ([]float64, error) {
	if len(chains) < 1 {
		return nil, model.InvalidConfigf("Can not pool 0 chains")
	}

	var pooled []float64
	for i, ch := range chains {
		col, err := ch.Column(name)
		if err != nil {
			return nil, errors.Wrapf(err, "Chain %d", i)
		}
		pooled = append(pooled, col...)
	}

	return pooled, nil
}
