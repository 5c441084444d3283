package buffer

// Circular is a fixed size window over a stream of float64 values. Once full
// it splits into the older and newer halves of the window, in the order the
// values were added.
type Circular struct {
	buffer    []float64 // actual storage
	pos       int       // Next slot to overwrite, which is also the oldest value
	BufSize   int       // BufSize is the fixed number of values maintained in memory
	Count     int       // Count is the number of values in memory. Will always be <= BufSize
	TotalSeen int64     // TotalSeen is the total number of times Add has been called
}

// NewCircular creates a new circular buffer of totalSize. Odd sizes are
// rounded down so the halves match.
func NewCircular(totalSize int) *Circular {
	half := totalSize / 2
	if half < 0 {
		half = 0
	}
	total := half + half

	return &Circular{
		buffer:  make([]float64, total),
		BufSize: total,
	}
}

// Add appends the given value to the buffer, overwriting the oldest entry
func (c *Circular) Add(f float64) {
	c.TotalSeen++
	if c.BufSize < 1 {
		return
	}

	c.buffer[c.pos] = f
	c.pos = (c.pos + 1) % c.BufSize

	if c.Count < c.BufSize {
		c.Count++
	}
}

// Full is true once Add has been called at least BufSize times
func (c *Circular) Full() bool {
	return c.BufSize > 0 && c.Count >= c.BufSize
}

// Halves returns copies of the older and newer halves of the window, each in
// insertion order. Both are nil until the buffer is Full.
func (c *Circular) Halves() ([]float64, []float64) {
	if !c.Full() {
		return nil, nil
	}

	ordered := make([]float64, 0, c.BufSize)
	ordered = append(ordered, c.buffer[c.pos:]...)
	ordered = append(ordered, c.buffer[:c.pos]...)

	half := c.BufSize / 2
	return ordered[:half:half], ordered[half:]
}
