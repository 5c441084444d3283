package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircular(t *testing.T) {
	assert := assert.New(t)

	ci := NewCircular(6)
	assert.Equal(6, ci.BufSize)
	assert.Equal(0, ci.Count)

	for i := 1; i <= 5; i++ {
		ci.Add(float64(i))
	}
	assert.Equal(5, ci.Count)
	assert.False(ci.Full())
	older, newer := ci.Halves()
	assert.Nil(older)
	assert.Nil(newer)

	ci.Add(6)
	assert.Equal(6, ci.Count)
	assert.True(ci.Full())
	older, newer = ci.Halves()
	assert.Equal([]float64{1, 2, 3}, older)
	assert.Equal([]float64{4, 5, 6}, newer)

	// 1 2 3 4 5 6 add 8 add 8 => 8 8 3 4 5 6
	// So older=3,4,5 newer=6,8,8
	ci.Add(8)
	ci.Add(8)
	assert.Equal(int64(8), ci.TotalSeen)
	assert.Equal(6, ci.Count)
	older, newer = ci.Halves()
	assert.Equal([]float64{3, 4, 5}, older)
	assert.Equal([]float64{6, 8, 8}, newer)

	// Halves are copies
	older[0] = -1
	again, _ := ci.Halves()
	assert.Equal(3.0, again[0])
}

func TestCircularOddSize(t *testing.T) {
	assert := assert.New(t)

	ci := NewCircular(5)
	assert.Equal(4, ci.BufSize)

	for i := 1; i <= 4; i++ {
		ci.Add(float64(i) / 2)
	}
	older, newer := ci.Halves()
	assert.Equal([]float64{0.5, 1.0}, older)
	assert.Equal([]float64{1.5, 2.0}, newer)

	empty := NewCircular(0)
	empty.Add(1)
	assert.False(empty.Full())
	assert.Equal(int64(1), empty.TotalSeen)
	older, _ = empty.Halves()
	assert.Nil(older)
}
