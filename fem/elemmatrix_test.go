package fem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureSink struct {
	rows, cols []int
	block      []float64
}

func (cs *captureSink) AddValues(rows, cols []int, block []float64) {
	cs.rows = append([]int{}, rows...)
	cs.cols = append([]int{}, cols...)
	cs.block = append([]float64{}, block...)
}

func TestElementMatrixSerial(t *testing.T) {
	var (
		dm, b = twoElemSigned(t)
		cs    = &captureSink{}
		em    = NewElementMatrixSerial[float64](dm, b, cs)
	)
	assert.Equal(t, 2, em.NumElements())
	{ // Unsigned element passes through untouched
		em.AddElementMatrix(0, []float64{1, 2, 3, 4})
		assert.Equal(t, []int{0, 1}, cs.rows)
		assert.Equal(t, []int{0, 1}, cs.cols)
		assert.Equal(t, []float64{1, 2, 3, 4}, cs.block)
	}
	{ // Signed element flips the off-diagonal couplings, sign(i)*sign(j)
		em.AddElementMatrix(1, []float64{1, 2, 3, 4})
		assert.Equal(t, []int{1, 2}, cs.rows)
		assert.Equal(t, []float64{1, -2, -3, 4}, cs.block)
	}
}
