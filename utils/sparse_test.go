package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOK(t *testing.T) {
	{ // Block accumulation: overlapping adds sum, zeros stay out of the pattern
		m := NewDOK(3, 3)
		m.AddValues([]int{0, 1}, []int{0, 1}, []float64{1, 2, 3, 4})
		m.AddValues([]int{1, 2}, []int{1, 2}, []float64{10, 0, 0, 20})
		assert.Equal(t, 1., m.At(0, 0))
		assert.Equal(t, 14., m.At(1, 1))
		assert.Equal(t, 20., m.At(2, 2))
		assert.Equal(t, 0., m.At(1, 2))
		assert.Equal(t, 5, m.M.NNZ())
	}
	{ // Block dimensions must match the index slices
		m := NewDOK(2, 2)
		assert.Panics(t, func() {
			m.AddValues([]int{0, 1}, []int{0, 1}, []float64{1, 2, 3})
		})
	}
	{ // Read only matrices reject writes
		m := NewDOK(2, 2)
		m.AddValues([]int{0}, []int{0}, []float64{1})
		m.SetReadOnly("stiffness")
		assert.Panics(t, func() {
			m.AddValues([]int{1}, []int{1}, []float64{2})
		})
	}
	{ // Frozen CSR reproduces the accumulated operator
		m := NewDOK(2, 3)
		m.AddValues([]int{0, 1}, []int{0, 2}, []float64{2, -1, 3, 4})
		A := m.ToCSR()
		y := A.MulVec([]float64{1, 5, 2})
		assert.Equal(t, []float64{0, 11}, y)
		nr, nc := A.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 3, nc)
	}
}
