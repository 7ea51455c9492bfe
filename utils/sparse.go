package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK wraps a dictionary-of-keys sparse matrix for global assembly:
// element blocks accumulate into it, then ToCSR freezes the pattern for
// fast products.
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)              { return m.M.Dims() }
func (m DOK) At(i, j int) float64           { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix                 { return m.M.T() }
func (m DOK) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m DOK) Data() []float64 {
	return m.RawMatrix().Data
}

func (m *DOK) SetReadOnly(name string) {
	m.name = name
	m.readOnly = true
}

// AddValues accumulates a row major len(rows) x len(cols) block into the
// global matrix. Zero entries are skipped so the sparsity pattern stays
// tight.
func (m DOK) AddValues(rows, cols []int, block []float64) {
	m.checkWritable()
	if len(block) != len(rows)*len(cols) {
		panic(fmt.Errorf("block size %d does not match %d rows x %d cols",
			len(block), len(rows), len(cols)))
	}
	for i, r := range rows {
		for j, c := range cols {
			if v := block[i*len(cols)+j]; v != 0 {
				m.M.Set(r, c, m.M.At(r, c)+v)
			}
		}
	}
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

// MulVec computes y = A*x.
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
		xv     = mat.NewVecDense(nc, x)
		yv     = mat.NewVecDense(nr, nil)
	)
	yv.MulVec(m.M, xv)
	y = yv.RawVector().Data
	return
}
