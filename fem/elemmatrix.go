package fem

import "github.com/notargets/gofea/fespace"

// ElementMatrixSerial forwards finished dense element matrices into a
// global sparse sink, applying the orientation sign of both the row and the
// column dof on the way.
type ElementMatrixSerial[T fespace.Scalar] struct {
	dm   DofMap
	b    Basis[T]
	sink MatrixSink[T]
	rows []int
	neg  []bool
	buf  []T
}

func NewElementMatrixSerial[T fespace.Scalar](dm DofMap, b Basis[T],
	sink MatrixSink[T]) (em *ElementMatrixSerial[T]) {
	nd := b.NumDof()
	em = &ElementMatrixSerial[T]{
		dm: dm, b: b, sink: sink,
		rows: make([]int, nd),
		neg:  make([]bool, nd),
		buf:  make([]T, nd*nd),
	}
	return
}

func (em *ElementMatrixSerial[T]) NumElements() int { return em.dm.NumElements() }

// AddElementMatrix flushes the row-major ndof x ndof block m for element
// elem into the sink as block[i,j]*sign(i)*sign(j).
func (em *ElementMatrixSerial[T]) AddElementMatrix(elem int, m []T) {
	nd := em.b.NumDof()
	for g := 0; g < em.b.NumGroups(); g++ {
		off := em.b.GroupOffset(g)
		for i := 0; i < em.b.GroupNdof(g); i++ {
			em.rows[off+i] = em.dm.GlobalDof(elem, g, i)
			em.neg[off+i] = em.dm.GlobalDofSign(elem, g, i) < 0
		}
	}
	for i := 0; i < nd; i++ {
		for j := 0; j < nd; j++ {
			v := m[i*nd+j]
			if em.neg[i] != em.neg[j] {
				v = -v
			}
			em.buf[i*nd+j] = v
		}
	}
	em.sink.AddValues(em.rows, em.rows, em.buf)
}
