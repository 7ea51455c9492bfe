package fem

import "github.com/notargets/gofea/fespace"

// DofMap is the mesh connectivity contract: an immutable mapping from
// (element, basis group, local index) to a global dof index plus the
// orientation sign that reconciles shared-dof orientation across adjacent
// elements.
type DofMap interface {
	NumElements() int
	NumDof() int
	GlobalDof(elem, group, i int) int
	GlobalDofSign(elem, group, i int) int // +1 or -1
}

// Basis is the element basis contract. Interp evaluates local dofs at every
// quadrature point, Add is its adjoint, and AddOuter folds a per-point
// component matrix into a dense element matrix. Group bookkeeping exposes
// the contiguous dof range each basis group owns.
type Basis[T fespace.Scalar] interface {
	NumDof() int
	NumQuad() int
	NumGroups() int
	GroupNdof(g int) int
	GroupOffset(g int) int
	Layout() fespace.Layout
	Interp(dof []T, q *fespace.QptSpace[T])
	Add(q *fespace.QptSpace[T], dof []T)
	AddOuter(j int, qmat, emat []T)
}

// Quadrature is the integration rule contract.
type Quadrature interface {
	NumPoints() int
	Weight(j int) float64
	Point(j int) []float64
}

// JacVec applies the directional derivative of a weak form at a fixed
// linearization point: Jp += J(s)*p. It must be linear in p; callers pass
// a zeroed Jp.
type JacVec[T fespace.Scalar] func(p, Jp *fespace.Space[T])

// PDE is the weak-form contract every physics model implements. Weak adds
// the physical-space coefficient at one quadrature point into a zeroed
// coef; JacVecProduct binds the directional derivative to the
// linearization point s. The returned closure may reference its arguments
// and stays valid until they are next mutated.
type PDE[T fespace.Scalar] interface {
	DataLayout() fespace.Layout
	GeoLayout() fespace.Layout
	SolLayout() fespace.Layout
	Weak(wdetJ T, data, geo, s, coef *fespace.Space[T])
	JacVecProduct(wdetJ T, data, geo, s *fespace.Space[T]) JacVec[T]
}

// MatrixSink receives finished sign-corrected element blocks for global
// sparse assembly. block is row major, len(rows) x len(cols).
type MatrixSink[T fespace.Scalar] interface {
	AddValues(rows, cols []int, block []T)
}

// Strategy identifies the execution model of an element vector.
type Strategy uint8

const (
	StrategySerial Strategy = iota
	StrategyParallel
	StrategyEmpty
)

// ElemVec maps a global dof array to per-element local views with
// sign-corrected gather/scatter. The three lifecycle hooks bracket a batch
// of per-element operations; they only do work for the Parallel strategy.
type ElemVec[T fespace.Scalar] interface {
	NumElements() int
	Strategy() Strategy
	// ElementDof returns working storage for one element's local dofs:
	// a fresh zeroed buffer (Serial) or the element's slab row (Parallel).
	ElementDof(elem int) []T
	GetElementValues(elem int, dof []T)
	AddElementValues(elem int, dof []T)
	SetElementValues(elem int, dof []T)
	InitValues()
	InitZeroValues()
	AddValues()
}

// ElemMat receives finished dense element matrices.
type ElemMat[T fespace.Scalar] interface {
	NumElements() int
	AddElementMatrix(elem int, m []T)
}
