package multiphysics

import (
	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/fespace"
)

// Projection is the identity weak map: the residual coefficient is the
// solution value itself under the quadrature weight, which makes the
// assembled operator the mass matrix action. With a unit solution the
// residual entries sum to the mesh volume.
type Projection[T fespace.Scalar] struct {
	dataL, geoL, solL fespace.Layout
}

// NewProjection builds the model for a field with c components.
func NewProjection[T fespace.Scalar](c int) (pde *Projection[T]) {
	pde = &Projection[T]{
		dataL: fespace.NewLayout(),
		geoL:  GeometryLayout(),
		solL: fespace.NewLayout(
			fespace.SubSpace{Name: "u", Kind: fespace.H1, C: c, D: 3}),
	}
	return
}

func (pde *Projection[T]) DataLayout() fespace.Layout { return pde.dataL }
func (pde *Projection[T]) GeoLayout() fespace.Layout  { return pde.geoL }
func (pde *Projection[T]) SolLayout() fespace.Layout  { return pde.solL }

func (pde *Projection[T]) Weak(wdetJ T, data, geo, s, coef *fespace.Space[T]) {
	var (
		u = s.Value(0)
		v = coef.Value(0)
	)
	for c := range v {
		v[c] += wdetJ * u[c]
	}
}

func (pde *Projection[T]) JacVecProduct(wdetJ T, data, geo,
	s *fespace.Space[T]) fem.JacVec[T] {
	return func(p, Jp *fespace.Space[T]) {
		var (
			pv = p.Value(0)
			jv = Jp.Value(0)
		)
		for c := range jv {
			jv[c] += wdetJ * pv[c]
		}
	}
}
