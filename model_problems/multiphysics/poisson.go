package multiphysics

import (
	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/fespace"
)

// Poisson is scalar diffusion with a constant volumetric source f:
// grad u . grad v - f v. Linear, no per point data.
type Poisson[T fespace.Scalar] struct {
	dataL, geoL, solL fespace.Layout
	f                 T
}

func NewPoisson[T fespace.Scalar](f float64) (pde *Poisson[T]) {
	pde = &Poisson[T]{
		dataL: fespace.NewLayout(),
		geoL:  GeometryLayout(),
		solL:  scalarH1Layout("u"),
		f:     fespace.FromFloat[T](f),
	}
	return
}

func (pde *Poisson[T]) DataLayout() fespace.Layout { return pde.dataL }
func (pde *Poisson[T]) GeoLayout() fespace.Layout  { return pde.geoL }
func (pde *Poisson[T]) SolLayout() fespace.Layout  { return pde.solL }

func (pde *Poisson[T]) Weak(wdetJ T, data, geo, s, coef *fespace.Space[T]) {
	var (
		gu = s.Grad(0)
		gc = coef.Grad(0)
	)
	coef.Value(0)[0] -= wdetJ * pde.f
	for d := 0; d < 3; d++ {
		gc[d] += wdetJ * gu[d]
	}
}

func (pde *Poisson[T]) JacVecProduct(wdetJ T, data, geo,
	s *fespace.Space[T]) fem.JacVec[T] {
	return func(p, Jp *fespace.Space[T]) {
		var (
			gp = p.Grad(0)
			gj = Jp.Grad(0)
		)
		for d := 0; d < 3; d++ {
			gj[d] += wdetJ * gp[d]
		}
	}
}
