package multiphysics

import (
	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/fespace"
)

// HeatConduction is scalar diffusion with pointwise material data
// (kappa0, q) and a solution dependent conductivity
//
//	kappa(u) = kappa0 * (1 + beta*u^2)
//
// so the directional derivative genuinely depends on the linearization
// point: d(kappa grad u) = kappa grad p + 2 kappa0 beta u p grad u.
type HeatConduction[T fespace.Scalar] struct {
	dataL, geoL, solL fespace.Layout
	beta              T
}

func NewHeatConduction[T fespace.Scalar](beta float64) (pde *HeatConduction[T]) {
	pde = &HeatConduction[T]{
		dataL: fespace.NewLayout(
			fespace.SubSpace{Name: "mat", Kind: fespace.L2, C: 2, D: 3}),
		geoL: GeometryLayout(),
		solL: scalarH1Layout("theta"),
		beta: fespace.FromFloat[T](beta),
	}
	return
}

func (pde *HeatConduction[T]) DataLayout() fespace.Layout { return pde.dataL }
func (pde *HeatConduction[T]) GeoLayout() fespace.Layout  { return pde.geoL }
func (pde *HeatConduction[T]) SolLayout() fespace.Layout  { return pde.solL }

func (pde *HeatConduction[T]) kappa(k0, u T) T {
	return k0 * (fespace.FromFloat[T](1) + pde.beta*u*u)
}

func (pde *HeatConduction[T]) Weak(wdetJ T, data, geo, s, coef *fespace.Space[T]) {
	var (
		k0 = data.Value(0)[0]
		q  = data.Value(0)[1]
		u  = s.Value(0)[0]
		gu = s.Grad(0)
		gc = coef.Grad(0)
		k  = pde.kappa(k0, u)
	)
	coef.Value(0)[0] -= wdetJ * q
	for d := 0; d < 3; d++ {
		gc[d] += wdetJ * k * gu[d]
	}
}

func (pde *HeatConduction[T]) JacVecProduct(wdetJ T, data, geo,
	s *fespace.Space[T]) fem.JacVec[T] {
	var (
		k0 = data.Value(0)[0]
		u  = s.Value(0)[0]
		k  = pde.kappa(k0, u)
		dk = 2 * k0 * pde.beta * u
	)
	return func(p, Jp *fespace.Space[T]) {
		var (
			pv = p.Value(0)[0]
			gp = p.Grad(0)
			gu = s.Grad(0)
			gj = Jp.Grad(0)
		)
		for d := 0; d < 3; d++ {
			gj[d] += wdetJ * (k*gp[d] + dk*pv*gu[d])
		}
	}
}
