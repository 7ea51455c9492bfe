package multiphysics

import (
	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/fespace"
)

// MixedPoisson is the first order form of the Poisson problem, an Hdiv
// flux sigma paired with an L2 potential p:
//
//	sigma + grad p = 0,  div sigma = f
//
// weakly: sigma.tau - p div tau, (div sigma - f) q. The solution layout
// carries two subspaces, which exercises multi group composition end to
// end.
type MixedPoisson[T fespace.Scalar] struct {
	dataL, geoL, solL fespace.Layout
	f                 T
}

func NewMixedPoisson[T fespace.Scalar](f float64) (pde *MixedPoisson[T]) {
	pde = &MixedPoisson[T]{
		dataL: fespace.NewLayout(),
		geoL:  GeometryLayout(),
		solL: fespace.NewLayout(
			fespace.SubSpace{Name: "sigma", Kind: fespace.Hdiv, C: 1, D: 3},
			fespace.SubSpace{Name: "p", Kind: fespace.L2, C: 1, D: 3}),
		f: fespace.FromFloat[T](f),
	}
	return
}

func (pde *MixedPoisson[T]) DataLayout() fespace.Layout { return pde.dataL }
func (pde *MixedPoisson[T]) GeoLayout() fespace.Layout  { return pde.geoL }
func (pde *MixedPoisson[T]) SolLayout() fespace.Layout  { return pde.solL }

func (pde *MixedPoisson[T]) Weak(wdetJ T, data, geo, s, coef *fespace.Space[T]) {
	var (
		sig  = s.Value(0)
		dsig = s.Div(0)[0]
		p    = s.Value(1)[0]
		cs   = coef.Value(0)
		cd   = coef.Div(0)
		cp   = coef.Value(1)
	)
	for d := 0; d < 3; d++ {
		cs[d] += wdetJ * sig[d]
	}
	cd[0] -= wdetJ * p
	cp[0] += wdetJ * (dsig - pde.f)
}

func (pde *MixedPoisson[T]) JacVecProduct(wdetJ T, data, geo,
	s *fespace.Space[T]) fem.JacVec[T] {
	return func(p, Jp *fespace.Space[T]) {
		var (
			sig  = p.Value(0)
			dsig = p.Div(0)[0]
			pp   = p.Value(1)[0]
			cs   = Jp.Value(0)
			cd   = Jp.Div(0)
			cp   = Jp.Value(1)
		)
		for d := 0; d < 3; d++ {
			cs[d] += wdetJ * sig[d]
		}
		cd[0] -= wdetJ * pp
		cp[0] += wdetJ * dsig
	}
}
