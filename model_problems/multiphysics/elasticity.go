package multiphysics

import (
	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/fespace"
)

// LinearElasticity is the small strain vector model with pointwise Lame
// data (lambda, mu):
//
//	sigma(u) = 2 mu eps(u) + lambda tr(eps(u)) I,  eps = sym grad u
//
// tested against grad v. The operator is symmetric, so assembled element
// matrices must come out symmetric too.
type LinearElasticity[T fespace.Scalar] struct {
	dataL, geoL, solL fespace.Layout
}

func NewLinearElasticity[T fespace.Scalar]() (pde *LinearElasticity[T]) {
	pde = &LinearElasticity[T]{
		dataL: fespace.NewLayout(
			fespace.SubSpace{Name: "lame", Kind: fespace.L2, C: 2, D: 3}),
		geoL: GeometryLayout(),
		solL: fespace.NewLayout(
			fespace.SubSpace{Name: "u", Kind: fespace.H1, C: 3, D: 3}),
	}
	return
}

func (pde *LinearElasticity[T]) DataLayout() fespace.Layout { return pde.dataL }
func (pde *LinearElasticity[T]) GeoLayout() fespace.Layout  { return pde.geoL }
func (pde *LinearElasticity[T]) SolLayout() fespace.Layout  { return pde.solL }

// addStress accumulates wdetJ*sigma(g) into gout, both 3x3 row major.
func addStress[T fespace.Scalar](wdetJ, lambda, mu T, g, gout []T) {
	var tr T
	for d := 0; d < 3; d++ {
		tr += g[d*3+d]
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sig := mu * (g[r*3+c] + g[c*3+r])
			if r == c {
				sig += lambda * tr
			}
			gout[r*3+c] += wdetJ * sig
		}
	}
}

func (pde *LinearElasticity[T]) Weak(wdetJ T, data, geo, s, coef *fespace.Space[T]) {
	var (
		lambda = data.Value(0)[0]
		mu     = data.Value(0)[1]
	)
	addStress(wdetJ, lambda, mu, s.Grad(0), coef.Grad(0))
}

func (pde *LinearElasticity[T]) JacVecProduct(wdetJ T, data, geo,
	s *fespace.Space[T]) fem.JacVec[T] {
	var (
		lambda = data.Value(0)[0]
		mu     = data.Value(0)[1]
	)
	return func(p, Jp *fespace.Space[T]) {
		addStress(wdetJ, lambda, mu, p.Grad(0), Jp.Grad(0))
	}
}
