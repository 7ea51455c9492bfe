package fem

import (
	"math/rand"
	"testing"

	"github.com/notargets/gofea/fespace"
	"github.com/stretchr/testify/assert"
)

// cubicWeak is a scalar body with a solution dependent conductivity,
// kappa(u) = 1 + u^2, and a cubic source. Nonlinear in both the value and
// the gradient coupling, which makes it a good oracle workout.
type cubicWeak[T fespace.Scalar] struct {
	dataL, geoL, solL fespace.Layout
}

func newCubicWeak[T fespace.Scalar]() *cubicWeak[T] {
	return &cubicWeak[T]{
		dataL: fespace.NewLayout(),
		geoL:  fespace.NewLayout(fespace.SubSpace{Name: "X", Kind: fespace.H1, C: 3, D: 3}),
		solL:  fespace.NewLayout(fespace.SubSpace{Name: "u", Kind: fespace.H1, C: 1, D: 3}),
	}
}

func (w *cubicWeak[T]) DataLayout() fespace.Layout { return w.dataL }
func (w *cubicWeak[T]) GeoLayout() fespace.Layout  { return w.geoL }
func (w *cubicWeak[T]) SolLayout() fespace.Layout  { return w.solL }

func (w *cubicWeak[T]) Weak(wdetJ T, data, geo, s, coef *fespace.Space[T]) {
	var (
		u  = s.Value(0)[0]
		gu = s.Grad(0)
		gc = coef.Grad(0)
		k  = fespace.FromFloat[T](1) + u*u
	)
	coef.Value(0)[0] += wdetJ * u * u * u
	for d := 0; d < 3; d++ {
		gc[d] += wdetJ * k * gu[d]
	}
}

func (w *cubicWeak[T]) JacVecProduct(wdetJ T, data, geo, s *fespace.Space[T]) JacVec[T] {
	u := s.Value(0)[0]
	return func(p, Jp *fespace.Space[T]) {
		var (
			pv = p.Value(0)[0]
			gp = p.Grad(0)
			gu = s.Grad(0)
			gj = Jp.Grad(0)
			k  = fespace.FromFloat[T](1) + u*u
		)
		Jp.Value(0)[0] += wdetJ * 3 * u * u * pv
		for d := 0; d < 3; d++ {
			gj[d] += wdetJ * (k*gp[d] + 2*u*pv*gu[d])
		}
	}
}

// brokenWeak reuses the cubic body but doubles the value term of its
// directional derivative, a planted inconsistency the check must flag.
type brokenWeak[T fespace.Scalar] struct {
	*cubicWeak[T]
}

func (w brokenWeak[T]) JacVecProduct(wdetJ T, data, geo, s *fespace.Space[T]) JacVec[T] {
	inner := w.cubicWeak.JacVecProduct(wdetJ, data, geo, s)
	u := s.Value(0)[0]
	return func(p, Jp *fespace.Space[T]) {
		inner(p, Jp)
		Jp.Value(0)[0] += wdetJ * 3 * u * u * p.Value(0)[0]
	}
}

func TestCheckDerivativesComplexStep(t *testing.T) {
	// The complex step has no subtractive cancellation; errors sit at
	// machine precision.
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		checks, maxErr := CheckDerivatives[complex128](
			newCubicWeak[complex128](), rnd, DefaultCheckStep)
		assert.Equal(t, 4, len(checks))
		assert.Less(t, maxErr, 1.e-12)
	}
}

func TestCheckDerivativesFiniteDifference(t *testing.T) {
	// Central differencing bottoms out near sqrt(machine eps) for the
	// default step.
	rnd := rand.New(rand.NewSource(2))
	for trial := 0; trial < 10; trial++ {
		checks, maxErr := CheckDerivatives[float64](
			newCubicWeak[float64](), rnd, DefaultCheckStep)
		assert.Equal(t, 4, len(checks))
		for i, c := range checks {
			assert.Equal(t, i, c.Component)
		}
		assert.Less(t, maxErr, 1.e-05)
	}
}

func TestCheckDerivativesCatchesBrokenJacobian(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	pde := brokenWeak[complex128]{newCubicWeak[complex128]()}
	_, maxErr := CheckDerivatives[complex128](pde, rnd, DefaultCheckStep)
	assert.Greater(t, maxErr, 0.1)
}
