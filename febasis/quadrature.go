package febasis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rule is a concrete quadrature rule: points in the reference domain paired
// with weights.
type Rule struct {
	pts [][]float64
	wts []float64
}

func (r *Rule) NumPoints() int        { return len(r.wts) }
func (r *Rule) Weight(j int) float64  { return r.wts[j] }
func (r *Rule) Point(j int) []float64 { return r.pts[j] }

// GaussLegendre returns the n-point Gauss-Legendre rule on [-1,1], exact for
// polynomials up to degree 2n-1, computed by Golub-Welsch from the symmetric
// tridiagonal Jacobi matrix.
func GaussLegendre(n int) (r *Rule) {
	if n < 1 {
		panic(fmt.Sprintf("gauss rule needs at least one point, have %d", n))
	}
	x, w := jacobiGQ(0, 0, n-1)
	r = &Rule{
		pts: make([][]float64, n),
		wts: w,
	}
	for j := range r.pts {
		r.pts[j] = []float64{x[j]}
	}
	return
}

// HexGauss returns the n^3-point tensor-product Gauss rule on [-1,1]^3 with
// the first coordinate fastest.
func HexGauss(n int) (r *Rule) {
	var (
		line = GaussLegendre(n)
		nq   = n * n * n
	)
	r = &Rule{
		pts: make([][]float64, nq),
		wts: make([]float64, nq),
	}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				q := i + n*(j+n*k)
				r.pts[q] = []float64{line.pts[i][0], line.pts[j][0], line.pts[k][0]}
				r.wts[q] = line.wts[i] * line.wts[j] * line.wts[k]
			}
		}
	}
	return
}

// LobattoNodes returns the p+1 Gauss-Lobatto points on [-1,1] including both
// endpoints, the interpolation nodes of the degree-p Lagrange basis.
func LobattoNodes(p int) []float64 {
	switch p {
	case 0:
		return []float64{0}
	case 1:
		return []float64{-1, 1}
	}
	xint, _ := jacobiGQ(1, 1, p-2)
	x := make([]float64, p+1)
	x[0] = -1
	copy(x[1:p], xint)
	x[p] = 1
	return x
}

// jacobiGQ computes the N+1 Gauss quadrature points and weights for the
// Jacobi polynomial P_(N+1)^(alpha,beta) by eigendecomposition of the
// symmetric tridiagonal recurrence matrix.
func jacobiGQ(alpha, beta float64, N int) (x, w []float64) {
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{gamma0(alpha, beta)}
		return
	}

	h1 := make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: -1/2*(alpha^2-beta^2)/((h1+2)*h1)
	d0 := make([]float64, N+1)
	fac := -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// first off diagonal
	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := newSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)

	VVr := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	w = make([]float64, len(x))
	g0 := gamma0(alpha, beta)
	for i, v := range VVr.RawRowView(0) {
		w[i] = v * v * g0
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func newSymTriDiagonal(d0, d1 []float64) (Tri *mat.SymDense) {
	n := len(d0)
	dd := make([]float64, n*n)
	for i := 0; i < n; i++ {
		dd[i+i*n] = d0[i]
		if i != n-1 {
			dd[i+1+i*n] = d1[i]
		}
	}
	Tri = mat.NewSymDense(n, dd)
	return
}
