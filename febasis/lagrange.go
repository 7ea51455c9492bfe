package febasis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// lagrange1D evaluates the 1D Lagrange cardinal functions of a node set
// through monomial coefficients, the columns of the inverted Vandermonde
// matrix.
type lagrange1D struct {
	nodes []float64
	coef  *mat.Dense // coef.At(m, i) is the x^m coefficient of l_i
}

func newLagrange1D(nodes []float64) (lb *lagrange1D) {
	var (
		n = len(nodes)
		v = mat.NewDense(n, n, nil)
	)
	for a := 0; a < n; a++ {
		pw := 1.
		for b := 0; b < n; b++ {
			v.Set(a, b, pw)
			pw *= nodes[a]
		}
	}
	lb = &lagrange1D{
		nodes: nodes,
		coef:  mat.NewDense(n, n, nil),
	}
	if err := lb.coef.Inverse(v); err != nil {
		panic(fmt.Sprintf("lagrange vandermonde not invertible: %v", err))
	}
	return
}

func (lb *lagrange1D) n() int { return len(lb.nodes) }

// Eval returns l_i(x), the cardinal function that is 1 at node i and 0 at
// the others.
func (lb *lagrange1D) Eval(i int, x float64) (val float64) {
	pw := 1.
	for m := 0; m < lb.n(); m++ {
		val += lb.coef.At(m, i) * pw
		pw *= x
	}
	return
}

// Deriv returns l_i'(x).
func (lb *lagrange1D) Deriv(i int, x float64) (val float64) {
	pw := 1.
	for m := 1; m < lb.n(); m++ {
		val += float64(m) * lb.coef.At(m, i) * pw
		pw *= x
	}
	return
}
