package febasis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestGaussLegendre(t *testing.T) {
	{ // Weights integrate 1 over [-1,1]
		for n := 1; n <= 6; n++ {
			r := GaussLegendre(n)
			assert.Equal(t, n, r.NumPoints())
			var sum float64
			for j := 0; j < r.NumPoints(); j++ {
				sum += r.Weight(j)
			}
			assert.True(t, near(sum, 2))
		}
	}
	{ // Exact for degree 2n-1: integrate x^4 with n=3
		r := GaussLegendre(3)
		var sum float64
		for j := 0; j < r.NumPoints(); j++ {
			x := r.Point(j)[0]
			sum += r.Weight(j) * x * x * x * x
		}
		assert.True(t, near(sum, 2./5.))
	}
	{ // Nodes and weights match the gonum fixed-location rule
		for n := 2; n <= 5; n++ {
			var (
				r  = GaussLegendre(n)
				xs = make([]float64, n)
				ws = make([]float64, n)
			)
			quad.Legendre{}.FixedLocations(xs, ws, -1, 1)
			for j := 0; j < n; j++ {
				assert.InDelta(t, xs[j], r.Point(j)[0], 1.e-12)
				assert.InDelta(t, ws[j], r.Weight(j), 1.e-12)
			}
		}
	}
}

func TestHexGauss(t *testing.T) {
	r := HexGauss(2)
	assert.Equal(t, 8, r.NumPoints())
	var sum float64
	for j := 0; j < r.NumPoints(); j++ {
		assert.True(t, near(r.Weight(j), 1))
		sum += r.Weight(j)
	}
	assert.True(t, near(sum, 8)) // volume of [-1,1]^3

	// point ordering: first coordinate fastest
	g := 1 / math.Sqrt(3.)
	assert.InDelta(t, -g, r.Point(0)[0], 1.e-14)
	assert.InDelta(t, g, r.Point(1)[0], 1.e-14)
	assert.InDelta(t, -g, r.Point(0)[1], 1.e-14)
	assert.InDelta(t, g, r.Point(2)[1], 1.e-14)
	assert.InDelta(t, g, r.Point(4)[2], 1.e-14)

	// integrate x^2*y^2*z^2 over the cube: (2/3)^3
	var acc float64
	for j := 0; j < r.NumPoints(); j++ {
		p := r.Point(j)
		acc += r.Weight(j) * p[0] * p[0] * p[1] * p[1] * p[2] * p[2]
	}
	assert.True(t, near(acc, 8./27.))
}

func TestLobattoNodes(t *testing.T) {
	assert.Equal(t, []float64{0}, LobattoNodes(0))
	assert.Equal(t, []float64{-1, 1}, LobattoNodes(1))

	x2 := LobattoNodes(2)
	assert.Equal(t, 3, len(x2))
	assert.True(t, near(x2[0], -1) && near(x2[1], 0) && near(x2[2], 1))

	// degree 4: endpoints, symmetry, interior at +-sqrt(3/7)
	x4 := LobattoNodes(4)
	assert.Equal(t, 5, len(x4))
	assert.True(t, near(x4[0], -1) && near(x4[4], 1))
	assert.True(t, near(x4[1], -math.Sqrt(3./7.)))
	assert.True(t, near(x4[2], 0))
	assert.True(t, near(x4[3], math.Sqrt(3./7.)))
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Max(math.Abs(a), 1) {
		l = true
	}
	return
}
