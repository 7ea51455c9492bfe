package febasis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gofea/fespace"
)

// hexNodes lists the tensor-product node coordinates of the degree-p hex in
// local dof order, first coordinate fastest.
func hexNodes(p int) (pts [][3]float64) {
	var (
		x  = LobattoNodes(p)
		n1 = p + 1
	)
	pts = make([][3]float64, n1*n1*n1)
	for k := 0; k < n1; k++ {
		for j := 0; j < n1; j++ {
			for i := 0; i < n1; i++ {
				pts[i+n1*(j+n1*k)] = [3]float64{x[i], x[j], x[k]}
			}
		}
	}
	return
}

func TestHexH1PartitionOfUnity(t *testing.T) {
	for p := 1; p <= 3; p++ {
		var (
			r   = HexGauss(p + 1)
			b   = NewFEBasis[float64](NewHexH1Group("u", p, 1, r))
			dof = make([]float64, b.NumDof())
			q   = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
		)
		for i := range dof {
			dof[i] = 1
		}
		b.Interp(dof, q)
		for j := 0; j < b.NumQuad(); j++ {
			sp := q.Get(j)
			assert.True(t, near(sp.Value(0)[0], 1))
			for _, g := range sp.Grad(0) {
				assert.InDelta(t, 0, g, 1.e-10)
			}
		}
	}
}

func TestHexH1LinearExactness(t *testing.T) {
	var (
		p     = 2
		r     = HexGauss(3)
		b     = NewFEBasis[float64](NewHexH1Group("u", p, 1, r))
		nodes = hexNodes(p)
		dof   = make([]float64, b.NumDof())
		q     = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
		f     = func(x, y, z float64) float64 { return 2 + 3*x - y + 0.5*z }
	)
	for n, pt := range nodes {
		dof[n] = f(pt[0], pt[1], pt[2])
	}
	b.Interp(dof, q)
	for j := 0; j < b.NumQuad(); j++ {
		var (
			pt = r.Point(j)
			sp = q.Get(j)
		)
		assert.InDelta(t, f(pt[0], pt[1], pt[2]), sp.Value(0)[0], 1.e-11)
		assert.InDelta(t, 3, sp.Grad(0)[0], 1.e-11)
		assert.InDelta(t, -1, sp.Grad(0)[1], 1.e-11)
		assert.InDelta(t, 0.5, sp.Grad(0)[2], 1.e-11)
	}
}

func TestHexH1VectorComponents(t *testing.T) {
	// Three displacement components interleave as node*C + c
	var (
		r     = HexGauss(2)
		b     = NewFEBasis[float64](NewHexH1Group("disp", 1, 3, r))
		nodes = hexNodes(1)
		dof   = make([]float64, b.NumDof())
		q     = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
	)
	assert.Equal(t, 24, b.NumDof())
	for n, pt := range nodes {
		dof[n*3+0] = pt[0]
		dof[n*3+1] = 2 * pt[1]
		dof[n*3+2] = pt[0] + pt[2]
	}
	b.Interp(dof, q)
	for j := 0; j < b.NumQuad(); j++ {
		var (
			pt = r.Point(j)
			sp = q.Get(j)
			gd = sp.Grad(0)
		)
		assert.InDelta(t, pt[0], sp.Value(0)[0], 1.e-12)
		assert.InDelta(t, 2*pt[1], sp.Value(0)[1], 1.e-12)
		assert.InDelta(t, pt[0]+pt[2], sp.Value(0)[2], 1.e-12)
		// rows of the gradient: d(u_c)/d(x_d) at c*3+d
		assert.InDelta(t, 1, gd[0*3+0], 1.e-12)
		assert.InDelta(t, 2, gd[1*3+1], 1.e-12)
		assert.InDelta(t, 1, gd[2*3+0], 1.e-12)
		assert.InDelta(t, 1, gd[2*3+2], 1.e-12)
		assert.InDelta(t, 0, gd[0*3+1], 1.e-12)
	}
}

func TestHexL2Constant(t *testing.T) {
	var (
		r = HexGauss(2)
		b = NewFEBasis[float64](NewHexL2Group("data", 0, 2, r))
		q = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
	)
	assert.Equal(t, 2, b.NumDof())
	b.Interp([]float64{3.5, -1.25}, q)
	for j := 0; j < b.NumQuad(); j++ {
		assert.True(t, near(q.Get(j).Value(0)[0], 3.5))
		assert.True(t, near(q.Get(j).Value(0)[1], -1.25))
	}
}

func TestAddIsAdjointOfInterp(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(11))
		r   = HexGauss(2)
		b   = NewFEBasis[float64](
			NewHexH1Group("u", 1, 2, r),
			NewHexL2Group("rho", 1, 1, r),
		)
		u    = make([]float64, b.NumDof())
		proj = make([]float64, b.NumDof())
		qu   = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
		y    = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
	)
	for i := range u {
		u[i] = 2*rnd.Float64() - 1
	}
	for j := 0; j < b.NumQuad(); j++ {
		for c := range y.Get(j).Comp {
			y.Get(j).Comp[c] = 2*rnd.Float64() - 1
		}
	}
	b.Interp(u, qu)
	b.Add(y, proj)
	var lhs, rhs float64
	for j := 0; j < b.NumQuad(); j++ {
		for c := range y.Get(j).Comp {
			lhs += qu.Get(j).Comp[c] * y.Get(j).Comp[c]
		}
	}
	for i := range u {
		rhs += u[i] * proj[i]
	}
	assert.InDelta(t, lhs, rhs, 1.e-12)
}

func TestAddOuterMatchesQuadraticForm(t *testing.T) {
	// v^T (B^T qmat B) u must equal (B v)^T qmat (B u) at the same point
	var (
		rnd = rand.New(rand.NewSource(5))
		r   = HexGauss(2)
		b   = NewFEBasis[float64](
			NewHexH1Group("u", 1, 1, r),
			NewHexL2Group("rho", 0, 1, r),
		)
		nc   = b.Layout().NumComp()
		nd   = b.NumDof()
		qmat = make([]float64, nc*nc)
		emat = make([]float64, nd*nd)
		u    = make([]float64, nd)
		v    = make([]float64, nd)
		qu   = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
		qv   = fespace.NewQptSpace[float64](b.NumQuad(), b.Layout())
		j    = 3
	)
	for i := range qmat {
		qmat[i] = 2*rnd.Float64() - 1
	}
	for i := range u {
		u[i] = 2*rnd.Float64() - 1
		v[i] = 2*rnd.Float64() - 1
	}
	b.AddOuter(j, qmat, emat)
	b.Interp(u, qu)
	b.Interp(v, qv)

	var lhs float64
	for i := 0; i < nd; i++ {
		for jd := 0; jd < nd; jd++ {
			lhs += v[i] * emat[i*nd+jd] * u[jd]
		}
	}
	var rhs float64
	for c1 := 0; c1 < nc; c1++ {
		for c2 := 0; c2 < nc; c2++ {
			rhs += qv.Get(j).Comp[c1] * qmat[c1*nc+c2] * qu.Get(j).Comp[c2]
		}
	}
	assert.InDelta(t, lhs, rhs, 1.e-12)
}

func TestComposedOffsets(t *testing.T) {
	var (
		r  = HexGauss(2)
		h1 = NewHexH1Group("u", 1, 1, r)
		l2 = NewHexL2Group("rho", 0, 1, r)
		b  = NewFEBasis[float64](h1, l2)
	)
	assert.Equal(t, 2, b.NumGroups())
	assert.Equal(t, 8, b.GroupNdof(0))
	assert.Equal(t, 1, b.GroupNdof(1))
	assert.Equal(t, 0, b.GroupOffset(0))
	assert.Equal(t, 8, b.GroupOffset(1))
	assert.Equal(t, 9, b.NumDof())
	assert.Equal(t, 5, b.Layout().NumComp()) // 1 value + 3 gradient + 1 L2 value

	// mismatched point counts are a construction error
	assert.Panics(t, func() {
		NewFEBasis[float64](h1, NewHexL2Group("rho", 0, 1, HexGauss(3)))
	})
}

func TestEmptyBasis(t *testing.T) {
	var (
		b   = NewEmptyBasis[float64](8)
		q   = fespace.NewQptSpace[float64](8, b.Layout())
		dof []float64
	)
	assert.Equal(t, 0, b.NumDof())
	assert.Equal(t, 8, b.NumQuad())
	assert.Equal(t, 0, b.NumGroups())
	assert.Equal(t, 0, b.Layout().NumComp())
	b.Interp(dof, q)
	b.Add(q, dof)
}
