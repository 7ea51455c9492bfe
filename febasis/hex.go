package febasis

import (
	"fmt"

	"github.com/notargets/gofea/fespace"
)

// HexH1Group is the degree-p tensor-product Lagrange basis on the reference
// hex [-1,1]^3 with C field components and nodes at the Gauss-Lobatto
// points. Local dof ordering is node*C + c, node index i + (p+1)*(j + (p+1)*k)
// with i fastest along the first coordinate. Shape values and reference
// gradients are tabulated against the quadrature rule at construction.
type HexH1Group struct {
	P, C int
	name string
	ndof int
	tab  [][]float64
}

func NewHexH1Group(name string, p, c int, r *Rule) (hg *HexH1Group) {
	if p < 1 {
		panic(fmt.Sprintf("hex H1 basis needs degree >= 1, have %d", p))
	}
	var (
		lb    = newLagrange1D(LobattoNodes(p))
		n1    = p + 1
		nnode = n1 * n1 * n1
	)
	hg = &HexH1Group{
		P:    p,
		C:    c,
		name: name,
		ndof: c * nnode,
		tab:  hexTables(lb, c, true, r),
	}
	return
}

func (hg *HexH1Group) Sub() fespace.SubSpace {
	return fespace.SubSpace{Name: hg.name, Kind: fespace.H1, C: hg.C, D: 3}
}
func (hg *HexH1Group) NumDof() int           { return hg.ndof }
func (hg *HexH1Group) NumQuad() int          { return len(hg.tab) }
func (hg *HexH1Group) Table(q int) []float64 { return hg.tab[q] }

// HexL2Group is the discontinuous degree-q tensor-product Lagrange basis on
// the reference hex with C components and nodes at the interior Gauss
// points. Dof ordering matches HexH1Group: node*C + c, first coordinate
// fastest.
type HexL2Group struct {
	Q, C int
	name string
	ndof int
	tab  [][]float64
}

func NewHexL2Group(name string, q, c int, r *Rule) (lg *HexL2Group) {
	if q < 0 {
		panic(fmt.Sprintf("hex L2 basis needs degree >= 0, have %d", q))
	}
	var (
		line  = GaussLegendre(q + 1)
		nodes = make([]float64, q+1)
	)
	for i := range nodes {
		nodes[i] = line.Point(i)[0]
	}
	var (
		lb    = newLagrange1D(nodes)
		n1    = q + 1
		nnode = n1 * n1 * n1
	)
	lg = &HexL2Group{
		Q:    q,
		C:    c,
		name: name,
		ndof: c * nnode,
		tab:  hexTables(lb, c, false, r),
	}
	return
}

func (lg *HexL2Group) Sub() fespace.SubSpace {
	return fespace.SubSpace{Name: lg.name, Kind: fespace.L2, C: lg.C, D: 3}
}
func (lg *HexL2Group) NumDof() int           { return lg.ndof }
func (lg *HexL2Group) NumQuad() int          { return len(lg.tab) }
func (lg *HexL2Group) Table(q int) []float64 { return lg.tab[q] }

// hexTables tabulates the tensor-product shape functions of lb at every
// point of r. With gradients the rows per point are C values then the C x 3
// reference gradient; without, C values only.
func hexTables(lb *lagrange1D, c int, gradients bool, r *Rule) (tab [][]float64) {
	var (
		n1    = lb.n()
		nnode = n1 * n1 * n1
		ndof  = c * nnode
		ncomp = c
	)
	if gradients {
		ncomp = c * 4
	}
	if r.NumPoints() == 0 || len(r.Point(0)) != 3 {
		panic("hex basis needs a three dimensional quadrature rule")
	}
	var (
		lx = make([]float64, n1)
		ly = make([]float64, n1)
		lz = make([]float64, n1)
		dx = make([]float64, n1)
		dy = make([]float64, n1)
		dz = make([]float64, n1)
	)
	tab = make([][]float64, r.NumPoints())
	for q := range tab {
		pt := r.Point(q)
		for i := 0; i < n1; i++ {
			lx[i], dx[i] = lb.Eval(i, pt[0]), lb.Deriv(i, pt[0])
			ly[i], dy[i] = lb.Eval(i, pt[1]), lb.Deriv(i, pt[1])
			lz[i], dz[i] = lb.Eval(i, pt[2]), lb.Deriv(i, pt[2])
		}
		tq := make([]float64, ncomp*ndof)
		for k := 0; k < n1; k++ {
			for j := 0; j < n1; j++ {
				for i := 0; i < n1; i++ {
					var (
						node = i + n1*(j+n1*k)
						val  = lx[i] * ly[j] * lz[k]
					)
					for cc := 0; cc < c; cc++ {
						dof := node*c + cc
						tq[cc*ndof+dof] = val
						if gradients {
							tq[(c+cc*3+0)*ndof+dof] = dx[i] * ly[j] * lz[k]
							tq[(c+cc*3+1)*ndof+dof] = lx[i] * dy[j] * lz[k]
							tq[(c+cc*3+2)*ndof+dof] = lx[i] * ly[j] * dz[k]
						}
					}
				}
			}
		}
		tab[q] = tq
	}
	return
}
