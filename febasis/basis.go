package febasis

import (
	"fmt"

	"github.com/notargets/gofea/fespace"
)

// Group is one basis group: the shape functions of a single subspace,
// tabulated per quadrature point. Table(q) is the component-by-dof map at
// point q, row major, so that subspace components = Table(q) * local dofs.
type Group interface {
	Sub() fespace.SubSpace
	NumDof() int
	NumQuad() int
	Table(q int) []float64
}

// FEBasis composes basis groups into the element basis the assembly engine
// consumes. Each group owns a contiguous dof range and a contiguous
// component range; group order defines both. Tables are converted to the
// working scalar type once, at construction.
type FEBasis[T fespace.Scalar] struct {
	groups []Group
	layout fespace.Layout
	ndof   int
	nq     int
	doff   []int
	tabs   [][][]T // [group][point][comp*groupNdof + dof]
}

func NewFEBasis[T fespace.Scalar](groups ...Group) (b *FEBasis[T]) {
	if len(groups) == 0 {
		panic("element basis needs at least one group")
	}
	var (
		subs = make([]fespace.SubSpace, len(groups))
		doff = make([]int, len(groups))
		ndof int
		nq   = groups[0].NumQuad()
	)
	for g, grp := range groups {
		if grp.NumQuad() != nq {
			panic(fmt.Sprintf("basis group %d tabulated on %d quadrature points, group 0 on %d",
				g, grp.NumQuad(), nq))
		}
		subs[g] = grp.Sub()
		doff[g] = ndof
		ndof += grp.NumDof()
	}
	b = &FEBasis[T]{
		groups: groups,
		layout: fespace.NewLayout(subs...),
		ndof:   ndof,
		nq:     nq,
		doff:   doff,
		tabs:   make([][][]T, len(groups)),
	}
	for g, grp := range groups {
		b.tabs[g] = make([][]T, nq)
		for q := 0; q < nq; q++ {
			src := grp.Table(q)
			dst := make([]T, len(src))
			for i, v := range src {
				dst[i] = fespace.FromFloat[T](v)
			}
			b.tabs[g][q] = dst
		}
	}
	return
}

// NewEmptyBasis is the zero-dof basis used when a finite element carries no
// data field. Interp and Add become no-ops over an empty layout.
func NewEmptyBasis[T fespace.Scalar](nq int) (b *FEBasis[T]) {
	b = &FEBasis[T]{
		layout: fespace.NewLayout(),
		nq:     nq,
	}
	return
}

func (b *FEBasis[T]) NumDof() int            { return b.ndof }
func (b *FEBasis[T]) NumQuad() int           { return b.nq }
func (b *FEBasis[T]) NumGroups() int         { return len(b.groups) }
func (b *FEBasis[T]) GroupNdof(g int) int    { return b.groups[g].NumDof() }
func (b *FEBasis[T]) GroupOffset(g int) int  { return b.doff[g] }
func (b *FEBasis[T]) Layout() fespace.Layout { return b.layout }

// Interp evaluates every group at every quadrature point of q, overwriting
// the target components.
func (b *FEBasis[T]) Interp(dof []T, q *fespace.QptSpace[T]) {
	for j := 0; j < b.nq; j++ {
		sp := q.Get(j)
		for g := range b.groups {
			var (
				nd   = b.groups[g].NumDof()
				nc   = b.layout.Sub(g).NumComp()
				coff = b.layout.Offset(g)
				tab  = b.tabs[g][j]
				gdof = dof[b.doff[g] : b.doff[g]+nd]
			)
			for c := 0; c < nc; c++ {
				var acc T
				for i, bv := range tab[c*nd : (c+1)*nd] {
					acc += bv * gdof[i]
				}
				sp.Comp[coff+c] = acc
			}
		}
	}
}

// Add accumulates the adjoint of Interp: per-point coefficients are
// projected back onto the local dofs. dot(Interp(u), y) == dot(u, Add(y))
// for every u and y.
func (b *FEBasis[T]) Add(q *fespace.QptSpace[T], dof []T) {
	for j := 0; j < b.nq; j++ {
		sp := q.Get(j)
		for g := range b.groups {
			var (
				nd   = b.groups[g].NumDof()
				nc   = b.layout.Sub(g).NumComp()
				coff = b.layout.Offset(g)
				tab  = b.tabs[g][j]
				gdof = dof[b.doff[g] : b.doff[g]+nd]
			)
			for c := 0; c < nc; c++ {
				v := sp.Comp[coff+c]
				if v == 0 {
					continue
				}
				for i, bv := range tab[c*nd : (c+1)*nd] {
					gdof[i] += bv * v
				}
			}
		}
	}
}

// AddOuter folds the point-j component matrix qmat (NumComp x NumComp, row
// major) into the dense element matrix emat (NumDof x NumDof): emat +=
// B^T qmat B with B the tabulated component-by-dof map at point j. Cost
// grows with the square of the component count; this path exists for
// low-order elements only.
func (b *FEBasis[T]) AddOuter(j int, qmat, emat []T) {
	ncomp := b.layout.NumComp()
	for g1 := range b.groups {
		var (
			nd1   = b.groups[g1].NumDof()
			nc1   = b.layout.Sub(g1).NumComp()
			coff1 = b.layout.Offset(g1)
			doff1 = b.doff[g1]
			tab1  = b.tabs[g1][j]
		)
		for g2 := range b.groups {
			var (
				nd2   = b.groups[g2].NumDof()
				nc2   = b.layout.Sub(g2).NumComp()
				coff2 = b.layout.Offset(g2)
				doff2 = b.doff[g2]
				tab2  = b.tabs[g2][j]
			)
			for i := 0; i < nd1; i++ {
				for jd := 0; jd < nd2; jd++ {
					var acc T
					for c1 := 0; c1 < nc1; c1++ {
						bv1 := tab1[c1*nd1+i]
						if bv1 == 0 {
							continue
						}
						for c2 := 0; c2 < nc2; c2++ {
							acc += bv1 * qmat[(coff1+c1)*ncomp+(coff2+c2)] * tab2[c2*nd2+jd]
						}
					}
					emat[(doff1+i)*b.ndof+(doff2+jd)] += acc
				}
			}
		}
	}
}
