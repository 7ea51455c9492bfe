package fespace

import "fmt"

// Kind selects the function-space behavior of a subspace: how its components
// are laid out and how they map between reference and physical coordinates.
type Kind uint8

const (
	H1 Kind = iota
	L2
	Hdiv
)

func (k Kind) String() string {
	switch k {
	case H1:
		return "H1"
	case L2:
		return "L2"
	case Hdiv:
		return "Hdiv"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// SubSpace describes one named field of a space: C field components living
// in D spatial dimensions. The component layout per kind:
//
//	H1:   C values followed by the C x D gradient, row major,
//	      so NumComp = C*(1+D)
//	L2:   C values, no gradient
//	Hdiv: a D-vector value followed by its scalar divergence
type SubSpace struct {
	Name string
	Kind Kind
	C    int
	D    int
}

func (ss SubSpace) NumComp() int {
	switch ss.Kind {
	case H1:
		return ss.C * (1 + ss.D)
	case L2:
		return ss.C
	case Hdiv:
		return ss.D + 1
	}
	panic(fmt.Sprintf("unknown subspace kind %d", ss.Kind))
}

// Layout is an ordered list of subspaces with precomputed component offsets.
// A Layout is fixed per PDE and must be identical between a space and its
// transform target.
type Layout struct {
	subs    []SubSpace
	offsets []int
	ncomp   int
}

func NewLayout(subs ...SubSpace) (l Layout) {
	l.subs = subs
	l.offsets = make([]int, len(subs))
	for i, ss := range subs {
		l.offsets[i] = l.ncomp
		l.ncomp += ss.NumComp()
	}
	return
}

func (l Layout) NumSub() int        { return len(l.subs) }
func (l Layout) NumComp() int       { return l.ncomp }
func (l Layout) Sub(i int) SubSpace { return l.subs[i] }
func (l Layout) Offset(i int) int   { return l.offsets[i] }

func (l Layout) Equal(o Layout) bool {
	if len(l.subs) != len(o.subs) {
		return false
	}
	for i := range l.subs {
		a, b := l.subs[i], o.subs[i]
		if a.Kind != b.Kind || a.C != b.C || a.D != b.D {
			return false
		}
	}
	return true
}

// Space holds one field-space value: a flat component buffer interpreted
// through a Layout. Typed views alias the buffer; mutating a view mutates
// the space.
type Space[T Scalar] struct {
	layout Layout
	Comp   []T
}

func NewSpace[T Scalar](l Layout) (s *Space[T]) {
	s = &Space[T]{
		layout: l,
		Comp:   make([]T, l.NumComp()),
	}
	return
}

func (s *Space[T]) Layout() Layout { return s.layout }
func (s *Space[T]) NumComp() int   { return len(s.Comp) }

func (s *Space[T]) Zero() {
	for i := range s.Comp {
		s.Comp[i] = 0
	}
}

func (s *Space[T]) CopyFrom(o *Space[T]) {
	if len(s.Comp) != len(o.Comp) {
		panic(fmt.Sprintf("space copy with mismatched component counts %d and %d",
			len(s.Comp), len(o.Comp)))
	}
	copy(s.Comp, o.Comp)
}

// Value returns the value components of subspace i: C entries for H1 and L2,
// D entries for Hdiv.
func (s *Space[T]) Value(i int) []T {
	var (
		ss  = s.layout.Sub(i)
		off = s.layout.Offset(i)
	)
	switch ss.Kind {
	case H1, L2:
		return s.Comp[off : off+ss.C]
	case Hdiv:
		return s.Comp[off : off+ss.D]
	}
	panic(fmt.Sprintf("unknown subspace kind %d", ss.Kind))
}

// Grad returns the C x D row-major gradient of H1 subspace i, entry [c*D+d].
func (s *Space[T]) Grad(i int) []T {
	var (
		ss  = s.layout.Sub(i)
		off = s.layout.Offset(i)
	)
	if ss.Kind != H1 {
		panic(fmt.Sprintf("gradient requested from %v subspace %q", ss.Kind, ss.Name))
	}
	return s.Comp[off+ss.C : off+ss.C*(1+ss.D)]
}

// Div returns the one-entry divergence view of Hdiv subspace i.
func (s *Space[T]) Div(i int) []T {
	var (
		ss  = s.layout.Sub(i)
		off = s.layout.Offset(i)
	)
	if ss.Kind != Hdiv {
		panic(fmt.Sprintf("divergence requested from %v subspace %q", ss.Kind, ss.Name))
	}
	return s.Comp[off+ss.D : off+ss.D+1]
}

// QptSpace holds one Space per quadrature point of an element, backed by a
// single contiguous buffer. Lifetime is one assembly-loop pass over one
// element.
type QptSpace[T Scalar] struct {
	layout Layout
	pts    []Space[T]
	buf    []T
}

func NewQptSpace[T Scalar](nq int, l Layout) (q *QptSpace[T]) {
	q = &QptSpace[T]{
		layout: l,
		pts:    make([]Space[T], nq),
		buf:    make([]T, nq*l.NumComp()),
	}
	nc := l.NumComp()
	for j := range q.pts {
		q.pts[j] = Space[T]{layout: l, Comp: q.buf[j*nc : (j+1)*nc]}
	}
	return
}

func (q *QptSpace[T]) NumPoints() int      { return len(q.pts) }
func (q *QptSpace[T]) Layout() Layout      { return q.layout }
func (q *QptSpace[T]) Get(j int) *Space[T] { return &q.pts[j] }

func (q *QptSpace[T]) Zero() {
	for i := range q.buf {
		q.buf[i] = 0
	}
}
