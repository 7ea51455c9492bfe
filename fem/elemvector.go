package fem

import (
	"fmt"
	"sync"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

/*
Two strategies realize the ElemVec contract over a caller-owned global
array.

Serial reads and writes the global array directly, one element at a time,
applying the orientation sign on the way out and back in. Its lifecycle
hooks are no-ops, so it is only safe with a single writer.

Parallel duplicates every element's local dofs into a contiguous slab of
shape [nelem][ndofPerElem]. InitValues gathers the global array into the
slab, per-element operations touch only their own slab row, and AddValues
merges the slab back. The merge walks global dofs, not elements, so each
dof has exactly one writer; entries are accumulated in ascending element
order, which makes the result independent of the worker count and bitwise
identical to the serial strategy.
*/

type ElementVectorSerial[T fespace.Scalar] struct {
	dm  DofMap
	b   Basis[T]
	vec []T
}

func NewElementVectorSerial[T fespace.Scalar](dm DofMap, b Basis[T], vec []T) (ev *ElementVectorSerial[T]) {
	checkVecSize(dm, vec)
	ev = &ElementVectorSerial[T]{dm: dm, b: b, vec: vec}
	return
}

func checkVecSize[T fespace.Scalar](dm DofMap, vec []T) {
	if len(vec) != dm.NumDof() {
		panic(fmt.Errorf("global array length %d does not match dof map size %d",
			len(vec), dm.NumDof()))
	}
}

func (ev *ElementVectorSerial[T]) NumElements() int { return ev.dm.NumElements() }

func (ev *ElementVectorSerial[T]) Strategy() Strategy { return StrategySerial }

func (ev *ElementVectorSerial[T]) ElementDof(elem int) []T {
	return make([]T, ev.b.NumDof())
}

func (ev *ElementVectorSerial[T]) GetElementValues(elem int, dof []T) {
	for g := 0; g < ev.b.NumGroups(); g++ {
		off := ev.b.GroupOffset(g)
		for i := 0; i < ev.b.GroupNdof(g); i++ {
			v := ev.vec[ev.dm.GlobalDof(elem, g, i)]
			if ev.dm.GlobalDofSign(elem, g, i) < 0 {
				v = -v
			}
			dof[off+i] = v
		}
	}
}

func (ev *ElementVectorSerial[T]) AddElementValues(elem int, dof []T) {
	for g := 0; g < ev.b.NumGroups(); g++ {
		off := ev.b.GroupOffset(g)
		for i := 0; i < ev.b.GroupNdof(g); i++ {
			v := dof[off+i]
			if ev.dm.GlobalDofSign(elem, g, i) < 0 {
				v = -v
			}
			ev.vec[ev.dm.GlobalDof(elem, g, i)] += v
		}
	}
}

func (ev *ElementVectorSerial[T]) SetElementValues(elem int, dof []T) {
	for g := 0; g < ev.b.NumGroups(); g++ {
		off := ev.b.GroupOffset(g)
		for i := 0; i < ev.b.GroupNdof(g); i++ {
			v := dof[off+i]
			if ev.dm.GlobalDofSign(elem, g, i) < 0 {
				v = -v
			}
			ev.vec[ev.dm.GlobalDof(elem, g, i)] = v
		}
	}
}

func (ev *ElementVectorSerial[T]) InitValues()     {}
func (ev *ElementVectorSerial[T]) InitZeroValues() {}
func (ev *ElementVectorSerial[T]) AddValues()      {}

type ElementVectorParallel[T fespace.Scalar] struct {
	dm     DofMap
	b      Basis[T]
	vec    []T
	np     int
	ndof   int // dofs per element
	slab   []T // [nelem][ndof]
	rowPtr []int
	refs   []dofRef
}

// dofRef locates one local-dof occurrence of a global dof.
type dofRef struct {
	elem, group, idx int32
}

func NewElementVectorParallel[T fespace.Scalar](dm DofMap, b Basis[T], vec []T,
	np int) (ev *ElementVectorParallel[T]) {
	checkVecSize(dm, vec)
	if np < 1 {
		np = 1
	}
	ev = &ElementVectorParallel[T]{
		dm: dm, b: b, vec: vec, np: np,
		ndof: b.NumDof(),
		slab: make([]T, dm.NumElements()*b.NumDof()),
	}
	ev.buildTranspose()
	return
}

// buildTranspose assembles the dof-to-element CSR map the merge walks. The
// fill loop visits elements in ascending order, so each global dof's entry
// list is already in the deterministic accumulation order.
func (ev *ElementVectorParallel[T]) buildTranspose() {
	var (
		nglobal = ev.dm.NumDof()
		counts  = make([]int, nglobal+1)
	)
	for e := 0; e < ev.dm.NumElements(); e++ {
		for g := 0; g < ev.b.NumGroups(); g++ {
			for i := 0; i < ev.b.GroupNdof(g); i++ {
				counts[ev.dm.GlobalDof(e, g, i)+1]++
			}
		}
	}
	for i := 0; i < nglobal; i++ {
		counts[i+1] += counts[i]
	}
	ev.rowPtr = counts
	ev.refs = make([]dofRef, ev.rowPtr[nglobal])
	cursor := make([]int, nglobal)
	for e := 0; e < ev.dm.NumElements(); e++ {
		for g := 0; g < ev.b.NumGroups(); g++ {
			for i := 0; i < ev.b.GroupNdof(g); i++ {
				gd := ev.dm.GlobalDof(e, g, i)
				ev.refs[ev.rowPtr[gd]+cursor[gd]] = dofRef{int32(e), int32(g), int32(i)}
				cursor[gd]++
			}
		}
	}
}

func (ev *ElementVectorParallel[T]) NumElements() int { return ev.dm.NumElements() }

func (ev *ElementVectorParallel[T]) Strategy() Strategy { return StrategyParallel }

func (ev *ElementVectorParallel[T]) ElementDof(elem int) []T {
	return ev.slab[elem*ev.ndof : (elem+1)*ev.ndof]
}

func (ev *ElementVectorParallel[T]) GetElementValues(elem int, dof []T) {
	copy(dof, ev.ElementDof(elem))
}

// AddElementValues accumulates dof into the element's slab row. When dof is
// the slab row itself, as handed out by ElementDof, the values are already
// in place and nothing is added.
func (ev *ElementVectorParallel[T]) AddElementValues(elem int, dof []T) {
	row := ev.ElementDof(elem)
	if len(dof) != 0 && &dof[0] == &row[0] {
		return
	}
	for i := range row {
		row[i] += dof[i]
	}
}

func (ev *ElementVectorParallel[T]) SetElementValues(elem int, dof []T) {
	row := ev.ElementDof(elem)
	if len(dof) != 0 && &dof[0] == &row[0] {
		return
	}
	copy(row, dof)
}

// InitValues gathers the global array into the slab, signs applied.
func (ev *ElementVectorParallel[T]) InitValues() {
	ev.overElements(func(elem int) {
		row := ev.ElementDof(elem)
		for g := 0; g < ev.b.NumGroups(); g++ {
			off := ev.b.GroupOffset(g)
			for i := 0; i < ev.b.GroupNdof(g); i++ {
				v := ev.vec[ev.dm.GlobalDof(elem, g, i)]
				if ev.dm.GlobalDofSign(elem, g, i) < 0 {
					v = -v
				}
				row[off+i] = v
			}
		}
	})
}

func (ev *ElementVectorParallel[T]) InitZeroValues() {
	ev.overElements(func(elem int) {
		row := ev.ElementDof(elem)
		for i := range row {
			row[i] = 0
		}
	})
}

// AddValues merges the slab into the global array. Each worker owns a
// contiguous range of global dofs.
func (ev *ElementVectorParallel[T]) AddValues() {
	var (
		pm = utils.NewPartitionMap(ev.np, ev.dm.NumDof())
		wg sync.WaitGroup
	)
	for n := 0; n < ev.np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			lo, hi := pm.GetBucketRange(n)
			for gd := lo; gd < hi; gd++ {
				for _, rf := range ev.refs[ev.rowPtr[gd]:ev.rowPtr[gd+1]] {
					off := ev.b.GroupOffset(int(rf.group))
					v := ev.slab[int(rf.elem)*ev.ndof+off+int(rf.idx)]
					if ev.dm.GlobalDofSign(int(rf.elem), int(rf.group), int(rf.idx)) < 0 {
						v = -v
					}
					ev.vec[gd] += v
				}
			}
		}(n)
	}
	wg.Wait()
}

func (ev *ElementVectorParallel[T]) overElements(f func(elem int)) {
	var (
		pm = utils.NewPartitionMap(ev.np, ev.dm.NumElements())
		wg sync.WaitGroup
	)
	for n := 0; n < ev.np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			lo, hi := pm.GetBucketRange(n)
			for e := lo; e < hi; e++ {
				f(e)
			}
		}(n)
	}
	wg.Wait()
}

// ElementVectorEmpty is the placeholder view for weak forms that take no
// field of a given role, typically parameter-free data.
type ElementVectorEmpty[T fespace.Scalar] struct{}

func NewElementVectorEmpty[T fespace.Scalar]() *ElementVectorEmpty[T] {
	return &ElementVectorEmpty[T]{}
}

func (ev *ElementVectorEmpty[T]) NumElements() int                   { return 0 }
func (ev *ElementVectorEmpty[T]) Strategy() Strategy                 { return StrategyEmpty }
func (ev *ElementVectorEmpty[T]) ElementDof(elem int) []T            { return nil }
func (ev *ElementVectorEmpty[T]) GetElementValues(elem int, dof []T) {}
func (ev *ElementVectorEmpty[T]) AddElementValues(elem int, dof []T) {}
func (ev *ElementVectorEmpty[T]) SetElementValues(elem int, dof []T) {}
func (ev *ElementVectorEmpty[T]) InitValues()                        {}
func (ev *ElementVectorEmpty[T]) InitZeroValues()                    {}
func (ev *ElementVectorEmpty[T]) AddValues()                         {}
