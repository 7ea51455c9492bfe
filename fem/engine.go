package fem

import (
	"fmt"
	"sync"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

/*
FiniteElement drives the per-element assembly pipeline for one combination
of quadrature rule, data basis, geometry basis and solution basis:

	gather dofs -> interpolate to quadrature points ->
	per point: geometry Jacobian, transform to physical space,
	           weak-form evaluation, reverse transform ->
	basis adjoint back to local dofs -> scatter-add

The geometry field carries the element coordinates; its Jacobian and
inverse are recomputed at every quadrature point, so curved elements from
higher order geometry bases integrate exactly as well as their basis
allows. All per-element scratch lives in a workspace owned by one worker,
so element loops parallelize without sharing.
*/
type FiniteElement[T fespace.Scalar] struct {
	quad  Quadrature
	dataB Basis[T]
	geoB  Basis[T]
	solB  Basis[T]
	dim   int
	np    int
}

func NewFiniteElement[T fespace.Scalar](quad Quadrature, dataBasis, geoBasis,
	solBasis Basis[T]) (fe *FiniteElement[T]) {
	var (
		nq = quad.NumPoints()
		gl = geoBasis.Layout()
	)
	for _, b := range []Basis[T]{dataBasis, geoBasis, solBasis} {
		if b.NumQuad() != nq {
			panic(fmt.Errorf("basis tabulated on %d quadrature points, rule has %d",
				b.NumQuad(), nq))
		}
	}
	if gl.NumSub() != 1 || gl.Sub(0).Kind != fespace.H1 {
		panic("geometry basis must be a single H1 group")
	}
	sub := gl.Sub(0)
	if sub.C != sub.D {
		panic(fmt.Errorf("geometry basis has %d components in %d dimensions",
			sub.C, sub.D))
	}
	fe = &FiniteElement[T]{
		quad:  quad,
		dataB: dataBasis,
		geoB:  geoBasis,
		solB:  solBasis,
		dim:   sub.D,
		np:    1,
	}
	return
}

// SetParallel sets the worker count for the element loops. With more than
// one worker every output view must use the Parallel strategy.
func (fe *FiniteElement[T]) SetParallel(np int) {
	if np < 1 {
		np = 1
	}
	fe.np = np
}

// workspace is one worker's per-element scratch.
type workspace[T fespace.Scalar] struct {
	dataDof, geoDof, solDof, xDof, outDof []T
	dataQ, geoQ, solQ, xQ, outQ           *fespace.QptSpace[T]
	s, x, coef, jp, pref                  *fespace.Space[T]
	jinv                                  []T
	qmat                                  []T
	emat                                  []T
}

func (fe *FiniteElement[T]) newWorkspace(pde PDE[T]) (w *workspace[T]) {
	var (
		nq = fe.quad.NumPoints()
		sl = pde.SolLayout()
		nc = sl.NumComp()
		nd = fe.solB.NumDof()
	)
	w = &workspace[T]{
		dataDof: make([]T, fe.dataB.NumDof()),
		geoDof:  make([]T, fe.geoB.NumDof()),
		solDof:  make([]T, nd),
		xDof:    make([]T, nd),
		outDof:  make([]T, nd),
		dataQ:   fespace.NewQptSpace[T](nq, pde.DataLayout()),
		geoQ:    fespace.NewQptSpace[T](nq, pde.GeoLayout()),
		solQ:    fespace.NewQptSpace[T](nq, sl),
		xQ:      fespace.NewQptSpace[T](nq, sl),
		outQ:    fespace.NewQptSpace[T](nq, sl),
		s:       fespace.NewSpace[T](sl),
		x:       fespace.NewSpace[T](sl),
		coef:    fespace.NewSpace[T](sl),
		jp:      fespace.NewSpace[T](sl),
		pref:    fespace.NewSpace[T](sl),
		jinv:    make([]T, fe.dim*fe.dim),
		qmat:    make([]T, nc*nc),
		emat:    make([]T, nd*nd),
	}
	return
}

func (fe *FiniteElement[T]) checkLayouts(pde PDE[T]) {
	if !pde.DataLayout().Equal(fe.dataB.Layout()) {
		panic("data basis layout does not match the weak form's data space")
	}
	if !pde.GeoLayout().Equal(fe.geoB.Layout()) {
		panic("geometry basis layout does not match the weak form's geometry space")
	}
	if !pde.SolLayout().Equal(fe.solB.Layout()) {
		panic("solution basis layout does not match the weak form's solution space")
	}
}

// elementCount reconciles the element counts of all non-empty views.
func (fe *FiniteElement[T]) elementCount(views ...ElemVec[T]) (nelem int) {
	nelem = -1
	for _, v := range views {
		if v.Strategy() == StrategyEmpty {
			continue
		}
		if nelem == -1 {
			nelem = v.NumElements()
		} else if v.NumElements() != nelem {
			panic(fmt.Errorf("element vectors disagree on element count: %d vs %d",
				nelem, v.NumElements()))
		}
	}
	if nelem == -1 {
		nelem = 0
	}
	return
}

func (fe *FiniteElement[T]) checkParallelOutput(out ElemVec[T]) {
	if fe.np > 1 && out.Strategy() == StrategySerial {
		panic("parallel assembly requires a parallel strategy output view")
	}
}

// pointMetric inverts the geometry Jacobian at one quadrature point,
// rejecting degenerate and inverted elements.
func (fe *FiniteElement[T]) pointMetric(elem, j int, jac, jinv []T) (detJ T, err error) {
	detJ, err = fespace.MatInverse(fe.dim, jac, jinv)
	if err != nil {
		err = fmt.Errorf("element %d, quadrature point %d: %v", elem, j, err)
		return
	}
	if fespace.Real(detJ) <= 0 {
		err = fmt.Errorf("element %d, quadrature point %d: non-positive jacobian determinant %v",
			elem, j, fespace.Real(detJ))
	}
	return
}

// run executes worker(elem) over nelem elements with fe.np workers, each
// built by makeWorker so scratch is never shared. The first error stops the
// owning worker and is reported after all workers drain.
func (fe *FiniteElement[T]) run(nelem int, makeWorker func() func(elem int) error) (err error) {
	if fe.np == 1 {
		worker := makeWorker()
		for e := 0; e < nelem; e++ {
			if err = worker(e); err != nil {
				return
			}
		}
		return
	}
	var (
		pm   = utils.NewPartitionMap(fe.np, nelem)
		wg   sync.WaitGroup
		errs = make([]error, fe.np)
	)
	for n := 0; n < fe.np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			var (
				lo, hi = pm.GetBucketRange(n)
				worker = makeWorker()
			)
			for e := lo; e < hi; e++ {
				if err2 := worker(e); err2 != nil {
					errs[n] = err2
					return
				}
			}
		}(n)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			err = e
			return
		}
	}
	return
}

// AddResidual accumulates the weak-form residual into res. The engine only
// ever adds; zero the backing array first for a fresh residual.
func (fe *FiniteElement[T]) AddResidual(pde PDE[T], data, geo, sol, res ElemVec[T]) (err error) {
	fe.checkLayouts(pde)
	nelem := fe.elementCount(data, geo, sol, res)
	fe.checkParallelOutput(res)
	return fe.run(nelem, func() func(int) error {
		w := fe.newWorkspace(pde)
		return func(elem int) error {
			return fe.elementResidual(pde, w, data, geo, sol, res, elem)
		}
	})
}

func (fe *FiniteElement[T]) elementResidual(pde PDE[T], w *workspace[T],
	data, geo, sol, res ElemVec[T], elem int) (err error) {
	data.GetElementValues(elem, w.dataDof)
	geo.GetElementValues(elem, w.geoDof)
	sol.GetElementValues(elem, w.solDof)
	fe.dataB.Interp(w.dataDof, w.dataQ)
	fe.geoB.Interp(w.geoDof, w.geoQ)
	fe.solB.Interp(w.solDof, w.solQ)
	w.outQ.Zero()
	for j := 0; j < fe.quad.NumPoints(); j++ {
		var (
			gp   = w.geoQ.Get(j)
			jac  = gp.Grad(0)
			detJ T
		)
		if detJ, err = fe.pointMetric(elem, j, jac, w.jinv); err != nil {
			return
		}
		wdetJ := fespace.FromFloat[T](fe.quad.Weight(j)) * detJ
		fespace.Transform(detJ, jac, w.jinv, w.solQ.Get(j), w.s)
		w.coef.Zero()
		pde.Weak(wdetJ, w.dataQ.Get(j), gp, w.s, w.coef)
		fespace.RTransform(detJ, jac, w.jinv, w.coef, w.outQ.Get(j))
	}
	zero(w.outDof)
	fe.solB.Add(w.outQ, w.outDof)
	res.AddElementValues(elem, w.outDof)
	return
}

// AddJacobianVectorProduct accumulates J(sol)*x into y without forming J.
func (fe *FiniteElement[T]) AddJacobianVectorProduct(pde PDE[T], data, geo,
	sol, x, y ElemVec[T]) (err error) {
	fe.checkLayouts(pde)
	nelem := fe.elementCount(data, geo, sol, x, y)
	fe.checkParallelOutput(y)
	return fe.run(nelem, func() func(int) error {
		w := fe.newWorkspace(pde)
		return func(elem int) error {
			return fe.elementJacVec(pde, w, data, geo, sol, x, y, elem)
		}
	})
}

func (fe *FiniteElement[T]) elementJacVec(pde PDE[T], w *workspace[T],
	data, geo, sol, x, y ElemVec[T], elem int) (err error) {
	data.GetElementValues(elem, w.dataDof)
	geo.GetElementValues(elem, w.geoDof)
	sol.GetElementValues(elem, w.solDof)
	x.GetElementValues(elem, w.xDof)
	fe.dataB.Interp(w.dataDof, w.dataQ)
	fe.geoB.Interp(w.geoDof, w.geoQ)
	fe.solB.Interp(w.solDof, w.solQ)
	fe.solB.Interp(w.xDof, w.xQ)
	w.outQ.Zero()
	for j := 0; j < fe.quad.NumPoints(); j++ {
		var (
			gp   = w.geoQ.Get(j)
			jac  = gp.Grad(0)
			detJ T
		)
		if detJ, err = fe.pointMetric(elem, j, jac, w.jinv); err != nil {
			return
		}
		wdetJ := fespace.FromFloat[T](fe.quad.Weight(j)) * detJ
		fespace.Transform(detJ, jac, w.jinv, w.solQ.Get(j), w.s)
		fespace.Transform(detJ, jac, w.jinv, w.xQ.Get(j), w.x)
		jvp := pde.JacVecProduct(wdetJ, w.dataQ.Get(j), gp, w.s)
		w.jp.Zero()
		jvp(w.x, w.jp)
		fespace.RTransform(detJ, jac, w.jinv, w.jp, w.outQ.Get(j))
	}
	zero(w.outDof)
	fe.solB.Add(w.outQ, w.outDof)
	y.AddElementValues(elem, w.outDof)
	return
}

// AddJacobian assembles dense element Jacobians and hands them to emat. At
// every quadrature point the directional derivative is probed once per
// solution component with a one-hot reference-space perturbation, building
// the ncomp x ncomp point matrix that AddOuter folds into the element
// matrix. Cost grows with ncomp and ndof squared, so this path is for low
// order trees; use AddJacobianVectorProduct otherwise. Runs serially.
func (fe *FiniteElement[T]) AddJacobian(pde PDE[T], data, geo, sol ElemVec[T],
	emat ElemMat[T]) (err error) {
	fe.checkLayouts(pde)
	nelem := fe.elementCount(data, geo, sol)
	w := fe.newWorkspace(pde)
	for e := 0; e < nelem; e++ {
		if err = fe.elementJacobian(pde, w, data, geo, sol, emat, e); err != nil {
			return
		}
	}
	return
}

func (fe *FiniteElement[T]) elementJacobian(pde PDE[T], w *workspace[T],
	data, geo, sol ElemVec[T], emat ElemMat[T], elem int) (err error) {
	data.GetElementValues(elem, w.dataDof)
	geo.GetElementValues(elem, w.geoDof)
	sol.GetElementValues(elem, w.solDof)
	fe.dataB.Interp(w.dataDof, w.dataQ)
	fe.geoB.Interp(w.geoDof, w.geoQ)
	fe.solB.Interp(w.solDof, w.solQ)
	zero(w.emat)
	ncomp := pde.SolLayout().NumComp()
	for j := 0; j < fe.quad.NumPoints(); j++ {
		var (
			gp   = w.geoQ.Get(j)
			jac  = gp.Grad(0)
			detJ T
		)
		if detJ, err = fe.pointMetric(elem, j, jac, w.jinv); err != nil {
			return
		}
		wdetJ := fespace.FromFloat[T](fe.quad.Weight(j)) * detJ
		fespace.Transform(detJ, jac, w.jinv, w.solQ.Get(j), w.s)
		jvp := pde.JacVecProduct(wdetJ, w.dataQ.Get(j), gp, w.s)
		for k := 0; k < ncomp; k++ {
			w.pref.Zero()
			w.pref.Comp[k] = fespace.FromFloat[T](1)
			fespace.Transform(detJ, jac, w.jinv, w.pref, w.x)
			w.jp.Zero()
			jvp(w.x, w.jp)
			fespace.RTransform(detJ, jac, w.jinv, w.jp, w.coef)
			for i := 0; i < ncomp; i++ {
				w.qmat[i*ncomp+k] = w.coef.Comp[i]
			}
		}
		fe.solB.AddOuter(j, w.qmat, w.emat)
	}
	emat.AddElementMatrix(elem, w.emat)
	return
}

func zero[T fespace.Scalar](v []T) {
	for i := range v {
		v[i] = 0
	}
}
