package fespace

import "fmt"

// Transform maps a reference-space value at one quadrature point into
// physical space, given the local geometry Jacobian J (row major D x D, with
// J[c*D+d] = dx_c/dxi_d), its inverse and its determinant. Per kind:
//
//	H1:   values copy, gradients pick up Jinv on the right
//	L2:   identity
//	Hdiv: the Piola map (1/detJ)*J on the vector value, 1/detJ on the
//	      divergence
//
// in and out must share a layout.
func Transform[T Scalar](detJ T, J, Jinv []T, in, out *Space[T]) {
	checkTransformLayouts(in, out)
	l := in.layout
	for i := 0; i < l.NumSub(); i++ {
		ss := l.Sub(i)
		switch ss.Kind {
		case H1:
			copy(out.Value(i), in.Value(i))
			var (
				gin  = in.Grad(i)
				gout = out.Grad(i)
				d    = ss.D
			)
			for c := 0; c < ss.C; c++ {
				for dc := 0; dc < d; dc++ {
					var acc T
					for e := 0; e < d; e++ {
						acc += gin[c*d+e] * Jinv[e*d+dc]
					}
					gout[c*d+dc] = acc
				}
			}
		case L2:
			copy(out.Value(i), in.Value(i))
		case Hdiv:
			var (
				vin  = in.Value(i)
				vout = out.Value(i)
				d    = ss.D
			)
			for r := 0; r < d; r++ {
				var acc T
				for e := 0; e < d; e++ {
					acc += J[r*d+e] * vin[e]
				}
				vout[r] = acc / detJ
			}
			out.Div(i)[0] = in.Div(i)[0] / detJ
		}
	}
}

// RTransform is the adjoint of Transform: it pulls a physical-space
// coefficient back to reference space so that basis projection happens in
// reference coordinates. For every layout and every pair x, y it holds that
// dot(Transform(x), y) == dot(x, RTransform(y)).
func RTransform[T Scalar](detJ T, J, Jinv []T, in, out *Space[T]) {
	checkTransformLayouts(in, out)
	l := in.layout
	for i := 0; i < l.NumSub(); i++ {
		ss := l.Sub(i)
		switch ss.Kind {
		case H1:
			copy(out.Value(i), in.Value(i))
			var (
				gin  = in.Grad(i)
				gout = out.Grad(i)
				d    = ss.D
			)
			for c := 0; c < ss.C; c++ {
				for e := 0; e < d; e++ {
					var acc T
					for dc := 0; dc < d; dc++ {
						acc += gin[c*d+dc] * Jinv[e*d+dc]
					}
					gout[c*d+e] = acc
				}
			}
		case L2:
			copy(out.Value(i), in.Value(i))
		case Hdiv:
			var (
				vin  = in.Value(i)
				vout = out.Value(i)
				d    = ss.D
			)
			for e := 0; e < d; e++ {
				var acc T
				for r := 0; r < d; r++ {
					acc += J[r*d+e] * vin[r]
				}
				vout[e] = acc / detJ
			}
			out.Div(i)[0] = in.Div(i)[0] / detJ
		}
	}
}

func checkTransformLayouts[T Scalar](in, out *Space[T]) {
	if !in.layout.Equal(out.layout) {
		panic(fmt.Sprintf("transform between mismatched layouts: %d vs %d components",
			in.NumComp(), out.NumComp()))
	}
}
