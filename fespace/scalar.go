package fespace

import "math"

// Scalar is the working numeric type of the assembly pipeline. Production
// assembly runs on float64; the derivative consistency check instantiates
// complex128 so that a complex-step perturbation can be pushed through the
// whole per-point pipeline.
type Scalar interface {
	~float64 | ~complex128
}

// FromFloat converts a runtime float64 factor into the working type. Go has
// no implicit float64 to complex128 conversion inside a generic function, so
// every real factor (quadrature weights, signs, material constants) crosses
// through here.
func FromFloat[T Scalar](v float64) (s T) {
	switch p := any(&s).(type) {
	case *float64:
		*p = v
	case *complex128:
		*p = complex(v, 0)
	}
	return
}

// FromImag returns i*v for complex working types and zero for real ones.
func FromImag[T Scalar](v float64) (s T) {
	if p, ok := any(&s).(*complex128); ok {
		*p = complex(0, v)
	}
	return
}

func Real[T Scalar](s T) (v float64) {
	switch x := any(s).(type) {
	case float64:
		v = x
	case complex128:
		v = real(x)
	}
	return
}

func Imag[T Scalar](s T) (v float64) {
	if x, ok := any(s).(complex128); ok {
		v = imag(x)
	}
	return
}

// IsComplex reports whether the working type carries an imaginary component.
func IsComplex[T Scalar]() bool {
	var s T
	_, ok := any(s).(complex128)
	return ok
}

// Mag is the modulus of s.
func Mag[T Scalar](s T) float64 {
	if IsComplex[T]() {
		return math.Hypot(Real(s), Imag(s))
	}
	return math.Abs(Real(s))
}

func Finite[T Scalar](s T) bool {
	re, im := Real(s), Imag(s)
	if math.IsNaN(re) || math.IsInf(re, 0) {
		return false
	}
	if math.IsNaN(im) || math.IsInf(im, 0) {
		return false
	}
	return true
}
