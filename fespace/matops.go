package fespace

import "fmt"

// MinDet is the smallest Jacobian determinant magnitude treated as
// invertible.
const MinDet = 1.e-14

// MatDet computes the determinant of a d x d row-major matrix, d in {1,2,3}.
func MatDet[T Scalar](d int, a []T) T {
	switch d {
	case 1:
		return a[0]
	case 2:
		return a[0]*a[3] - a[1]*a[2]
	case 3:
		return a[0]*(a[4]*a[8]-a[5]*a[7]) -
			a[1]*(a[3]*a[8]-a[5]*a[6]) +
			a[2]*(a[3]*a[7]-a[4]*a[6])
	}
	panic(fmt.Sprintf("determinant of unsupported dimension %d", d))
}

// MatInverse computes the determinant and the inverse of a d x d row-major
// matrix by the cofactor formulas, d in {1,2,3}. A non-finite or effectively
// zero determinant is reported as an error and ainv is left unspecified.
func MatInverse[T Scalar](d int, a, ainv []T) (det T, err error) {
	det = MatDet(d, a)
	if !Finite(det) {
		err = fmt.Errorf("non-finite %dx%d determinant", d, d)
		return
	}
	if Mag(det) < MinDet {
		err = fmt.Errorf("singular %dx%d matrix, |det| = %v < %v", d, d, Mag(det), MinDet)
		return
	}
	switch d {
	case 1:
		ainv[0] = FromFloat[T](1) / det
	case 2:
		ainv[0] = a[3] / det
		ainv[1] = -a[1] / det
		ainv[2] = -a[2] / det
		ainv[3] = a[0] / det
	case 3:
		ainv[0] = (a[4]*a[8] - a[5]*a[7]) / det
		ainv[1] = (a[2]*a[7] - a[1]*a[8]) / det
		ainv[2] = (a[1]*a[5] - a[2]*a[4]) / det
		ainv[3] = (a[5]*a[6] - a[3]*a[8]) / det
		ainv[4] = (a[0]*a[8] - a[2]*a[6]) / det
		ainv[5] = (a[2]*a[3] - a[0]*a[5]) / det
		ainv[6] = (a[3]*a[7] - a[4]*a[6]) / det
		ainv[7] = (a[1]*a[6] - a[0]*a[7]) / det
		ainv[8] = (a[0]*a[4] - a[1]*a[3]) / det
	}
	return
}
