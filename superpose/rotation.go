package superpose

import (
	"math"

	"github.com/mdtools/molgeom/geom"
)

// properRotationTolerance bounds |det(R) - 1| for a matrix accepted as a
// proper rotation. A unit quaternion expands to determinant +1 up to float
// rounding; a larger departure means the eigenvector was not usable.
const properRotationTolerance = 1e-6

// Rotation is a 3x3 rotation matrix in row-major order, applied to column
// vectors: the rotated point is R · p. Values produced by this package are
// proper rotations (determinant +1, never a reflection).
type Rotation [9]float64

// Apply rotates a 3-dimensional point.
func (r Rotation) Apply(p geom.Point) geom.Point {
	return geom.Point{
		r[0]*p[0] + r[1]*p[1] + r[2]*p[2],
		r[3]*p[0] + r[4]*p[1] + r[5]*p[2],
		r[6]*p[0] + r[7]*p[1] + r[8]*p[2],
	}
}

// Det returns the determinant. A proper rotation has determinant +1; a
// value of -1 marks a reflection.
func (r Rotation) Det() float64 {
	return r[0]*(r[4]*r[8]-r[5]*r[7]) -
		r[1]*(r[3]*r[8]-r[5]*r[6]) +
		r[2]*(r[3]*r[7]-r[4]*r[6])
}

// Transpose returns the transposed matrix, which for a rotation is also
// its inverse.
func (r Rotation) Transpose() Rotation {
	return Rotation{
		r[0], r[3], r[6],
		r[1], r[4], r[7],
		r[2], r[5], r[8],
	}
}

// IsProper reports whether the determinant is within tol of +1.
func (r Rotation) IsProper(tol float64) bool {
	return math.Abs(r.Det()-1) <= tol
}
