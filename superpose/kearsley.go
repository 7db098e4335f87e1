package superpose

import (
	"fmt"

	"github.com/mdtools/molgeom/geom"
	"gonum.org/v1/gonum/mat"
)

// degenerateEigengapTolerance is the relative gap between the two smallest
// eigenvalues of the quaternion matrix below which the optimal rotation is
// treated as non-unique. The gap is measured against the largest
// eigenvalue, so the test scales with the coordinates and never compares
// against an absolute epsilon.
const degenerateEigengapTolerance = 1e-9

// kearsleyMatrix accumulates the symmetric 4x4 matrix of Kearsley's
// quaternion formulation of the superposition problem (Acta Cryst. A45,
// 208, 1989) over centered point pairs.
//
// For each pair the difference m = yi - xi and sum p = yi + xi contribute
// quadratic forms to the matrix; the unit quaternion minimizing the
// weighted sum of squared deviations is the eigenvector of the smallest
// eigenvalue, and that eigenvalue is the residual itself.
//
// Accumulation runs in fixed input order so equal inputs always produce
// bit-equal sums.
func kearsleyMatrix(cx, cy []geom.Point, weights []float64) *mat.SymDense {
	var q [4][4]float64
	for i := range cx {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		mx := cy[i][0] - cx[i][0]
		my := cy[i][1] - cx[i][1]
		mz := cy[i][2] - cx[i][2]
		px := cy[i][0] + cx[i][0]
		py := cy[i][1] + cx[i][1]
		pz := cy[i][2] + cx[i][2]

		q[0][0] += w * (mx*mx + my*my + mz*mz)
		q[1][1] += w * (mx*mx + py*py + pz*pz)
		q[2][2] += w * (my*my + px*px + pz*pz)
		q[3][3] += w * (mz*mz + px*px + py*py)

		q[0][1] += w * (my*pz - mz*py)
		q[0][2] += w * (mz*px - mx*pz)
		q[0][3] += w * (mx*py - my*px)
		q[1][2] += w * (mx*my - px*py)
		q[1][3] += w * (mx*mz - px*pz)
		q[2][3] += w * (my*mz - py*pz)
	}

	// Only the upper triangle is computed; the symmetric container mirrors
	// it into the lower one.
	s := mat.NewSymDense(4, nil)
	for i := 0; i < 4; i++ {
		for j := i; j < 4; j++ {
			s.SetSym(i, j, q[i][j])
		}
	}
	return s
}

// minQuaternion extracts the eigenvector of q's smallest eigenvalue as a
// unit quaternion (scalar, i, j, k), along with the eigenvalue. The
// ascending order of mat.EigenSym makes that the first column, which fixes
// the quaternion branch and with it the handedness convention of every
// rotation this package returns.
func minQuaternion(q *mat.SymDense) (quat [4]float64, lambda float64, err error) {
	var es mat.EigenSym
	if !es.Factorize(q, true) {
		return quat, 0, fmt.Errorf("eigendecomposition did not converge: %w", geom.ErrDegenerate)
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// A vanishing gap between the two smallest eigenvalues means two
	// distinct rotations reach the same residual, so no single answer
	// exists. The matrix is positive semidefinite, which makes the largest
	// eigenvalue the spectrum's scale; an all-zero spectrum is the fully
	// coincident configuration.
	scale := vals[3]
	if scale <= 0 || vals[1]-vals[0] <= degenerateEigengapTolerance*scale {
		return quat, 0, fmt.Errorf("optimal rotation is not unique for this configuration: %w", geom.ErrDegenerate)
	}

	for i := range quat {
		quat[i] = vecs.At(i, 0)
	}
	return quat, vals[0], nil
}

// rotationFromQuaternion expands a unit quaternion into the row-major 3x3
// matrix of the rotation it represents.
func rotationFromQuaternion(q [4]float64) Rotation {
	q0, q1, q2, q3 := q[0], q[1], q[2], q[3]
	return Rotation{
		q0*q0 + q1*q1 - q2*q2 - q3*q3, 2 * (q1*q2 - q0*q3), 2 * (q1*q3 + q0*q2),
		2 * (q1*q2 + q0*q3), q0*q0 - q1*q1 + q2*q2 - q3*q3, 2 * (q2*q3 - q0*q1),
		2 * (q1*q3 - q0*q2), 2 * (q2*q3 + q0*q1), q0*q0 - q1*q1 - q2*q2 + q3*q3,
	}
}
