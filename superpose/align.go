package superpose

import (
	"fmt"
	"math"

	"github.com/mdtools/molgeom/geom"
)

// Align returns a copy of the mobile set x rigidly superposed onto the
// reference set y: among all rotation-plus-translation images of x, the one
// with the smallest RMSD against y. Neither input is mutated.
//
// The sets pair index by index and every point must be 3-dimensional. A nil
// weights slice counts every point equally; otherwise weights scale each
// pair's contribution to the centers of mass and to the fit.
//
// Algorithm:
//  1. Validate lengths, arity and weights.
//  2. Compute the weighted centers of mass of both sets and center working
//     copies; caller memory is never written.
//  3. Accumulate the 4x4 Kearsley matrix over the centered pairs.
//  4. Take the eigenvector of its smallest eigenvalue as a unit quaternion
//     and expand it into the rotation matrix.
//  5. Check the matrix is a proper rotation (determinant +1).
//  6. Rotate centered x and translate the result onto y's center of mass.
func Align(x, y []geom.Point, weights []float64) ([]geom.Point, error) {
	r, cmX, cmY, _, err := superposition(x, y, weights)
	if err != nil {
		return nil, err
	}
	out := make([]geom.Point, len(x))
	for i, p := range x {
		out[i] = r.Apply(p.Sub(cmX)).Add(cmY)
	}
	return out, nil
}

// AlignInPlace is Align writing the aligned coordinates through x's points
// instead of allocating a result. y is read but never written, before,
// during or after the call. If x and y share backing storage the result is
// unspecified.
func AlignInPlace(x, y []geom.Point, weights []float64) error {
	r, cmX, cmY, _, err := superposition(x, y, weights)
	if err != nil {
		return err
	}
	for _, p := range x {
		copy(p, r.Apply(p.Sub(cmX)).Add(cmY))
	}
	return nil
}

// OptimalRotation returns the rotation that carries x, centered at its
// weighted center of mass, onto centered y. Align composes this rotation
// with the center-of-mass translation; it is exposed on its own so the
// rotation can be inspected directly.
func OptimalRotation(x, y []geom.Point, weights []float64) (Rotation, error) {
	r, _, _, _, err := superposition(x, y, weights)
	return r, err
}

// MinRMSD returns the smallest RMSD any rigid motion of x can reach
// against y. It reads the value off the smallest eigenvalue of the
// Kearsley matrix, which equals the weighted sum of squared deviations at
// the optimum, instead of measuring an aligned copy: the RMSD is
// sqrt(lambda/W) with W the weight total (n when unweighted). Rounding can
// drive a vanishing eigenvalue a hair negative, so the magnitude is used.
func MinRMSD(x, y []geom.Point, weights []float64) (float64, error) {
	_, _, _, lambda, err := superposition(x, y, weights)
	if err != nil {
		return 0, err
	}
	total := float64(len(x))
	if weights != nil {
		total = 0
		for _, w := range weights {
			total += w
		}
	}
	return math.Sqrt(math.Abs(lambda) / total), nil
}

// superposition validates the inputs and solves the optimal-rotation
// problem once for all entry points, returning the rotation, both centers
// of mass, and the smallest eigenvalue of the Kearsley matrix.
func superposition(x, y []geom.Point, weights []float64) (Rotation, geom.Point, geom.Point, float64, error) {
	var zero Rotation
	if err := validateSets(x, y, weights); err != nil {
		return zero, nil, nil, 0, err
	}

	cmX, err := geom.CenterOfMass(x, weights)
	if err != nil {
		return zero, nil, nil, 0, fmt.Errorf("superpose: %w", err)
	}
	cmY, err := geom.CenterOfMass(y, weights)
	if err != nil {
		return zero, nil, nil, 0, fmt.Errorf("superpose: %w", err)
	}

	q := kearsleyMatrix(centeredCopy(x, cmX), centeredCopy(y, cmY), weights)
	quat, lambda, err := minQuaternion(q)
	if err != nil {
		return zero, nil, nil, 0, fmt.Errorf("superpose: %w", err)
	}

	r := rotationFromQuaternion(quat)
	if !r.IsProper(properRotationTolerance) {
		return zero, nil, nil, 0, fmt.Errorf("superpose: extracted matrix has determinant %v, not a proper rotation: %w",
			r.Det(), geom.ErrDegenerate)
	}
	return r, cmX, cmY, lambda, nil
}

func validateSets(x, y []geom.Point, weights []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("superpose: %d mobile vs %d reference points: %w",
			len(x), len(y), geom.ErrDimensionMismatch)
	}
	if len(x) == 0 {
		return fmt.Errorf("superpose: %w", geom.ErrEmptyInput)
	}
	if weights != nil && len(weights) != len(x) {
		return fmt.Errorf("superpose: %d points but %d weights: %w",
			len(x), len(weights), geom.ErrDimensionMismatch)
	}
	for i := range x {
		if len(x[i]) != 3 {
			return fmt.Errorf("superpose: mobile point %d has dimension %d, want 3: %w",
				i, len(x[i]), geom.ErrDimensionMismatch)
		}
		if len(y[i]) != 3 {
			return fmt.Errorf("superpose: reference point %d has dimension %d, want 3: %w",
				i, len(y[i]), geom.ErrDimensionMismatch)
		}
	}
	return nil
}

// centeredCopy translates every point by -center into fresh storage.
func centeredCopy(points []geom.Point, center geom.Point) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = p.Sub(center)
	}
	return out
}
