package geom

import (
	"fmt"
	"math"
)

// CenterOfMass returns the weighted average of points. A nil weights slice
// means every point counts equally, which gives the geometric center.
//
// All points must share one dimension. Weights, when given, must pair 1:1
// with points, contain no negative entry, and sum to a positive total; a
// violation is reported instead of a NaN coordinate.
func CenterOfMass(points []Point, weights []float64) (Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("center of mass: %w", ErrEmptyInput)
	}
	if weights != nil && len(weights) != len(points) {
		return nil, fmt.Errorf("center of mass: %d points but %d weights: %w",
			len(points), len(weights), ErrDimensionMismatch)
	}

	dim := len(points[0])
	com := make(Point, dim)
	var total float64
	for i, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("center of mass: point %d has dimension %d, want %d: %w",
				i, len(p), dim, ErrDimensionMismatch)
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
			if w < 0 {
				return nil, fmt.Errorf("center of mass: weight %d is negative: %w", i, ErrInvalidWeights)
			}
		}
		for j, c := range p {
			com[j] += w * c
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("center of mass: weights sum to zero: %w", ErrInvalidWeights)
	}

	for j := range com {
		com[j] /= total
	}
	return com, nil
}

// RMSD returns the root-mean-square deviation between two point sets taken
// pair by pair in input order, with no superposition applied. For the
// minimum RMSD over all rigid motions see package superpose.
func RMSD(x, y []Point) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("rmsd: %d vs %d points: %w", len(x), len(y), ErrDimensionMismatch)
	}
	if len(x) == 0 {
		return 0, fmt.Errorf("rmsd: %w", ErrEmptyInput)
	}

	var sum float64
	for i := range x {
		if len(x[i]) != len(y[i]) {
			return 0, fmt.Errorf("rmsd: pair %d has dimensions %d and %d: %w",
				i, len(x[i]), len(y[i]), ErrDimensionMismatch)
		}
		d := x[i].Sub(y[i])
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(x))), nil
}
