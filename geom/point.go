package geom

import "math"

// Point is an ordered tuple of real coordinates in consistent length units.
// Most of this module works with 3-vectors, but Point itself carries no
// fixed arity; operations that require one say so in their contract and
// report ErrDimensionMismatch when it is violated.
//
// The arithmetic methods below assume their operands already satisfy the
// documented length contracts and do not re-validate.
type Point []float64

// XYZ builds a 3-dimensional point.
func XYZ(x, y, z float64) Point { return Point{x, y, z} }

// Clone returns an independent copy of p.
func (p Point) Clone() Point {
	q := make(Point, len(p))
	copy(q, p)
	return q
}

// Add returns the component-wise sum p + q. Both points must have the same
// dimension.
func (p Point) Add(q Point) Point {
	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] + q[i]
	}
	return r
}

// Sub returns the component-wise difference p - q. Both points must have
// the same dimension.
func (p Point) Sub(q Point) Point {
	r := make(Point, len(p))
	for i := range p {
		r[i] = p[i] - q[i]
	}
	return r
}

// Scale returns p with every component multiplied by s.
func (p Point) Scale(s float64) Point {
	r := make(Point, len(p))
	for i := range p {
		r[i] = s * p[i]
	}
	return r
}

// Dot returns the inner product of p and q. Both points must have the same
// dimension.
func (p Point) Dot(q Point) float64 {
	var s float64
	for i := range p {
		s += p[i] * q[i]
	}
	return s
}

// Cross returns the cross product p x q. Both points must be 3-dimensional.
func (p Point) Cross(q Point) Point {
	return Point{
		p[1]*q[2] - p[2]*q[1],
		p[2]*q[0] - p[0]*q[2],
		p[0]*q[1] - p[1]*q[0],
	}
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return math.Sqrt(p.Dot(p)) }
