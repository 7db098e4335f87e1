package geom

import (
	"fmt"
	"math"
)

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 { return rad * (180 / math.Pi) }

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 { return deg * (math.Pi / 180) }

// Dihedral returns the signed torsion angle of the chain a-b-c-d described
// by exactly four 3-dimensional points, in radians in (-pi, pi]. The first
// plane is spanned by a, b, c and the second by b, c, d.
//
// With bond vectors b1 = b-a, b2 = c-b, b3 = d-c the angle is
//
//	atan2((|b2| b1) . (b2 x b3), (b1 x b2) . (b2 x b3))
//
// The atan2 form needs no cosine clamping and keeps the sign stable near
// 0 and pi.
func Dihedral(points ...Point) (float64, error) {
	if len(points) != 4 {
		return 0, fmt.Errorf("dihedral: got %d points, want 4: %w", len(points), ErrDimensionMismatch)
	}
	for i, p := range points {
		if len(p) != 3 {
			return 0, fmt.Errorf("dihedral: point %d has dimension %d, want 3: %w",
				i, len(p), ErrDimensionMismatch)
		}
	}

	b1 := points[1].Sub(points[0])
	b2 := points[2].Sub(points[1])
	b3 := points[3].Sub(points[2])
	v1 := b1.Cross(b2)
	v2 := b2.Cross(b3)
	return math.Atan2(b1.Scale(b2.Norm()).Dot(v2), v1.Dot(v2)), nil
}

// DihedralDegrees is Dihedral reported in degrees in (-180, 180].
func DihedralDegrees(points ...Point) (float64, error) {
	rad, err := Dihedral(points...)
	if err != nil {
		return 0, err
	}
	return Degrees(rad), nil
}

// Dihedrals computes the torsion angle of every quadruple in quads, in
// radians, preserving input order. The first invalid quadruple aborts the
// batch with an error naming its index.
func Dihedrals(quads [][]Point) ([]float64, error) {
	out := make([]float64, len(quads))
	for i, q := range quads {
		a, err := Dihedral(q...)
		if err != nil {
			return nil, fmt.Errorf("quadruple %d: %w", i, err)
		}
		out[i] = a
	}
	return out, nil
}

// DihedralsDegrees is Dihedrals reported in degrees.
func DihedralsDegrees(quads [][]Point) ([]float64, error) {
	out, err := Dihedrals(quads)
	if err != nil {
		return nil, err
	}
	for i, a := range out {
		out[i] = Degrees(a)
	}
	return out, nil
}

// Angle returns the bond angle at vertex b of the chain a-b-c, in radians
// in [0, pi]. The cosine is clamped into [-1, 1] before the inverse cosine
// so that float drift on nearly straight chains cannot produce a NaN. An
// arm of zero length has no defined angle.
func Angle(a, b, c Point) (float64, error) {
	for i, p := range []Point{a, b, c} {
		if len(p) != 3 {
			return 0, fmt.Errorf("angle: point %d has dimension %d, want 3: %w",
				i, len(p), ErrDimensionMismatch)
		}
	}

	u := a.Sub(b)
	v := c.Sub(b)
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return 0, fmt.Errorf("angle: zero-length arm at vertex: %w", ErrDegenerate)
	}
	cos := u.Dot(v) / (nu * nv)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos), nil
}

// AngleDegrees is Angle reported in degrees in [0, 180].
func AngleDegrees(a, b, c Point) (float64, error) {
	rad, err := Angle(a, b, c)
	if err != nil {
		return 0, err
	}
	return Degrees(rad), nil
}
