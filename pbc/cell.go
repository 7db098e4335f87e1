package pbc

import (
	"errors"
	"fmt"
	"math"

	"github.com/mdtools/molgeom/geom"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidCell reports a cell description that is not usable: a
	// non-square or non-finite lattice matrix, a non-positive side length,
	// or an empty dimension.
	ErrInvalidCell = errors.New("invalid cell")

	// ErrSingularCell reports a lattice matrix with no usable inverse.
	// Near-singular matrices are rejected too: fractional coordinates
	// computed through an ill-conditioned inverse are garbage, and failing
	// at construction beats propagating NaN through every later wrap.
	ErrSingularCell = errors.New("singular cell matrix")
)

// Cell is an N-dimensional periodic unit cell. It is immutable once
// constructed and safe for concurrent use.
//
// A cell is backed either by a full lattice matrix, which supports
// non-orthogonal (triclinic) geometry through fractional coordinates, or by
// a vector of orthogonal side lengths, which wraps with per-component
// modular arithmetic and never touches linear algebra. Both forms of the
// same orthogonal cell produce equal results from every method.
type Cell struct {
	dim     int
	sides   []float64 // orthorhombic fast path; nil for lattice cells
	lattice *mat.Dense
	inverse *mat.Dense
}

// NewCell builds a cell from the rows of an N-by-N lattice matrix. Column j
// of the matrix is the j-th lattice vector, so rows are given exactly as the
// matrix is written:
//
//	c, err := pbc.NewCell([][]float64{
//		{10, 5, 5},
//		{0, 10, 5},
//		{0, 0, 10},
//	})
//
// The matrix must be square, finite, and invertible. The inverse is computed
// once here; wrapping never factorizes again.
func NewCell(rows [][]float64) (*Cell, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("new cell: no rows: %w", ErrInvalidCell)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("new cell: row %d has %d columns, want %d: %w",
				i, len(row), n, ErrInvalidCell)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("new cell: entry (%d,%d) is not finite: %w",
					i, j, ErrInvalidCell)
			}
			data = append(data, v)
		}
	}

	lattice := mat.NewDense(n, n, data)
	var inverse mat.Dense
	if err := inverse.Inverse(lattice); err != nil {
		return nil, fmt.Errorf("new cell: %v: %w", err, ErrSingularCell)
	}
	return &Cell{dim: n, lattice: lattice, inverse: &inverse}, nil
}

// NewOrthorhombic builds a rectangular cell from orthogonal side lengths.
// Every side must be finite and positive.
func NewOrthorhombic(sides ...float64) (*Cell, error) {
	if len(sides) == 0 {
		return nil, fmt.Errorf("new orthorhombic cell: no sides: %w", ErrInvalidCell)
	}
	s := make([]float64, len(sides))
	for i, v := range sides {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, fmt.Errorf("new orthorhombic cell: side %d is %v, want a positive finite length: %w",
				i, v, ErrInvalidCell)
		}
		s[i] = v
	}
	return &Cell{dim: len(s), sides: s}, nil
}

// Dim returns the cell's dimension N.
func (c *Cell) Dim() int { return c.dim }

// Orthorhombic reports whether the cell is backed by orthogonal side
// lengths rather than a full lattice matrix.
func (c *Cell) Orthorhombic() bool { return c.sides != nil }

// ToFractional expresses p in coefficients of the lattice vectors, each
// reduced into [0, 1). The reduction is f - floor(f) with the result
// clamped so a rounding artifact can never report exactly 1.
func (c *Cell) ToFractional(p geom.Point) (geom.Point, error) {
	if err := c.checkDim("to fractional", p); err != nil {
		return nil, err
	}
	return c.fractional(p), nil
}

// FromFractional is the inverse of ToFractional without the reduction: it
// returns the real-space point at fractional coordinates f.
func (c *Cell) FromFractional(f geom.Point) (geom.Point, error) {
	if err := c.checkDim("from fractional", f); err != nil {
		return nil, err
	}
	return c.real(f), nil
}

// Wrap returns the minimum image of p relative to ref: the periodic copy of
// p closest to ref under the cell's lattice.
//
// At an exact half-cell displacement both images are equidistant; the
// positive representative is kept, so displacements land in the interval
// (-side/2, +side/2] on each axis (fractional interval (-1/2, +1/2] for
// lattice cells). Both cell forms share the tie rule, keeping a diagonal
// lattice and its side-length form in exact agreement.
func (c *Cell) Wrap(p, ref geom.Point) (geom.Point, error) {
	if err := c.checkDim("wrap", p); err != nil {
		return nil, err
	}
	if err := c.checkDim("wrap", ref); err != nil {
		return nil, err
	}

	if c.sides != nil {
		out := make(geom.Point, c.dim)
		for i, s := range c.sides {
			d := floorMod(p[i]-ref[i], s)
			if d > s/2 {
				d -= s
			}
			out[i] = ref[i] + d
		}
		return out, nil
	}

	// Lattice path: wrap the fractional displacement with unit sides, then
	// map back to real space.
	fp := c.fractional(p)
	fr := c.fractional(ref)
	df := make(geom.Point, c.dim)
	for i := range df {
		d := floorMod(fp[i]-fr[i], 1)
		if d > 0.5 {
			d--
		}
		df[i] = d
	}
	return ref.Add(c.real(df)), nil
}

// WrapToFirst returns the representative of p inside the first cell, the
// image whose fractional coordinates all lie in [0, 1). Unlike Wrap it is
// absolute: no reference point is involved.
func (c *Cell) WrapToFirst(p geom.Point) (geom.Point, error) {
	if err := c.checkDim("wrap to first", p); err != nil {
		return nil, err
	}
	if c.sides != nil {
		out := make(geom.Point, c.dim)
		for i, s := range c.sides {
			out[i] = floorMod(p[i], s)
		}
		return out, nil
	}
	return c.real(c.fractional(p)), nil
}

func (c *Cell) checkDim(op string, p geom.Point) error {
	if len(p) != c.dim {
		return fmt.Errorf("%s: point has dimension %d, cell has %d: %w",
			op, len(p), c.dim, geom.ErrDimensionMismatch)
	}
	return nil
}

// fractional returns p in lattice coefficients, each reduced into [0, 1).
// p must already have the cell's dimension.
func (c *Cell) fractional(p geom.Point) geom.Point {
	out := make(geom.Point, c.dim)
	if c.sides != nil {
		for i, s := range c.sides {
			out[i] = floorMod(p[i]/s, 1)
		}
		return out
	}
	var f mat.VecDense
	f.MulVec(c.inverse, mat.NewVecDense(c.dim, p))
	for i := range out {
		out[i] = floorMod(f.AtVec(i), 1)
	}
	return out
}

// real maps fractional coordinates back to real space. f must already have
// the cell's dimension.
func (c *Cell) real(f geom.Point) geom.Point {
	out := make(geom.Point, c.dim)
	if c.sides != nil {
		for i, s := range c.sides {
			out[i] = f[i] * s
		}
		return out
	}
	var r mat.VecDense
	r.MulVec(c.lattice, mat.NewVecDense(c.dim, f))
	for i := range out {
		out[i] = r.AtVec(i)
	}
	return out
}

// floorMod reduces v into [0, m) for positive m. math.Mod keeps the sign of
// v, so a negative remainder is shifted up by m; if that shift rounds to
// exactly m the result is clamped back to 0 to hold the half-open interval.
func floorMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if r == m {
		r = 0
	}
	return r
}
