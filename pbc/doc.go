// Package pbc wraps coordinates against periodic unit cells.
//
// Responsibilities: fractional-coordinate transforms for general (including
// triclinic) lattice matrices, minimum-image wrapping relative to a
// reference point, and absolute remapping into the first cell.
// Key types: Cell.
//
// Dependency rule: pbc depends on geom and gonum's mat package only; it
// never imports superpose.
package pbc
