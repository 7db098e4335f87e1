// Package geom provides the coordinate type and scalar measures shared by
// the molgeom packages.
//
// Responsibilities: the Point coordinate type and its vector arithmetic,
// centers of mass, pairwise RMSD, bond and torsion angles, and the naming
// contract for downstream analysis measures.
// Key types: Point.
//
// Dependency rule: geom depends only on the standard library; pbc and
// superpose build on it, never the reverse.
package geom
