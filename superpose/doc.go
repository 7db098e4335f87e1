// Package superpose rigidly aligns ordered 3D point sets.
//
// Responsibilities: the optimal rotation and translation minimizing the
// RMSD between two equal-length point sets, found with the quaternion
// eigenvector method; copy and in-place application; the minimum achievable
// RMSD itself.
// Key types: Rotation.
//
// The mobile and reference sets pair index by index; mass weights are
// optional. A configuration whose optimal rotation is not unique (fewer
// than two non-colinear points) is reported as an error, never resolved to
// an arbitrary rotation.
package superpose
