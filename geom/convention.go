package geom

// Downstream analysis packages implement a family of measures that this
// module deliberately leaves out: pair distances, neighbor searches,
// coordination counts and the like. So those packages stay interchangeable,
// they share the signatures below. The types are a compile-checked naming
// convention; no behavior for them lives here.

// DistanceFunc measures the separation of two points under whatever metric
// or periodic convention the implementation chooses.
type DistanceFunc func(a, b Point) (float64, error)

// NeighborsFunc reports the indices of every point within cutoff of the
// point at index i, excluding i itself.
type NeighborsFunc func(points []Point, i int, cutoff float64) ([]int, error)

// CoordinationNumberFunc counts the points within cutoff of the point at
// index i, excluding i itself.
type CoordinationNumberFunc func(points []Point, i int, cutoff float64) (int, error)
