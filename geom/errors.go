package geom

import "errors"

// Sentinel errors for the geometry packages. Call sites wrap them with
// fmt.Errorf("...: %w", ...) context; callers match with errors.Is.
var (
	// ErrDimensionMismatch reports paired inputs whose lengths disagree, or
	// a vector whose arity is not what the operation requires.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyInput reports an operation that needs at least one point.
	ErrEmptyInput = errors.New("empty point set")

	// ErrInvalidWeights reports a negative weight or a weight total of zero.
	ErrInvalidWeights = errors.New("invalid weights")

	// ErrDegenerate reports geometry for which the requested quantity is not
	// defined, such as an angle over a zero-length arm or an alignment whose
	// optimal rotation is not unique.
	ErrDegenerate = errors.New("degenerate geometry")
)
