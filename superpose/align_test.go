package superpose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mdtools/molgeom/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cloud returns a fresh 10-point configuration with spread in all three
// dimensions, so its optimal rotation is always unique.
func cloud() []geom.Point {
	return []geom.Point{
		geom.XYZ(0, 0, 0),
		geom.XYZ(1.3, 0.2, -0.5),
		geom.XYZ(2.1, -1.7, 0.8),
		geom.XYZ(-0.4, 2.2, 1.9),
		geom.XYZ(3.3, 1.1, -2.2),
		geom.XYZ(-1.8, -0.6, 0.4),
		geom.XYZ(0.9, 3.0, 2.5),
		geom.XYZ(2.7, -2.3, -1.1),
		geom.XYZ(-2.2, 1.4, -0.7),
		geom.XYZ(1.0, 1.0, 1.0),
	}
}

// testRotation is a fixed, unremarkable rigid motion used across the tests:
// 1.244 rad about the (1,2,3) axis plus a shift.
func testRotation() Rotation {
	return rotationFromQuaternion(unitQuaternion(1.244, 1, 2, 3))
}

var testShift = geom.XYZ(0.7, -1.2, 2.5)

func rigidImage(points []geom.Point, r Rotation, shift geom.Point) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = r.Apply(p).Add(shift)
	}
	return out
}

func clonePoints(points []geom.Point) []geom.Point {
	out := make([]geom.Point, len(points))
	for i, p := range points {
		out[i] = p.Clone()
	}
	return out
}

func TestAlign_RecoversRigidMotion(t *testing.T) {
	x := cloud()
	y := rigidImage(cloud(), testRotation(), testShift)

	aligned, err := Align(x, y, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(y, aligned, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("aligned set does not land on reference (-want +got):\n%s", diff)
	}

	d, err := geom.RMSD(aligned, y)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-9)
}

func TestAlign_InputsUntouched(t *testing.T) {
	x := cloud()
	y := rigidImage(cloud(), testRotation(), testShift)
	xBefore := clonePoints(x)
	yBefore := clonePoints(y)

	_, err := Align(x, y, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(xBefore, x); diff != "" {
		t.Errorf("Align mutated x:\n%s", diff)
	}
	if diff := cmp.Diff(yBefore, y); diff != "" {
		t.Errorf("Align mutated y:\n%s", diff)
	}
}

func TestAlign_SelfIsIdentity(t *testing.T) {
	x := cloud()
	aligned, err := Align(x, cloud(), nil)
	require.NoError(t, err)
	if diff := cmp.Diff(x, aligned, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("aligning a set onto itself moved it (-want +got):\n%s", diff)
	}
}

func TestAlignInPlace_WritesXOnly(t *testing.T) {
	x := cloud()
	y := rigidImage(cloud(), testRotation(), testShift)
	yBefore := clonePoints(y)

	// The copy variant runs the same arithmetic, so it predicts the
	// in-place result exactly.
	want, err := Align(x, y, nil)
	require.NoError(t, err)

	require.NoError(t, AlignInPlace(x, y, nil))

	if diff := cmp.Diff(want, x); diff != "" {
		t.Errorf("in-place result differs from copy variant:\n%s", diff)
	}
	if diff := cmp.Diff(yBefore, y); diff != "" {
		t.Errorf("AlignInPlace touched y:\n%s", diff)
	}
}

func TestAlign_UniformWeightsMatchUnweighted(t *testing.T) {
	x := cloud()
	y := rigidImage(cloud(), testRotation(), testShift)
	weights := make([]float64, len(x))
	for i := range weights {
		weights[i] = 2.0
	}

	plain, err := Align(x, y, nil)
	require.NoError(t, err)
	weighted, err := Align(x, y, weights)
	require.NoError(t, err)

	if diff := cmp.Diff(plain, weighted, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("uniform weights changed the alignment (-plain +weighted):\n%s", diff)
	}
}

func TestAlign_ZeroWeightIgnoresPair(t *testing.T) {
	x := cloud()
	y := rigidImage(cloud(), testRotation(), testShift)
	y[0] = geom.XYZ(99, -99, 42) // corrupt one pair

	weights := make([]float64, len(x))
	for i := range weights {
		weights[i] = 1
	}
	weights[0] = 0

	aligned, err := Align(x, y, weights)
	require.NoError(t, err)

	// Every carried pair still lands on the reference; the zero-weight
	// pair plays no part in the fit.
	if diff := cmp.Diff(y[1:], aligned[1:], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("weighted alignment missed the carried pairs (-want +got):\n%s", diff)
	}

	minimum, err := MinRMSD(x, y, weights)
	require.NoError(t, err)
	assert.InDelta(t, 0, minimum, 1e-6)
}

func TestOptimalRotation_RecoversExactRotation(t *testing.T) {
	want := testRotation()
	x := cloud()
	y := rigidImage(cloud(), want, testShift)

	got, err := OptimalRotation(x, y, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1, got.Det(), 1e-12)
	require.True(t, got.IsProper(1e-9))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "matrix entry %d", i)
	}
}

func TestMinRMSD_MatchesAlignedRMSD(t *testing.T) {
	x := cloud()
	y := rigidImage(cloud(), testRotation(), testShift)
	// Fixed perturbations so the optimum is strictly positive.
	deltas := []geom.Point{
		geom.XYZ(0.03, -0.01, 0.02),
		geom.XYZ(-0.02, 0.04, 0.01),
		geom.XYZ(0.01, 0.01, -0.03),
		geom.XYZ(-0.04, 0.02, 0.02),
		geom.XYZ(0.02, -0.03, -0.01),
		geom.XYZ(0.01, 0.02, 0.04),
		geom.XYZ(-0.01, -0.02, 0.03),
		geom.XYZ(0.03, 0.01, -0.02),
		geom.XYZ(-0.02, -0.04, 0.01),
		geom.XYZ(0.04, 0.03, 0.02),
	}
	for i := range y {
		y[i] = y[i].Add(deltas[i])
	}

	direct, err := MinRMSD(x, y, nil)
	require.NoError(t, err)
	assert.Greater(t, direct, 0.0)

	aligned, err := Align(x, y, nil)
	require.NoError(t, err)
	measured, err := geom.RMSD(aligned, y)
	require.NoError(t, err)
	assert.InDelta(t, measured, direct, 1e-9)

	// The optimal residual does not depend on which set is mobile.
	reverse, err := MinRMSD(y, x, nil)
	require.NoError(t, err)
	assert.InDelta(t, direct, reverse, 1e-9)
}

func TestAlign_Errors(t *testing.T) {
	valid := cloud()
	tests := []struct {
		name    string
		x, y    []geom.Point
		weights []float64
		want    error
	}{
		{"length mismatch", valid[:3], valid[:4], nil, geom.ErrDimensionMismatch},
		{"empty", nil, nil, nil, geom.ErrEmptyInput},
		{"non 3d mobile", []geom.Point{{1, 2}}, valid[:1], nil, geom.ErrDimensionMismatch},
		{"non 3d reference", valid[:1], []geom.Point{{1, 2, 3, 4}}, nil, geom.ErrDimensionMismatch},
		{"weight count", valid[:3], valid[:3], []float64{1, 2}, geom.ErrDimensionMismatch},
		{"negative weight", valid[:3], valid[:3], []float64{1, -1, 1}, geom.ErrInvalidWeights},
		{"zero weight total", valid[:3], valid[:3], []float64{0, 0, 0}, geom.ErrInvalidWeights},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Align(tc.x, tc.y, tc.weights)
			require.ErrorIs(t, err, tc.want)
		})
	}

	// The other entry points share the validation path.
	err := AlignInPlace(valid[:3], valid[:4], nil)
	require.ErrorIs(t, err, geom.ErrDimensionMismatch)
	_, err = MinRMSD(nil, nil, nil)
	require.ErrorIs(t, err, geom.ErrEmptyInput)
	_, err = OptimalRotation(valid[:3], valid[:4], nil)
	require.ErrorIs(t, err, geom.ErrDimensionMismatch)
}

func TestAlign_DegenerateConfigurations(t *testing.T) {
	line := []geom.Point{
		geom.XYZ(0, 0, 0),
		geom.XYZ(1, 1, 0),
		geom.XYZ(2, 2, 0),
		geom.XYZ(3, 3, 0),
		geom.XYZ(4, 4, 0),
	}
	same := geom.XYZ(1, 2, 3)

	tests := []struct {
		name string
		x, y []geom.Point
	}{
		{"single pair", []geom.Point{geom.XYZ(1, 2, 3)}, []geom.Point{geom.XYZ(4, 5, 6)}},
		{"two points", cloud()[:2], cloud()[:2]},
		{"coincident mobile", []geom.Point{same, same, same, same}, cloud()[:4]},
		{"colinear mobile", line, cloud()[:5]},
		{"colinear both", line, rigidImage(line, testRotation(), testShift)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Align(tc.x, tc.y, nil)
			require.ErrorIs(t, err, geom.ErrDegenerate)
		})
	}
}
