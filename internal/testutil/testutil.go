// Package testutil provides shared test assertion helpers.
//
// This package centralises the error and numeric-tolerance checks used
// across test files to reduce code duplication and keep failure messages
// uniform.
package testutil

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorIs fails the test unless err matches want under errors.Is.
func AssertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}

// AssertInDelta fails the test if got is NaN or differs from want by more
// than delta.
func AssertInDelta(t *testing.T, want, got, delta float64) {
	t.Helper()
	if !scalar.EqualWithinAbs(got, want, delta) {
		t.Errorf("got %v, want %v (within %v)", got, want, delta)
	}
}

// AssertVecInDelta applies AssertInDelta component-wise after checking that
// the lengths agree.
func AssertVecInDelta(t *testing.T, want, got []float64, delta float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d components, want %d", len(got), len(want))
	}
	for i := range want {
		if !scalar.EqualWithinAbs(got[i], want[i], delta) {
			t.Errorf("component %d = %v, want %v (within %v)", i, got[i], want[i], delta)
		}
	}
}
