package simulation

import (
	"math"
	"testing"
)

// AssertMeanFidelityBetween asserts that the mean fidelity lies in
// [min, max].
func AssertMeanFidelityBetween(t *testing.T, result Result, min, max float64) {
	t.Helper()
	if result.Mean < min || result.Mean > max {
		t.Errorf("AssertMeanFidelityBetween: mean %.6f not in [%.4f, %.4f]", result.Mean, min, max)
	}
}

// AssertMeanFidelityNear asserts that the mean fidelity equals want
// within tol.
func AssertMeanFidelityNear(t *testing.T, result Result, want, tol float64) {
	t.Helper()
	if math.Abs(result.Mean-want) > tol {
		t.Errorf("AssertMeanFidelityNear: mean %.9f, want %.9f within %g", result.Mean, want, tol)
	}
}

// AssertSamplesBetween asserts that every per-sample fidelity lies in
// [min, max].
func AssertSamplesBetween(t *testing.T, result Result, min, max float64) {
	t.Helper()
	for i, f := range result.Fidelities {
		if f < min || f > max {
			t.Errorf("AssertSamplesBetween: sample %d fidelity %.6f not in [%.4f, %.4f]", i, f, min, max)
		}
	}
}

// AssertSameFidelities asserts that two results have identical
// per-sample fidelities, bit for bit.
func AssertSameFidelities(t *testing.T, a, b Result) {
	t.Helper()
	if len(a.Fidelities) != len(b.Fidelities) {
		t.Fatalf("AssertSameFidelities: %d vs %d samples", len(a.Fidelities), len(b.Fidelities))
	}
	for i := range a.Fidelities {
		if a.Fidelities[i] != b.Fidelities[i] {
			t.Errorf("AssertSameFidelities: sample %d: %.17g vs %.17g", i, a.Fidelities[i], b.Fidelities[i])
		}
	}
}
