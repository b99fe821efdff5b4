package quantum

import (
	"errors"
	"math"
	"testing"

	"github.com/qpulse/qpulse/internal/linalg"
)

func TestPropagateZeroCoefficientsIsIdentity(t *testing.T) {
	gens := []linalg.Matrix{GeneratorX(), GeneratorZ()}
	coeffs := [][]float64{make([]float64, 10), make([]float64, 10)}
	u, err := Propagate(gens, coeffs)
	if err != nil {
		t.Fatalf("Propagate returned error: %v", err)
	}
	if !linalg.EqualApprox(u, linalg.Identity(2), 1e-12) {
		t.Errorf("zero coefficients did not propagate to identity")
	}
}

func TestPropagateRotationX(t *testing.T) {
	// Ten steps, each contributing π/10 about X, total RX(π) = -i X.
	steps := 10
	c := make([]float64, steps)
	for i := range c {
		c[i] = math.Pi / float64(steps)
	}
	u, err := Propagate([]linalg.Matrix{GeneratorX()}, [][]float64{c})
	if err != nil {
		t.Fatalf("Propagate returned error: %v", err)
	}
	want := linalg.Scale(-1i, PauliX)
	if !linalg.EqualApprox(u, want, 1e-10) {
		t.Errorf("RX(pi) mismatch, max diff %g", linalg.MaxAbsDiff(u, want))
	}
}

func TestPropagateUnitarity(t *testing.T) {
	gens := []linalg.Matrix{GeneratorX(), GeneratorZ()}
	coeffs := [][]float64{{0.5, 0.5, 0.1}, {0.2, 0.3, 0.7}}
	u, err := Propagate(gens, coeffs)
	if err != nil {
		t.Fatalf("Propagate returned error: %v", err)
	}
	if !linalg.IsUnitary(u, 1e-12) {
		t.Errorf("propagated matrix is not unitary")
	}
}

func TestPropagateShapeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		gens   []linalg.Matrix
		coeffs [][]float64
	}{
		{
			name:   "count mismatch",
			gens:   []linalg.Matrix{GeneratorX(), GeneratorZ()},
			coeffs: [][]float64{{1, 2}},
		},
		{
			name:   "length mismatch",
			gens:   []linalg.Matrix{GeneratorX(), GeneratorZ()},
			coeffs: [][]float64{{1, 2}, {1, 2, 3}},
		},
		{
			name:   "dimension mismatch",
			gens:   []linalg.Matrix{GeneratorX(), GeneratorHeisenberg()},
			coeffs: [][]float64{{1}, {1}},
		},
		{
			name:   "empty",
			gens:   nil,
			coeffs: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Propagate(tt.gens, tt.coeffs)
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("error = %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestAverageGateFidelity(t *testing.T) {
	u := linalg.Identity(2)
	if f := AverageGateFidelity(u, u); math.Abs(f-1) > 1e-12 {
		t.Errorf("self fidelity = %g, want 1", f)
	}
	// Identity vs X: Tr(X) = 0, so F = 1/(d+1).
	if f := AverageGateFidelity(u, PauliX); math.Abs(f-1.0/3.0) > 1e-12 {
		t.Errorf("fidelity(I, X) = %g, want 1/3", f)
	}
}

func TestSuperOpPreservesIdentity(t *testing.T) {
	s := SuperOp(linalg.Identity(2))
	if !linalg.EqualApprox(s, linalg.Identity(4), 1e-15) {
		t.Errorf("SuperOp(I) != I")
	}
}

func TestEmbedSingleQubit(t *testing.T) {
	// X on qubit 0 of two qubits is X ⊗ I.
	full := Embed(PauliX, []int{0}, 2)
	want := linalg.Kron(PauliX, linalg.Identity(2))
	if !linalg.EqualApprox(full, want, 0) {
		t.Errorf("Embed(X, q0) != X ⊗ I")
	}
	// X on qubit 1 is I ⊗ X.
	full = Embed(PauliX, []int{1}, 2)
	want = linalg.Kron(linalg.Identity(2), PauliX)
	if !linalg.EqualApprox(full, want, 0) {
		t.Errorf("Embed(X, q1) != I ⊗ X")
	}
}

func TestEmbedTwoQubitOrdering(t *testing.T) {
	// Z ⊗ X placed on (q1, q0) of a two-qubit register must equal X ⊗ Z.
	zx := linalg.Kron(PauliZ, PauliX)
	full := Embed(zx, []int{1, 0}, 2)
	want := linalg.Kron(PauliX, PauliZ)
	if !linalg.EqualApprox(full, want, 0) {
		t.Errorf("Embed qubit ordering wrong, max diff %g", linalg.MaxAbsDiff(full, want))
	}
}

func TestLogicalBitstring(t *testing.T) {
	tests := []struct {
		name string
		in   string
		perm []int
		want string
	}{
		{name: "nil permutation", in: "0110", perm: nil, want: "0110"},
		{name: "identity", in: "0110", perm: []int{0, 1, 2, 3}, want: "0110"},
		{name: "swap ends", in: "1000", perm: []int{3, 1, 2, 0}, want: "0001"},
		{name: "short permutation keeps tail", in: "100", perm: []int{1, 0}, want: "010"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LogicalBitstring(tt.in, tt.perm); got != tt.want {
				t.Errorf("LogicalBitstring(%q, %v) = %q, want %q", tt.in, tt.perm, got, tt.want)
			}
		})
	}
}
