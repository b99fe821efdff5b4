package linalg

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMulIdentity(t *testing.T) {
	a := FromSlice(2, []complex128{1, 2i, 3, 4 + 1i})
	got := Mul(a, Identity(2))
	if !EqualApprox(got, a, 1e-15) {
		t.Errorf("a*I != a, max diff %g", MaxAbsDiff(got, a))
	}
	got = Mul(Identity(2), a)
	if !EqualApprox(got, a, 1e-15) {
		t.Errorf("I*a != a, max diff %g", MaxAbsDiff(got, a))
	}
}

func TestDagger(t *testing.T) {
	a := FromSlice(2, []complex128{1, 2 + 1i, 3 - 4i, 5i})
	d := Dagger(a)
	want := FromSlice(2, []complex128{1, 3 + 4i, 2 - 1i, -5i})
	if !EqualApprox(d, want, 0) {
		t.Errorf("Dagger mismatch")
	}
}

func TestKronDimensionsAndValues(t *testing.T) {
	x := FromSlice(2, []complex128{0, 1, 1, 0})
	z := FromSlice(2, []complex128{1, 0, 0, -1})
	k := Kron(x, z)
	if k.Dim() != 4 {
		t.Fatalf("Kron dim = %d, want 4", k.Dim())
	}
	// X ⊗ Z swaps the two-dimensional blocks and applies Z inside.
	want := FromSlice(4, []complex128{
		0, 0, 1, 0,
		0, 0, 0, -1,
		1, 0, 0, 0,
		0, -1, 0, 0,
	})
	if !EqualApprox(k, want, 0) {
		t.Errorf("Kron(X, Z) mismatch")
	}
}

func TestEigHermitian(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want []float64 // sorted ascending
	}{
		{
			name: "pauli x",
			m:    FromSlice(2, []complex128{0, 1, 1, 0}),
			want: []float64{-1, 1},
		},
		{
			name: "pauli y",
			m:    FromSlice(2, []complex128{0, -1i, 1i, 0}),
			want: []float64{-1, 1},
		},
		{
			name: "diagonal",
			m:    FromSlice(2, []complex128{3, 0, 0, -2}),
			want: []float64{-2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals, v := EigHermitian(tt.m)
			sorted := append([]float64(nil), vals...)
			for i := 0; i < len(sorted); i++ {
				for j := i + 1; j < len(sorted); j++ {
					if sorted[j] < sorted[i] {
						sorted[i], sorted[j] = sorted[j], sorted[i]
					}
				}
			}
			for i := range sorted {
				if math.Abs(sorted[i]-tt.want[i]) > 1e-12 {
					t.Errorf("eigenvalue[%d] = %g, want %g", i, sorted[i], tt.want[i])
				}
			}
			// Reconstruct v * diag(vals) * v†.
			n := tt.m.Dim()
			rec := Zeros(n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					var sum complex128
					for k := 0; k < n; k++ {
						sum += v.At(i, k) * complex(vals[k], 0) * cmplx.Conj(v.At(j, k))
					}
					rec.Set(i, j, sum)
				}
			}
			if !EqualApprox(rec, tt.m, 1e-12) {
				t.Errorf("reconstruction error %g", MaxAbsDiff(rec, tt.m))
			}
		})
	}
}

func TestExpMinusIH(t *testing.T) {
	// exp(-i * (θ/2) X) is the RX(θ) rotation.
	theta := math.Pi / 3
	h := Scale(complex(theta/2, 0), FromSlice(2, []complex128{0, 1, 1, 0}))
	u := ExpMinusIH(h)

	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	want := FromSlice(2, []complex128{c, s, s, c})
	if !EqualApprox(u, want, 1e-12) {
		t.Errorf("ExpMinusIH mismatch, max diff %g", MaxAbsDiff(u, want))
	}
	if !IsUnitary(u, 1e-12) {
		t.Errorf("result is not unitary")
	}
}

func TestExpMinusIHZero(t *testing.T) {
	u := ExpMinusIH(Zeros(4))
	if !EqualApprox(u, Identity(4), 1e-13) {
		t.Errorf("exp(0) != identity")
	}
}
