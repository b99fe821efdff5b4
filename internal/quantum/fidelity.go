package quantum

import (
	"math/cmplx"

	"github.com/qpulse/qpulse/internal/linalg"
)

// ProcessFidelity returns |Tr(U†V)|² / d² for two unitaries of equal
// dimension d.
func ProcessFidelity(u, v linalg.Matrix) float64 {
	d := float64(u.Dim())
	tr := linalg.Trace(linalg.Mul(linalg.Dagger(u), v))
	a := cmplx.Abs(tr)
	return a * a / (d * d)
}

// AverageGateFidelity returns the average gate fidelity between two
// unitaries, F = (d·F_pro + 1) / (d + 1).
func AverageGateFidelity(u, v linalg.Matrix) float64 {
	d := float64(u.Dim())
	return (d*ProcessFidelity(u, v) + 1) / (d + 1)
}

// SuperOp returns the superoperator U ⊗ conj(U) of a unitary channel,
// using row-major vectorization of density matrices. Averaging
// superoperators over noise realizations yields the mean channel.
func SuperOp(u linalg.Matrix) linalg.Matrix {
	return linalg.Kron(u, linalg.Conj(u))
}
