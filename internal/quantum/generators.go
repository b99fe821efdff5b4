// Package quantum holds the generator matrices of the control model and
// the numerical machinery built on them: unitary propagation of a
// time-dependent Hamiltonian, register embedding, gate fidelities and
// superoperator averaging.
package quantum

import "github.com/qpulse/qpulse/internal/linalg"

// Pauli matrices. Qubit 0 is the leftmost tensor factor throughout the
// package, so an n-qubit basis index reads as the bit string b0 b1 ... b_{n-1}.
var (
	PauliX = linalg.FromSlice(2, []complex128{0, 1, 1, 0})
	PauliY = linalg.FromSlice(2, []complex128{0, -1i, 1i, 0})
	PauliZ = linalg.FromSlice(2, []complex128{1, 0, 0, -1})
)

// GeneratorX, GeneratorY and GeneratorZ are the single-qubit drive
// generators σ/2, so that a coefficient integrating to θ produces a
// rotation by θ about the corresponding axis.
func GeneratorX() linalg.Matrix { return linalg.Scale(0.5, PauliX) }

func GeneratorY() linalg.Matrix { return linalg.Scale(0.5, PauliY) }

func GeneratorZ() linalg.Matrix { return linalg.Scale(0.5, PauliZ) }

// GeneratorHeisenberg is the two-qubit exchange generator
// (XX + YY + ZZ)/2 used by coupling pulses.
func GeneratorHeisenberg() linalg.Matrix {
	xx := linalg.Kron(PauliX, PauliX)
	yy := linalg.Kron(PauliY, PauliY)
	zz := linalg.Kron(PauliZ, PauliZ)
	return linalg.Scale(0.5, linalg.Add(linalg.Add(xx, yy), zz))
}
