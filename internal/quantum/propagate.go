package quantum

import (
	"errors"
	"fmt"

	"github.com/qpulse/qpulse/internal/linalg"
)

// ErrShapeMismatch reports that a generator list and its coefficient
// arrays do not describe a consistent time-dependent Hamiltonian.
var ErrShapeMismatch = errors.New("generator/coefficient shape mismatch")

// Propagate computes the total unitary evolution generated by a
// time-dependent Hamiltonian H(t) = Σ_j coeffs[j][t] * gens[j].
//
// For each time step the instantaneous generator is exponentiated
// exactly (exp(-i*G_t), one normalized time unit per step) and
// left-multiplied onto the accumulated unitary. The per-step
// exponential is exact; the piecewise-constant treatment of genuinely
// continuous pulses is the only approximation, so finer discretization
// improves fidelity to the true evolution.
//
// Every coefficient array must have the same length; their count must
// match the generator count. Violations return ErrShapeMismatch.
func Propagate(gens []linalg.Matrix, coeffs [][]float64) (linalg.Matrix, error) {
	if len(gens) == 0 {
		return linalg.Matrix{}, fmt.Errorf("no generators given: %w", ErrShapeMismatch)
	}
	if len(gens) != len(coeffs) {
		return linalg.Matrix{}, fmt.Errorf(
			"%d generators against %d coefficient arrays: %w",
			len(gens), len(coeffs), ErrShapeMismatch)
	}
	steps := len(coeffs[0])
	for j := range coeffs {
		if len(coeffs[j]) != steps {
			return linalg.Matrix{}, fmt.Errorf(
				"coefficient array %d has %d steps, array 0 has %d"+
					" (pulse sequences of different durations in one layer?): %w",
				j, len(coeffs[j]), steps, ErrShapeMismatch)
		}
	}
	d := gens[0].Dim()
	for j := range gens {
		if gens[j].Dim() != d {
			return linalg.Matrix{}, fmt.Errorf(
				"generator %d is %dx%d, generator 0 is %dx%d: %w",
				j, gens[j].Dim(), gens[j].Dim(), d, d, ErrShapeMismatch)
		}
	}

	u := linalg.Identity(d)
	gt := linalg.Zeros(d)
	for t := 0; t < steps; t++ {
		gt = linalg.Zeros(d)
		for j := range gens {
			if c := coeffs[j][t]; c != 0 {
				gt.AddScaled(complex(c, 0), gens[j])
			}
		}
		u = linalg.Mul(linalg.ExpMinusIH(gt), u)
	}
	return u, nil
}
