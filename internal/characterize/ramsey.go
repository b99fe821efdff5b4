// Package characterize builds standard noise-characterization
// experiments on top of the pulse compiler, currently free-induction
// (Ramsey) contrast decay scans.
package characterize

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/qpulse/qpulse/internal/circuit"
	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/noise"
)

// RamseyCircuit builds the pulse-level Ramsey experiment on qubit 0: a
// pi/2 rotation about X, a free-evolution delay of the given duration
// and a closing pi/2 rotation about X.
func RamseyCircuit(delay int, specs hardware.Specs) (*circuit.Circuit, error) {
	if delay < 1 {
		return nil, fmt.Errorf("ramsey delay must be positive, got %d: %w",
			delay, hardware.ErrConfiguration)
	}
	layers := [][]circuit.Gate{
		{{Kind: circuit.GateRX, Qubits: []int{0}, Angle: math.Pi / 2}},
		{{Kind: circuit.GateDelay, Qubits: []int{0}, Duration: delay}},
		{{Kind: circuit.GateRX, Qubits: []int{0}, Angle: math.Pi / 2}},
	}
	return circuit.FromGates(specs.NumQubits, layers, specs)
}

// Contrast evaluates the population contrast of one realization of a
// Ramsey circuit: applying the circuit unitary to qubit 0 prepared in
// |0>, it returns P0 - P1 of that qubit.
func Contrast(c *circuit.Circuit) (float64, error) {
	u, err := c.Unitary()
	if err != nil {
		return 0, err
	}
	// Column 0 of the unitary is the state evolved from |0...0>. Qubit 0
	// is the leftmost tensor factor, so the top half of the column is
	// its |0> branch.
	dim := u.Dim()
	var p0, p1 float64
	for i := 0; i < dim; i++ {
		p := cmplx.Abs(u.At(i, 0))
		if i < dim/2 {
			p0 += p * p
		} else {
			p1 += p * p
		}
	}
	return p0 - p1, nil
}

// ContrastScan estimates the noise-averaged Ramsey contrast at every
// delay in the scan. The environment traces are regenerated between
// delay points so successive points see independent noise.
func ContrastScan(specs hardware.Specs, env *noise.Environment, delays []int) ([]float64, error) {
	out := make([]float64, len(delays))
	for j, delay := range delays {
		ramsey, err := RamseyCircuit(delay, specs)
		if err != nil {
			return nil, fmt.Errorf("ramsey delay %d: %w", delay, err)
		}
		var sum float64
		n := ramsey.SampleBudget(env)
		err = ramsey.ForEachSample(env, func(int) error {
			c, err := Contrast(ramsey)
			if err != nil {
				return err
			}
			sum += c
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("ramsey delay %d: %w", delay, err)
		}
		out[j] = sum / float64(n)
		if env != nil {
			if err := env.GenerateTraces(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
