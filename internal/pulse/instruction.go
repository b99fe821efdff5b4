// Package pulse represents atomic timed control operations on one or
// two qubits: idle periods and shaped rotations. Every instruction maps
// to a (generator matrix, per-step coefficient) pair that the
// propagation algorithm integrates into a unitary.
package pulse

import (
	"errors"
	"fmt"

	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/linalg"
	"github.com/qpulse/qpulse/internal/quantum"
)

// ErrCalibration reports that no (duration, amplitude) pair realizes a
// requested rotation angle within the hardware field limits.
var ErrCalibration = errors.New("pulse calibration failed")

// ErrDimensionality reports an operation applied outside its qubit-count
// precondition, such as a Heisenberg axis on a single qubit or dynamical
// decoupling on a two-qubit sequence.
var ErrDimensionality = errors.New("invalid qubit dimensionality")

// Axis identifies the generator a rotation couples to. Single-qubit
// rotations use X, Y or Z; the Heisenberg axis is the two-qubit exchange
// interaction and is only valid on qubit pairs.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisHeisenberg
)

// String returns the axis name used in messages and logs.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisHeisenberg:
		return "heisenberg"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// generator returns the Hamiltonian generator the axis couples to.
func (a Axis) generator() linalg.Matrix {
	switch a {
	case AxisX:
		return quantum.GeneratorX()
	case AxisY:
		return quantum.GeneratorY()
	case AxisZ:
		return quantum.GeneratorZ()
	case AxisHeisenberg:
		return quantum.GeneratorHeisenberg()
	default:
		panic(fmt.Sprintf("unknown axis %d", int(a)))
	}
}

// fieldLimit returns the maximal drive amplitude the hardware allows on
// the axis.
func (a Axis) fieldLimit(specs hardware.Specs) float64 {
	switch a {
	case AxisX, AxisY:
		return specs.BField
	case AxisZ:
		return specs.Delta
	case AxisHeisenberg:
		return specs.JCoupling
	default:
		panic(fmt.Sprintf("unknown axis %d", int(a)))
	}
}

// numQubits returns how many qubits a rotation about the axis spans.
func (a Axis) numQubits() int {
	if a == AxisHeisenberg {
		return 2
	}
	return 1
}

// Instruction is one atomic timed control operation. Durations are
// discrete time steps; Envelope evaluates the drive amplitude at every
// step and Generator pairs it with the matrix it multiplies.
type Instruction interface {
	// Qubits returns the ordered qubit subset the instruction acts on.
	Qubits() []int

	// Duration returns the instruction length in time steps, always >= 1.
	Duration() int

	// Envelope returns the drive amplitude at every time step of the
	// instruction, including any attached coupling distortion.
	Envelope() []float64

	// Generator returns the Hamiltonian generator and its per-step
	// coefficients over the instruction duration.
	Generator() (linalg.Matrix, []float64)

	// AdjustDuration resizes the instruction to the given duration. For
	// rotations the amplitude is rescaled analytically so the integrated
	// angle is preserved exactly; for idles only the length changes.
	AdjustDuration(duration int)
}

// Idle is the do-nothing instruction: its generator contributes zero at
// every time step. Idle windows are where noise dephasing accumulates
// and where dynamical decoupling inserts refocusing pulses.
type Idle struct {
	qubits   []int
	duration int
}

// NewIdle builds an idle instruction over the given qubits.
func NewIdle(qubits []int, duration int) *Idle {
	if duration < 1 {
		duration = 1
	}
	return &Idle{qubits: qubits, duration: duration}
}

func (in *Idle) Qubits() []int { return in.qubits }

func (in *Idle) Duration() int { return in.duration }

func (in *Idle) Envelope() []float64 { return make([]float64, in.duration) }

func (in *Idle) Generator() (linalg.Matrix, []float64) {
	dim := 1 << len(in.qubits)
	return linalg.Zeros(dim), make([]float64, in.duration)
}

func (in *Idle) AdjustDuration(duration int) { in.duration = duration }

func (in *Idle) String() string {
	return fmt.Sprintf("Idle{qubits: %v, duration: %d}", in.qubits, in.duration)
}

// isIdle reports whether the instruction is an idle period.
func isIdle(in Instruction) bool {
	_, ok := in.(*Idle)
	return ok
}
