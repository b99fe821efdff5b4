// Package hardware describes the static configuration of the simulated
// spin-qubit device: field and coupling limits, the pulse shape used
// for rotations, and the dynamical decoupling policy for idle qubits.
package hardware

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration reports an invalid hardware or experiment
// configuration value.
var ErrConfiguration = errors.New("invalid configuration")

// minField is the smallest accepted control amplitude. Below this the
// calibration search degenerates into absurd pulse durations.
const minField = 1e-3

// Shape selects the envelope used for rotation pulses.
type Shape int

const (
	ShapeSquare Shape = iota
	ShapeGaussian
)

// String returns the config-file spelling of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "square"
	case ShapeGaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape maps a config-file string to a Shape.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "square":
		return ShapeSquare, nil
	case "gaussian":
		return ShapeGaussian, nil
	default:
		return 0, fmt.Errorf("rotation_shape %q (valid: square, gaussian): %w", s, ErrConfiguration)
	}
}

// DecouplingMode selects the pulse pattern inserted into idle periods.
type DecouplingMode int

const (
	DecouplingNone DecouplingMode = iota
	DecouplingSpinEcho
	DecouplingFullDrive
)

// String returns the config-file spelling of the mode.
func (m DecouplingMode) String() string {
	switch m {
	case DecouplingNone:
		return "none"
	case DecouplingSpinEcho:
		return "spin_echo"
	case DecouplingFullDrive:
		return "full_drive"
	default:
		return fmt.Sprintf("DecouplingMode(%d)", int(m))
	}
}

// ParseDecoupling maps a config-file string to a DecouplingMode. The
// empty string means no decoupling.
func ParseDecoupling(s string) (DecouplingMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return DecouplingNone, nil
	case "spin_echo":
		return DecouplingSpinEcho, nil
	case "full_drive":
		return DecouplingFullDrive, nil
	default:
		return 0, fmt.Errorf("dynamical_decoupling %q (valid: none, spin_echo, full_drive): %w", s, ErrConfiguration)
	}
}

// Specs is the immutable hardware description consumed by pulse
// generation. It is constructed once per experiment and never mutated.
type Specs struct {
	// NumQubits is the size of the device register. Couplings exist
	// between adjacent qubits (i, i+1).
	NumQubits int

	// BField is the maximal drive amplitude for x and y rotations.
	BField float64

	// Delta is the maximal detuning amplitude for z rotations.
	Delta float64

	// JCoupling is the maximal exchange amplitude between coupled qubits.
	JCoupling float64

	// RotationShape selects square or gaussian rotation envelopes.
	RotationShape Shape

	// RampDuration is the linear ramp length of square pulses, in time
	// steps. Ignored for gaussian pulses.
	RampDuration int

	// CoeffDuration divides a gaussian pulse's duration to obtain its
	// standard deviation. Ignored for square pulses.
	CoeffDuration int

	// Decoupling is the dynamical decoupling pattern applied to idle
	// periods, or DecouplingNone.
	Decoupling DecouplingMode
}

// Validate checks the physical and structural constraints of the specs.
func (s Specs) Validate() error {
	if s.NumQubits < 1 {
		return fmt.Errorf("num_qubits must be at least 1, got %d: %w", s.NumQubits, ErrConfiguration)
	}
	if s.BField <= minField {
		return fmt.Errorf("B_field too low, must exceed %g, got %g: %w", minField, s.BField, ErrConfiguration)
	}
	if s.Delta <= minField {
		return fmt.Errorf("delta too low, must exceed %g, got %g: %w", minField, s.Delta, ErrConfiguration)
	}
	if s.JCoupling <= minField {
		return fmt.Errorf("J_coupling too low, must exceed %g, got %g: %w", minField, s.JCoupling, ErrConfiguration)
	}
	switch s.RotationShape {
	case ShapeSquare:
		if s.RampDuration < 0 {
			return fmt.Errorf("ramp_duration must be non-negative, got %d: %w", s.RampDuration, ErrConfiguration)
		}
	case ShapeGaussian:
		if s.CoeffDuration <= 0 {
			return fmt.Errorf("coeff_duration must be positive for gaussian pulses, got %d: %w", s.CoeffDuration, ErrConfiguration)
		}
	default:
		return fmt.Errorf("rotation_shape %v: %w", s.RotationShape, ErrConfiguration)
	}
	switch s.Decoupling {
	case DecouplingNone, DecouplingSpinEcho, DecouplingFullDrive:
	default:
		return fmt.Errorf("dynamical_decoupling %v: %w", s.Decoupling, ErrConfiguration)
	}
	return nil
}

// String summarizes the specs for operator-facing output.
func (s Specs) String() string {
	return fmt.Sprintf(
		"HardwareSpecs{qubits: %d, B_field: %g, delta: %g, J_coupling: %g, shape: %s, ramp: %d, coeff: %d, decoupling: %s}",
		s.NumQubits, s.BField, s.Delta, s.JCoupling, s.RotationShape, s.RampDuration, s.CoeffDuration, s.Decoupling)
}
