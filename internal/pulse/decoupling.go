package pulse

import (
	"fmt"
	"math"

	"github.com/qpulse/qpulse/internal/hardware"
)

// expandIdle replaces an idle window with the decoupling pattern the
// hardware specs select. Every pattern reconstructs to exactly the
// original idle duration; windows too short to host the pattern are
// returned unchanged.
func expandIdle(idle *Idle, specs hardware.Specs) ([]Instruction, error) {
	switch specs.Decoupling {
	case hardware.DecouplingNone:
		return []Instruction{idle}, nil
	case hardware.DecouplingSpinEcho:
		return expandSpinEcho(idle, specs)
	case hardware.DecouplingFullDrive:
		return expandFullDrive(idle, specs)
	default:
		return nil, fmt.Errorf("dynamical decoupling mode %v: %w",
			specs.Decoupling, hardware.ErrConfiguration)
	}
}

// expandSpinEcho splits the idle window around two pi rotations about X.
// The duration remainder lands in the second idle pad so the pattern
// conserves the window length exactly.
func expandSpinEcho(idle *Idle, specs hardware.Specs) ([]Instruction, error) {
	qubits := idle.Qubits()
	pi1, err := FromAngle(AxisX, qubits, math.Pi, specs)
	if err != nil {
		return nil, err
	}
	pi2, err := FromAngle(AxisX, qubits, math.Pi, specs)
	if err != nil {
		return nil, err
	}
	free := idle.Duration() - pi1.Duration() - pi2.Duration()
	half := free / 2
	if half < 1 || free-half < 1 {
		return []Instruction{idle}, nil
	}
	return []Instruction{
		NewIdle(qubits, half),
		pi1,
		NewIdle(qubits, free-half),
		pi2,
	}, nil
}

// expandFullDrive tiles the idle window with repeated 2*pi rotations. A
// full revolution contributes no net rotation but continuously averages
// low-frequency noise. The final partial tile stays a plain idle.
func expandFullDrive(idle *Idle, specs hardware.Specs) ([]Instruction, error) {
	qubits := idle.Qubits()
	probe, err := FromAngle(AxisX, qubits, 2*math.Pi, specs)
	if err != nil {
		return nil, err
	}
	tile := probe.Duration()
	n := idle.Duration() / tile
	if n == 0 {
		return []Instruction{idle}, nil
	}
	out := make([]Instruction, 0, n+1)
	for i := 0; i < n; i++ {
		rot, err := FromAngle(AxisX, qubits, 2*math.Pi, specs)
		if err != nil {
			return nil, err
		}
		out = append(out, rot)
	}
	if rem := idle.Duration() - n*tile; rem > 0 {
		out = append(out, NewIdle(qubits, rem))
	}
	return out, nil
}
