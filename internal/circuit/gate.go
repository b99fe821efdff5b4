// Package circuit assembles calibrated pulse sequences into synchronized
// layers and full pulse-level circuits, attaches noise traces across the
// global time axis and averages unitaries or fidelities over Monte-Carlo
// noise samples.
package circuit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qpulse/qpulse/internal/linalg"
)

// ErrUnsupportedOperation reports a host gate name outside the native
// set the device compiles to.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// GateKind is the closed set of host operations the pulse compiler
// understands.
type GateKind int

const (
	GateRX GateKind = iota
	GateRY
	GateRZ
	GateRZZ
	GateDelay
)

// String returns the host-facing gate name.
func (k GateKind) String() string {
	switch k {
	case GateRX:
		return "rx"
	case GateRY:
		return "ry"
	case GateRZ:
		return "rz"
	case GateRZZ:
		return "rzz"
	case GateDelay:
		return "delay"
	default:
		return fmt.Sprintf("GateKind(%d)", int(k))
	}
}

// ParseGate maps a host operation name to a GateKind.
func ParseGate(name string) (GateKind, error) {
	switch strings.ToLower(name) {
	case "rx":
		return GateRX, nil
	case "ry":
		return GateRY, nil
	case "rz":
		return GateRZ, nil
	case "rzz":
		return GateRZZ, nil
	case "delay":
		return GateDelay, nil
	default:
		return 0, fmt.Errorf("gate %q, supported gates are rx, ry, rz, rzz, delay: %w",
			name, ErrUnsupportedOperation)
	}
}

// Gate is one host circuit operation: a named native gate applied to an
// ordered list of qubits. Angle carries the rotation parameter of rx,
// ry, rz and rzz; Duration carries the length of a delay.
type Gate struct {
	Kind     GateKind
	Qubits   []int
	Angle    float64
	Duration int
}

// Unitary is one opaque propagated block of a layer: a 2x2 or 4x4
// matrix together with the qubits it acts on. Layer conversion yields
// these for recomposition into the host representation.
type Unitary struct {
	Matrix linalg.Matrix
	Qubits []int
}
