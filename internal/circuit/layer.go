package circuit

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/linalg"
	"github.com/qpulse/qpulse/internal/pulse"
	"github.com/qpulse/qpulse/internal/quantum"
)

// Layer groups the one- and two-qubit pulse sequences that execute over
// one shared time window. Every sequence is padded to the layer duration
// and every device qubit owns exactly one one-qubit sequence.
type Layer struct {
	numQubits int
	duration  int
	tStart    int

	// oneQubit holds one sequence per device qubit, indexed by qubit.
	oneQubit []*pulse.Sequence

	// twoQubit holds the exchange-coupling sequences of the layer.
	twoQubit []*pulse.Sequence

	oneQActive []int
	twoQActive []int
	idle       []int
}

// NewLayer assembles a layer from the per-gate sequences: it pads every
// sequence to the maximal duration, pins an idle-only sequence on every
// undriven qubit and classifies qubits by activity.
func NewLayer(numQubits int, oneQubit, twoQubit []*pulse.Sequence) (*Layer, error) {
	if len(oneQubit)+len(twoQubit) == 0 {
		return nil, fmt.Errorf("layer without pulse sequences: %w", hardware.ErrConfiguration)
	}
	duration := 0
	for _, s := range append(slices.Clone(oneQubit), twoQubit...) {
		duration = max(duration, s.Duration())
	}
	for _, s := range oneQubit {
		s.AdjustDuration(duration)
	}
	for _, s := range twoQubit {
		s.AdjustDuration(duration)
	}

	l := &Layer{
		numQubits: numQubits,
		duration:  duration,
		oneQubit:  make([]*pulse.Sequence, numQubits),
		twoQubit:  twoQubit,
	}
	for _, s := range oneQubit {
		q := s.Qubits()[0]
		if q < 0 || q >= numQubits {
			return nil, fmt.Errorf("sequence on qubit %d outside a %d-qubit device: %w",
				q, numQubits, hardware.ErrConfiguration)
		}
		if l.oneQubit[q] != nil {
			return nil, fmt.Errorf("qubit %d driven by two one-qubit sequences in the same layer: %w",
				q, hardware.ErrConfiguration)
		}
		l.oneQubit[q] = s
	}
	for _, s := range twoQubit {
		for _, q := range s.Qubits() {
			if q < 0 || q >= numQubits {
				return nil, fmt.Errorf("coupling sequence on qubit %d outside a %d-qubit device: %w",
					q, numQubits, hardware.ErrConfiguration)
			}
		}
	}
	for q := 0; q < numQubits; q++ {
		if l.oneQubit[q] == nil {
			s, err := pulse.NewSequence(pulse.NewIdle([]int{q}, duration))
			if err != nil {
				return nil, err
			}
			l.oneQubit[q] = s
		}
	}
	l.classify()
	return l, nil
}

// classify splits the device qubits into active-one-qubit, active-two-
// qubit and idle. A qubit referenced by a coupling sequence is never
// idle, even when its one-qubit sequence is.
func (l *Layer) classify() {
	coupled := make(map[int]bool)
	l.twoQActive = l.twoQActive[:0]
	for _, s := range l.twoQubit {
		for _, q := range s.Qubits() {
			if !coupled[q] {
				coupled[q] = true
				l.twoQActive = append(l.twoQActive, q)
			}
		}
	}
	l.oneQActive = l.oneQActive[:0]
	l.idle = l.idle[:0]
	for q := 0; q < l.numQubits; q++ {
		switch {
		case coupled[q]:
		case l.oneQubit[q].IsIdle():
			l.idle = append(l.idle, q)
		default:
			l.oneQActive = append(l.oneQActive, q)
		}
	}
}

// LayerFromGates translates one host circuit layer into a pulse layer:
// every gate becomes one or more calibrated pulse sequences, then the
// layer is assembled and padded.
func LayerFromGates(numQubits int, gates []Gate, specs hardware.Specs) (*Layer, error) {
	var oneQubit, twoQubit []*pulse.Sequence
	for _, g := range gates {
		switch g.Kind {
		case GateRX, GateRY, GateRZ:
			axis := map[GateKind]pulse.Axis{
				GateRX: pulse.AxisX,
				GateRY: pulse.AxisY,
				GateRZ: pulse.AxisZ,
			}[g.Kind]
			if len(g.Qubits) != 1 {
				return nil, fmt.Errorf("%s on qubits %v: %w", g.Kind, g.Qubits, pulse.ErrDimensionality)
			}
			rot, err := pulse.FromAngle(axis, g.Qubits, g.Angle, specs)
			if err != nil {
				return nil, err
			}
			seq, err := pulse.NewSequence(rot)
			if err != nil {
				return nil, err
			}
			oneQubit = append(oneQubit, seq)

		case GateRZZ:
			oneQ, twoQ, err := rzzSequences(g, specs)
			if err != nil {
				return nil, err
			}
			oneQubit = append(oneQubit, oneQ...)
			twoQubit = append(twoQubit, twoQ)

		case GateDelay:
			if g.Duration < 1 {
				slog.Warn("delay gate with duration below one step, clamping to 1",
					"qubits", g.Qubits, "duration", g.Duration)
			}
			seq, err := pulse.NewSequence(pulse.NewIdle(g.Qubits, g.Duration))
			if err != nil {
				return nil, err
			}
			oneQubit = append(oneQubit, seq)

		default:
			return nil, fmt.Errorf("gate %v: %w", g.Kind, ErrUnsupportedOperation)
		}
	}
	return NewLayer(numQubits, oneQubit, twoQubit)
}

// rzzSequences builds the three-part exchange pattern of an rzz gate:
// an idle ramp, a calibrated Heisenberg pulse and a closing idle ramp on
// the qubit pair, plus one compensating detuning rotation per qubit of
// identical total duration. The compensation amplitude scales with the
// exchange amplitude so it cancels the cross-term accumulated during
// the coupling pulse and vanishes at zero angle.
func rzzSequences(g Gate, specs hardware.Specs) ([]*pulse.Sequence, *pulse.Sequence, error) {
	if len(g.Qubits) != 2 {
		return nil, nil, fmt.Errorf("rzz on qubits %v: %w", g.Qubits, pulse.ErrDimensionality)
	}
	if g.Qubits[1] != g.Qubits[0]+1 {
		return nil, nil, fmt.Errorf("rzz on non-adjacent qubits %v: %w", g.Qubits, hardware.ErrConfiguration)
	}
	heis, err := pulse.FromAngle(pulse.AxisHeisenberg, g.Qubits, g.Angle, specs)
	if err != nil {
		return nil, nil, err
	}
	parts := []pulse.Instruction{heis}
	if specs.RampDuration > 0 {
		parts = []pulse.Instruction{
			pulse.NewIdle(g.Qubits, specs.RampDuration),
			heis,
			pulse.NewIdle(g.Qubits, specs.RampDuration),
		}
	}
	twoQ, err := pulse.NewSequence(parts...)
	if err != nil {
		return nil, nil, err
	}

	amplitude := specs.Delta * heis.Amplitude() / specs.JCoupling
	oneQ := make([]*pulse.Sequence, 0, 2)
	for i, sign := range []float64{-1, 1} {
		comp, err := pulse.NewSquareRotation(pulse.AxisZ, []int{g.Qubits[i]},
			amplitude, sign, specs.RampDuration, twoQ.Duration())
		if err != nil {
			return nil, nil, err
		}
		seq, err := pulse.NewSequence(comp)
		if err != nil {
			return nil, nil, err
		}
		oneQ = append(oneQ, seq)
	}
	return oneQ, twoQ, nil
}

// NumQubits returns the device register size.
func (l *Layer) NumQubits() int { return l.numQubits }

// Duration returns the layer duration all sequences are padded to.
func (l *Layer) Duration() int { return l.duration }

// TStart returns the layer start offset on the circuit time axis.
func (l *Layer) TStart() int { return l.tStart }

// OneQubit returns the one-qubit sequence of the given qubit.
func (l *Layer) OneQubit(q int) *pulse.Sequence { return l.oneQubit[q] }

// TwoQubit returns the coupling sequences of the layer.
func (l *Layer) TwoQubit() []*pulse.Sequence { return l.twoQubit }

// ActiveOneQubit returns the qubits driven by a non-idle one-qubit
// sequence and not referenced by any coupling sequence.
func (l *Layer) ActiveOneQubit() []int { return l.oneQActive }

// ActiveTwoQubit returns the qubits referenced by coupling sequences.
func (l *Layer) ActiveTwoQubit() []int { return l.twoQActive }

// Idle returns the qubits idling through the whole layer.
func (l *Layer) Idle() []int { return l.idle }

// ToUnitaries propagates every sequence of the layer. Coupling sequences
// absorb the one-qubit Hamiltonians of their pair into one 4x4 unitary;
// the remaining qubits each propagate to a 2x2 unitary.
func (l *Layer) ToUnitaries() ([]Unitary, error) {
	var out []Unitary
	treated := make(map[int]bool)
	identity := linalg.Identity(2)

	for _, s := range l.twoQubit {
		q0, q1 := s.Qubits()[0], s.Qubits()[1]
		gens, coeffs := s.ToHamiltonian()
		g0, c0 := l.oneQubit[q0].ToHamiltonian()
		for _, g := range g0 {
			gens = append(gens, linalg.Kron(g, identity))
		}
		coeffs = append(coeffs, c0...)
		g1, c1 := l.oneQubit[q1].ToHamiltonian()
		for _, g := range g1 {
			gens = append(gens, linalg.Kron(identity, g))
		}
		coeffs = append(coeffs, c1...)

		u, err := quantum.Propagate(gens, coeffs)
		if err != nil {
			return nil, fmt.Errorf("propagating coupling sequence on qubits %v: %w", s.Qubits(), err)
		}
		out = append(out, Unitary{Matrix: u, Qubits: []int{q0, q1}})
		treated[q0], treated[q1] = true, true
	}

	for q := 0; q < l.numQubits; q++ {
		if treated[q] {
			continue
		}
		gens, coeffs := l.oneQubit[q].ToHamiltonian()
		u, err := quantum.Propagate(gens, coeffs)
		if err != nil {
			return nil, fmt.Errorf("propagating sequence on qubit %d: %w", q, err)
		}
		out = append(out, Unitary{Matrix: u, Qubits: []int{q}})
	}
	return out, nil
}

// AttachDecoupling replaces every one-qubit sequence with its dynamical
// decoupling expansion. Coupling sequences are never touched. The layer
// duration is unchanged because every expansion conserves duration.
func (l *Layer) AttachDecoupling(specs hardware.Specs) error {
	if specs.Decoupling == hardware.DecouplingNone {
		return nil
	}
	for q, s := range l.oneQubit {
		dd, err := s.ToDynamicalDecoupling(specs)
		if err != nil {
			return fmt.Errorf("decoupling qubit %d: %w", q, err)
		}
		l.oneQubit[q] = dd
	}
	l.classify()
	return nil
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer{duration: %d, coupling: %d, active: %v, idle: %v}",
		l.duration, len(l.twoQubit), l.oneQActive, l.idle)
}
