package pulse

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/linalg"
	"github.com/qpulse/qpulse/internal/quantum"
)

// Sequence is an ordered concatenation of instructions over one fixed
// qubit subset. Duration and per-instruction offsets are recomputed from
// the instruction list on every mutation, so they can never desynchronize.
type Sequence struct {
	qubits       []int
	instructions []Instruction
	duration     int
	starts       []int

	// trace holds the attached noise window over the full sequence
	// duration, nil when no trace is attached.
	trace []float64
}

// NewSequence builds a sequence from one or more instructions sharing
// the same qubit subset.
func NewSequence(instructions ...Instruction) (*Sequence, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("sequence needs at least one instruction: %w", hardware.ErrConfiguration)
	}
	qubits := instructions[0].Qubits()
	for _, in := range instructions[1:] {
		if !slices.Equal(in.Qubits(), qubits) {
			return nil, fmt.Errorf("instruction on qubits %v in a sequence over qubits %v: %w",
				in.Qubits(), qubits, ErrDimensionality)
		}
	}
	s := &Sequence{qubits: qubits, instructions: instructions}
	s.recompute()
	return s, nil
}

// recompute rederives duration and relative start offsets from the
// instruction list.
func (s *Sequence) recompute() {
	s.starts = make([]int, len(s.instructions))
	total := 0
	for i, in := range s.instructions {
		s.starts[i] = total
		total += in.Duration()
	}
	s.duration = total
}

// Qubits returns the qubit subset every instruction acts on.
func (s *Sequence) Qubits() []int { return s.qubits }

// NumQubits returns the size of the qubit subset.
func (s *Sequence) NumQubits() int { return len(s.qubits) }

// Duration returns the total sequence duration.
func (s *Sequence) Duration() int { return s.duration }

// Len returns the number of instructions.
func (s *Sequence) Len() int { return len(s.instructions) }

// Instruction returns the i-th instruction.
func (s *Sequence) Instruction(i int) Instruction { return s.instructions[i] }

// StartOf returns the relative start offset of the i-th instruction.
func (s *Sequence) StartOf(i int) int { return s.starts[i] }

// Trace returns the attached noise window, nil when none is attached.
func (s *Sequence) Trace() []float64 { return s.trace }

// IsIdle reports whether every instruction in the sequence is an idle.
func (s *Sequence) IsIdle() bool {
	for _, in := range s.instructions {
		if !isIdle(in) {
			return false
		}
	}
	return true
}

// Append adds an instruction at the end of the sequence.
func (s *Sequence) Append(in Instruction) error {
	if !slices.Equal(in.Qubits(), s.qubits) {
		return fmt.Errorf("appending instruction on qubits %v to a sequence over qubits %v: %w",
			in.Qubits(), s.qubits, ErrDimensionality)
	}
	s.instructions = append(s.instructions, in)
	s.recompute()
	return nil
}

// Insert places an instruction at the given position. Negative positions
// count from the end, -1 inserting after the last instruction. Out of
// range positions clamp to the nearest end.
func (s *Sequence) Insert(pos int, in Instruction) error {
	if !slices.Equal(in.Qubits(), s.qubits) {
		return fmt.Errorf("inserting instruction on qubits %v into a sequence over qubits %v: %w",
			in.Qubits(), s.qubits, ErrDimensionality)
	}
	if pos < 0 {
		pos = len(s.instructions) + pos + 1
	}
	pos = min(max(pos, 0), len(s.instructions))
	s.instructions = slices.Insert(s.instructions, pos, in)
	s.recompute()
	return nil
}

// AdjustDuration pads the sequence with a trailing idle up to the target
// duration. A target shorter than the current duration is a scheduling
// slack miscalculation on the caller side, not a structural violation:
// the sequence is left unchanged, a warning is logged and false is
// returned.
func (s *Sequence) AdjustDuration(target int) bool {
	if target < s.duration {
		slog.Warn("cannot shrink pulse sequence, leaving it unchanged",
			"qubits", s.qubits, "duration", s.duration, "target", target)
		return false
	}
	if target > s.duration {
		s.instructions = append(s.instructions, NewIdle(s.qubits, target-s.duration))
		s.recompute()
	}
	return true
}

// AttachTimeTrace maps a noise window onto the sequence time domain. The
// window must span the full sequence duration. With onlyIdle set, active
// instructions are explicitly left noiseless and only idle periods
// receive their slice of the window.
func (s *Sequence) AttachTimeTrace(window []float64, onlyIdle bool) error {
	if len(s.qubits) != 1 {
		return fmt.Errorf("attaching a dephasing trace to a sequence over qubits %v: %w",
			s.qubits, ErrDimensionality)
	}
	if len(window) != s.duration {
		return fmt.Errorf("trace window of length %d for a sequence of duration %d on qubit %d: %w",
			len(window), s.duration, s.qubits[0], quantum.ErrShapeMismatch)
	}
	s.trace = make([]float64, s.duration)
	for i, in := range s.instructions {
		if onlyIdle && !isIdle(in) {
			continue
		}
		ta := s.starts[i]
		copy(s.trace[ta:ta+in.Duration()], window[ta:ta+in.Duration()])
	}
	return nil
}

// ClearTimeTrace detaches any attached noise window.
func (s *Sequence) ClearTimeTrace() { s.trace = nil }

// ToHamiltonian merges every instruction's generator and coefficients
// into per-generator coefficient arrays spanning the full sequence
// duration. When a dephasing trace is attached, an extra Z/2 detuning
// generator driven by the trace is appended.
func (s *Sequence) ToHamiltonian() ([]linalg.Matrix, [][]float64) {
	n := len(s.instructions)
	if s.trace != nil {
		n++
	}
	gens := make([]linalg.Matrix, 0, n)
	coeffs := make([][]float64, 0, n)
	for i, in := range s.instructions {
		g, c := in.Generator()
		full := make([]float64, s.duration)
		copy(full[s.starts[i]:], c)
		gens = append(gens, g)
		coeffs = append(coeffs, full)
	}
	if s.trace != nil {
		gens = append(gens, quantum.GeneratorZ())
		coeffs = append(coeffs, slices.Clone(s.trace))
	}
	return gens, coeffs
}

// ToDynamicalDecoupling returns a new sequence in which every idle
// instruction is replaced by the decoupling expansion the hardware specs
// select. Non-idle instructions are kept unchanged. The receiver is not
// mutated. Only single-qubit sequences can be decoupled.
func (s *Sequence) ToDynamicalDecoupling(specs hardware.Specs) (*Sequence, error) {
	if len(s.qubits) != 1 {
		return nil, fmt.Errorf("dynamical decoupling on a sequence over qubits %v: %w",
			s.qubits, ErrDimensionality)
	}
	out := make([]Instruction, 0, len(s.instructions))
	for _, in := range s.instructions {
		idle, ok := in.(*Idle)
		if !ok {
			out = append(out, in)
			continue
		}
		expanded, err := expandIdle(idle, specs)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return NewSequence(out...)
}

func (s *Sequence) String() string {
	return fmt.Sprintf("Sequence{qubits: %v, instructions: %d, duration: %d}",
		s.qubits, len(s.instructions), s.duration)
}
