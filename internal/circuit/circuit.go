package circuit

import (
	"fmt"
	"log/slog"

	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/linalg"
	"github.com/qpulse/qpulse/internal/noise"
	"github.com/qpulse/qpulse/internal/pulse"
	"github.com/qpulse/qpulse/internal/quantum"
)

// Circuit is the pulse-level representation of a full program: an
// ordered list of layers on a global time axis, plus the laboratory
// time cursor that successive noise attachments advance through the
// shared trace pool.
type Circuit struct {
	numQubits int
	layers    []*Layer
	duration  int

	// tLab is the read cursor into the environment trace pool. Each
	// AttachTimeTraces pass consumes [tLab, tLab+duration) and advances
	// the cursor, so successive samples see disjoint noise windows.
	tLab int
}

// New assembles a circuit from pulse layers: start times become the
// cumulative layer durations and the dynamical decoupling mode of the
// specs is applied to every layer.
func New(numQubits int, layers []*Layer, specs hardware.Specs) (*Circuit, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("circuit on %d qubits has no pulse layers: %w",
			numQubits, hardware.ErrConfiguration)
	}
	c := &Circuit{numQubits: numQubits, layers: layers}
	t := 0
	for _, l := range layers {
		l.tStart = t
		t += l.duration
	}
	c.duration = t
	for i, l := range layers {
		if err := l.AttachDecoupling(specs); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return c, nil
}

// FromGates compiles an ordered list of host circuit layers into a
// pulse circuit. Empty layers are skipped.
func FromGates(numQubits int, layers [][]Gate, specs hardware.Specs) (*Circuit, error) {
	var pulseLayers []*Layer
	for i, gates := range layers {
		if len(gates) == 0 {
			continue
		}
		l, err := LayerFromGates(numQubits, gates, specs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		pulseLayers = append(pulseLayers, l)
	}
	return New(numQubits, pulseLayers, specs)
}

// NumQubits returns the device register size.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Duration returns the total circuit duration.
func (c *Circuit) Duration() int { return c.duration }

// Layers returns the ordered pulse layers.
func (c *Circuit) Layers() []*Layer { return c.layers }

// TLab returns the current laboratory time cursor.
func (c *Circuit) TLab() int { return c.tLab }

// ResetTLab rewinds the laboratory time cursor to the start of the
// trace pool, typically before a fresh Monte-Carlo averaging pass.
func (c *Circuit) ResetTLab() { c.tLab = 0 }

// AttachTimeTraces slices the next circuit-sized window out of the
// environment trace pool and distributes it across layers: every
// one-qubit sequence receives its qubit's dephasing window, and when
// coupling traces exist every active coupling instruction receives a
// multiplicative exchange distortion. The cursor advances by the
// circuit duration. A nil environment detaches all traces.
func (c *Circuit) AttachTimeTraces(env *noise.Environment) error {
	if env == nil {
		for _, l := range c.layers {
			for _, s := range l.oneQubit {
				s.ClearTimeTrace()
			}
			for _, s := range l.twoQubit {
				clearCouplingDistortion(s)
			}
		}
		return nil
	}
	if c.tLab+c.duration > env.Duration {
		return fmt.Errorf("trace pool of duration %d exhausted at cursor %d for a circuit of duration %d: %w",
			env.Duration, c.tLab, c.duration, noise.ErrDuration)
	}
	for _, l := range c.layers {
		for q := 0; q < c.numQubits; q++ {
			window := env.Traces[q].Window(c.tLab+l.tStart, l.duration)
			if err := l.oneQubit[q].AttachTimeTrace(window, env.OnlyIdle); err != nil {
				return fmt.Errorf("attaching dephasing trace to qubit %d: %w", q, err)
			}
		}
		if env.CouplingTraces == nil {
			continue
		}
		for _, s := range l.twoQubit {
			pair := s.Qubits()[0]
			window := env.CouplingTraces[pair].Window(c.tLab+l.tStart, l.duration)
			if err := attachCouplingDistortion(s, window, env.Specs.JCoupling); err != nil {
				return fmt.Errorf("attaching coupling trace to pair (%d,%d): %w",
					pair, pair+1, err)
			}
		}
	}
	c.tLab += c.duration
	return nil
}

// clearCouplingDistortion detaches the exchange distortion from every
// active instruction of a coupling sequence.
func clearCouplingDistortion(s *pulse.Sequence) {
	for i := 0; i < s.Len(); i++ {
		if rot, ok := s.Instruction(i).(pulse.Rotation); ok {
			rot.SetDistortion(nil)
		}
	}
}

// attachCouplingDistortion loads per-step relative exchange deviations
// onto every active instruction of a coupling sequence. Idle ramps stay
// untouched: zero amplitude admits no distortion.
func attachCouplingDistortion(s *pulse.Sequence, window []float64, jCoupling float64) error {
	for i := 0; i < s.Len(); i++ {
		rot, ok := s.Instruction(i).(pulse.Rotation)
		if !ok {
			continue
		}
		ta := s.StartOf(i)
		factors := make([]float64, rot.Duration())
		for t := range factors {
			factors[t] = window[ta+t] / jCoupling
		}
		if err := rot.SetDistortion(factors); err != nil {
			return err
		}
	}
	return nil
}

// Unitary propagates every layer and composes the embedded unitaries in
// time order into the full register evolution.
func (c *Circuit) Unitary() (linalg.Matrix, error) {
	u := linalg.Identity(1 << c.numQubits)
	for i, l := range c.layers {
		blocks, err := l.ToUnitaries()
		if err != nil {
			return linalg.Matrix{}, fmt.Errorf("layer %d: %w", i, err)
		}
		for _, b := range blocks {
			u = linalg.Mul(quantum.Embed(b.Matrix, b.Qubits, c.numQubits), u)
		}
	}
	return u, nil
}

// SampleBudget returns how many disjoint noise windows the environment
// trace pool can serve for this circuit. Without an environment a
// single noiseless sample is available.
func (c *Circuit) SampleBudget(env *noise.Environment) int {
	if env == nil {
		return 1
	}
	return env.Duration / c.duration
}

// ForEachSample rewinds the cursor and runs fn once per available noise
// sample, attaching the sample's trace window first. With a nil
// environment fn runs once on the noiseless circuit.
func (c *Circuit) ForEachSample(env *noise.Environment, fn func(sample int) error) error {
	n := c.SampleBudget(env)
	if n == 0 {
		return fmt.Errorf("trace pool of duration %d shorter than circuit of duration %d: %w",
			env.Duration, c.duration, noise.ErrDuration)
	}
	// A pink spectrum is synthesized per segment, so a segment shorter
	// than the circuit repeats its low-frequency content inside a
	// single window.
	if env != nil && env.Kind == noise.KindPink && env.SegmentDuration < c.duration {
		slog.Warn("pink segment shorter than circuit, expect periodicity artifacts",
			"segment_duration", env.SegmentDuration, "circuit_duration", c.duration)
	}
	c.ResetTLab()
	for i := 0; i < n; i++ {
		if err := c.AttachTimeTraces(env); err != nil {
			return err
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}

// MeanFidelity estimates the average gate fidelity against a reference
// unitary, averaged over every noise sample the environment affords.
func (c *Circuit) MeanFidelity(env *noise.Environment, ref linalg.Matrix) (float64, error) {
	var sum float64
	n := c.SampleBudget(env)
	err := c.ForEachSample(env, func(sample int) error {
		u, err := c.Unitary()
		if err != nil {
			return err
		}
		sum += quantum.AverageGateFidelity(u, ref)
		slog.Debug("fidelity sample", "sample", sample, "running_mean", sum/float64(sample+1))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sum / float64(n), nil
}

// MeanChannel estimates the sample-averaged quantum channel of the
// circuit as a superoperator matrix.
func (c *Circuit) MeanChannel(env *noise.Environment) (linalg.Matrix, error) {
	dim := 1 << c.numQubits
	mean := linalg.Zeros(dim * dim)
	n := c.SampleBudget(env)
	err := c.ForEachSample(env, func(int) error {
		u, err := c.Unitary()
		if err != nil {
			return err
		}
		mean.AddScaled(complex(1/float64(n), 0), quantum.SuperOp(u))
		return nil
	})
	if err != nil {
		return linalg.Matrix{}, err
	}
	return mean, nil
}

func (c *Circuit) String() string {
	return fmt.Sprintf("Circuit{qubits: %d, layers: %d, duration: %d}",
		c.numQubits, len(c.layers), c.duration)
}
