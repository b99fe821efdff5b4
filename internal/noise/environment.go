package noise

import (
	"fmt"

	"github.com/qpulse/qpulse/internal/hardware"
)

// Environment owns the noise trace pool of one experiment: one
// dephasing trace per qubit and, when a coupling coherence time is set,
// one exchange-noise trace per adjacent qubit pair. Circuits read
// consecutive windows from the pool; the environment itself is never
// mutated by attachment.
type Environment struct {
	Specs hardware.Specs
	Kind  Kind

	// T2S is the single-qubit dephasing coherence time.
	T2S float64

	// TJS, when non-nil, is the coupling coherence time at maximal
	// exchange; it enables coupling-noise traces.
	TJS *float64

	// Duration is the length of every generated trace. It bounds the
	// number of disjoint circuit samples the pool can serve.
	Duration int

	// SegmentDuration is forwarded to the trace generators.
	SegmentDuration int

	// OnlyIdle restricts trace attachment to idle instructions; active
	// drives stay noiseless while idle periods accumulate dephasing.
	OnlyIdle bool

	// Seed, when non-nil, makes every generated trace reproducible.
	// Each trace derives its own sub-seed so qubits see independent
	// realizations.
	Seed *int64

	// Traces holds one dephasing trace per qubit.
	Traces []*TimeTrace

	// CouplingTraces holds one exchange trace per adjacent pair, or nil
	// when TJS is unset.
	CouplingTraces []*TimeTrace
}

// NewEnvironment validates the configuration and generates the initial
// trace pool.
func NewEnvironment(specs hardware.Specs, kind Kind, t2s float64, tjs *float64,
	duration, segmentDuration int, onlyIdle bool, seed *int64) (*Environment, error) {
	env := &Environment{
		Specs:           specs,
		Kind:            kind,
		T2S:             t2s,
		TJS:             tjs,
		Duration:        duration,
		SegmentDuration: segmentDuration,
		OnlyIdle:        onlyIdle,
		Seed:            seed,
	}
	if err := env.GenerateTraces(); err != nil {
		return nil, err
	}
	return env, nil
}

// GenerateTraces regenerates the whole trace pool. Call it between
// experiment points to decorrelate successive scans.
func (e *Environment) GenerateTraces() error {
	e.Traces = make([]*TimeTrace, e.Specs.NumQubits)
	for q := range e.Traces {
		tt, err := New(e.Kind, e.T2S, e.Duration, e.SegmentDuration, e.subSeed(q))
		if err != nil {
			return fmt.Errorf("qubit %d dephasing trace: %w", q, err)
		}
		e.Traces[q] = tt
	}

	e.CouplingTraces = nil
	if e.TJS != nil {
		e.CouplingTraces = make([]*TimeTrace, e.Specs.NumQubits-1)
		for p := range e.CouplingTraces {
			tt, err := New(e.Kind, *e.TJS, e.Duration, e.SegmentDuration, e.subSeed(e.Specs.NumQubits+p))
			if err != nil {
				return fmt.Errorf("coupling (%d,%d) trace: %w", p, p+1, err)
			}
			e.CouplingTraces[p] = tt
		}
	}
	return nil
}

// subSeed derives the seed for the i-th trace of the pool, keeping
// seeded runs reproducible while decorrelating the traces.
func (e *Environment) subSeed(i int) *int64 {
	if e.Seed == nil {
		return nil
	}
	s := *e.Seed + int64(i)
	return &s
}

// String summarizes the environment for operator-facing output.
func (e *Environment) String() string {
	tjs := "none"
	if e.TJS != nil {
		tjs = fmt.Sprintf("%g", *e.TJS)
	}
	return fmt.Sprintf(
		"Environment{noise: %s, T2S: %g, TJS: %s, duration: %d, segment: %d, only_idle: %t, traces: %d}",
		e.Kind, e.T2S, tjs, e.Duration, e.SegmentDuration, e.OnlyIdle, len(e.Traces))
}
