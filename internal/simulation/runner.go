package simulation

import (
	"testing"

	"github.com/qpulse/qpulse/internal/circuit"
	"github.com/qpulse/qpulse/internal/noise"
	"github.com/qpulse/qpulse/internal/quantum"
)

// Runner executes scenarios against the real compile and propagation
// pipeline.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results. Any
// pipeline error fails the test immediately.
func (r *Runner) Run(sc Scenario) Result {
	r.t.Helper()

	c, err := circuit.FromGates(sc.Specs.NumQubits, sc.Layers, sc.Specs)
	if err != nil {
		r.t.Fatalf("scenario %q: failed to compile program: %v", sc.Name, err)
	}

	// Noiseless reference of the same schedule.
	if err := c.AttachTimeTraces(nil); err != nil {
		r.t.Fatalf("scenario %q: failed to clear traces: %v", sc.Name, err)
	}
	ref, err := c.Unitary()
	if err != nil {
		r.t.Fatalf("scenario %q: failed to propagate reference: %v", sc.Name, err)
	}

	var env *noise.Environment
	if sc.Noise != nil {
		env, err = noise.NewEnvironment(sc.Specs, sc.Noise.Kind, sc.Noise.T2S, sc.Noise.TJS,
			sc.Noise.Duration, sc.Noise.SegmentDuration, sc.Noise.OnlyIdle, sc.Noise.Seed)
		if err != nil {
			r.t.Fatalf("scenario %q: failed to build environment: %v", sc.Name, err)
		}
	}

	result := Result{
		Layers:   len(c.Layers()),
		Duration: c.Duration(),
	}
	err = c.ForEachSample(env, func(sample int) error {
		u, err := c.Unitary()
		if err != nil {
			return err
		}
		result.Fidelities = append(result.Fidelities, quantum.AverageGateFidelity(u, ref))
		return nil
	})
	if err != nil {
		r.t.Fatalf("scenario %q: failed to average over noise: %v", sc.Name, err)
	}

	for _, f := range result.Fidelities {
		result.Mean += f / float64(len(result.Fidelities))
	}
	return result
}
