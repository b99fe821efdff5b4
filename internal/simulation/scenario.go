package simulation

import (
	"github.com/qpulse/qpulse/internal/circuit"
	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/noise"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name string

	// Specs is the simulated device. Zero value is not usable; tests
	// build it explicitly so the scenario is self-describing.
	Specs hardware.Specs

	// Layers is the gate program, one slice of parallel gates per layer.
	Layers [][]circuit.Gate

	// Noise configures the environment, or nil for a noiseless run.
	Noise *NoiseSpec
}

// NoiseSpec describes the stochastic environment of a scenario.
type NoiseSpec struct {
	Kind            noise.Kind
	T2S             float64
	TJS             *float64
	Duration        int
	SegmentDuration int
	OnlyIdle        bool
	Seed            *int64
}

// Result captures the outcome of a scenario run.
type Result struct {
	Layers   int
	Duration int

	// Fidelities holds the average gate fidelity of every noise sample
	// against the noiseless reference, in sample order.
	Fidelities []float64

	// Mean is the sample mean of Fidelities.
	Mean float64
}
