// Package simulation provides an end-to-end test harness for the full
// compile-attach-propagate pipeline.
//
// Scenarios exercise the real gate compiler, calibration, noise
// environment and propagator with no mocks: a Scenario describes a
// device, a gate program and a noise environment, and the Runner
// compiles it, propagates the noiseless reference and collects the
// per-sample gate fidelities for property-based assertions.
//
// Usage:
//
//	func TestEchoUnderDephasing(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:   "echo-under-dephasing",
//	        Specs:  specs,
//	        Layers: [][]circuit.Gate{...},
//	        Noise:  &simulation.NoiseSpec{Kind: noise.KindWhite, T2S: 40, Duration: 100000},
//	    })
//	    simulation.AssertMeanFidelityBetween(t, result, 0.5, 1.0)
//	}
package simulation
