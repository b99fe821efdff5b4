package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qpulse/qpulse/internal/circuit"
	"github.com/qpulse/qpulse/internal/config"
	"github.com/qpulse/qpulse/internal/logging"
	"github.com/qpulse/qpulse/internal/quantum"
	"github.com/qpulse/qpulse/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compile a gate program to pulses and estimate its mean fidelity",
		Long: `run compiles a layered gate program into a pulse circuit, propagates
the noiseless reference unitary, then averages the gate fidelity over
every noise sample the configured environment affords.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			programPath, _ := cmd.Flags().GetString("program")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			specs, err := cfg.Specs()
			if err != nil {
				return err
			}
			layers, err := loadProgram(programPath)
			if err != nil {
				return err
			}

			c, err := circuit.FromGates(specs.NumQubits, layers, specs)
			if err != nil {
				return fmt.Errorf("compiling program: %w", err)
			}
			slog.Info("compiled pulse circuit",
				"layers", len(c.Layers()), "duration", c.Duration())

			// Noiseless reference unitary of the same schedule.
			if err := c.AttachTimeTraces(nil); err != nil {
				return err
			}
			ref, err := c.Unitary()
			if err != nil {
				return fmt.Errorf("propagating reference: %w", err)
			}

			env, err := cfg.Environment()
			if err != nil {
				return err
			}

			runLog := logging.NewRunLogger(".qpulse", cfg.Logging.Level)
			defer runLog.Close()

			var sum float64
			var samples []store.Sample
			n := c.SampleBudget(env)
			err = c.ForEachSample(env, func(sample int) error {
				u, err := c.Unitary()
				if err != nil {
					return err
				}
				f := quantum.AverageGateFidelity(u, ref)
				sum += f
				runLog.Sample(logging.SampleRecord{
					Experiment: "run",
					Sample:     sample,
					TLab:       c.TLab(),
					Value:      f,
				})
				samples = append(samples, store.Sample{
					Index: sample,
					TLab:  c.TLab(),
					Value: f,
				})
				return nil
			})
			if err != nil {
				return fmt.Errorf("averaging over noise samples: %w", err)
			}
			fidelity := sum / float64(n)

			runID, err := persistRun(cmd, cfg, &store.Run{
				Experiment:   "run",
				NumQubits:    specs.NumQubits,
				Shape:        cfg.Hardware.RotationShape,
				Layers:       len(c.Layers()),
				Duration:     c.Duration(),
				Samples:      n,
				MeanFidelity: fidelity,
			}, samples)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"run_id":        runID,
					"layers":        len(c.Layers()),
					"duration":      c.Duration(),
					"samples":       n,
					"mean_fidelity": fidelity,
				})
			}
			if runID != "" {
				fmt.Printf("run id:        %s\n", runID)
			}
			fmt.Printf("layers:        %d\n", len(c.Layers()))
			fmt.Printf("duration:      %d\n", c.Duration())
			fmt.Printf("samples:       %d\n", n)
			fmt.Printf("mean fidelity: %.6f\n", fidelity)
			return nil
		},
	}

	cmd.Flags().String("program", "program.yaml", "Path to the gate program file")
	cmd.Flags().Bool("no-store", false, "Skip persisting the run to the result store")
	return cmd
}

// persistRun writes the run record to the SQLite result store unless
// --no-store was given. Returns the assigned run id, or "" when skipped.
func persistRun(cmd *cobra.Command, cfg *config.Config, run *store.Run, samples []store.Sample) (string, error) {
	if skip, _ := cmd.Flags().GetBool("no-store"); skip {
		return "", nil
	}
	if cfg.Noise.T2S != 0 {
		run.NoiseType = cfg.Noise.Type
		run.Seed = cfg.Noise.Seed
	}
	s, err := store.NewSQLiteResultStore(".qpulse")
	if err != nil {
		return "", fmt.Errorf("opening result store: %w", err)
	}
	defer s.Close()
	id, err := s.SaveRun(cmd.Context(), run, samples)
	if err != nil {
		return "", fmt.Errorf("persisting run: %w", err)
	}
	slog.Debug("persisted run", "id", id, "samples", len(samples))
	return id, nil
}
