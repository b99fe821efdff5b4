package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qpulse/qpulse/internal/characterize"
	"github.com/qpulse/qpulse/internal/store"
)

func newRamseyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ramsey",
		Short: "Scan the noise-averaged Ramsey contrast over free-evolution delays",
		RunE: func(cmd *cobra.Command, args []string) error {
			minDelay, _ := cmd.Flags().GetInt("min")
			maxDelay, _ := cmd.Flags().GetInt("max")
			points, _ := cmd.Flags().GetInt("points")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if minDelay < 1 || maxDelay < minDelay || points < 1 {
				return fmt.Errorf("invalid scan: min=%d max=%d points=%d", minDelay, maxDelay, points)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			specs, err := cfg.Specs()
			if err != nil {
				return err
			}
			env, err := cfg.Environment()
			if err != nil {
				return err
			}

			delays := make([]int, points)
			for i := range delays {
				if points == 1 {
					delays[i] = minDelay
					continue
				}
				delays[i] = minDelay + i*(maxDelay-minDelay)/(points-1)
			}

			slog.Info("scanning ramsey contrast", "min", minDelay, "max", maxDelay, "points", points)
			contrast, err := characterize.ContrastScan(specs, env, delays)
			if err != nil {
				return err
			}

			var mean float64
			samples := make([]store.Sample, len(delays))
			for i, d := range delays {
				mean += contrast[i] / float64(len(delays))
				samples[i] = store.Sample{Index: i, TLab: d, Value: contrast[i]}
			}
			runID, err := persistRun(cmd, cfg, &store.Run{
				Experiment:   "ramsey",
				NumQubits:    specs.NumQubits,
				Shape:        cfg.Hardware.RotationShape,
				Layers:       3,
				Duration:     maxDelay,
				Samples:      points,
				MeanFidelity: mean,
			}, samples)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"run_id":   runID,
					"delays":   delays,
					"contrast": contrast,
				})
			}
			for i, d := range delays {
				fmt.Printf("%8d  %+.6f\n", d, contrast[i])
			}
			return nil
		},
	}

	cmd.Flags().Int("min", 10, "Shortest free-evolution delay")
	cmd.Flags().Int("max", 1000, "Longest free-evolution delay")
	cmd.Flags().Int("points", 10, "Number of scan points")
	cmd.Flags().Bool("no-store", false, "Skip persisting the scan to the result store")
	return cmd
}
