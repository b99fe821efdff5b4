package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qpulse/qpulse/internal/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past experiment runs from the result store",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			runID, _ := cmd.Flags().GetString("samples")
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := store.NewSQLiteResultStore(".qpulse")
			if err != nil {
				return fmt.Errorf("opening result store: %w", err)
			}
			defer s.Close()

			if runID != "" {
				samples, err := s.GetSamples(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(samples)
				}
				for _, sm := range samples {
					fmt.Printf("%4d  t=%-8d  %+.6f\n", sm.Index, sm.TLab, sm.Value)
				}
				return nil
			}

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}
			fmt.Printf("%-12s  %-19s  %-8s  %-6s  %8s  %7s  %s\n",
				"ID", "STARTED", "KIND", "QUBITS", "DURATION", "SAMPLES", "MEAN")
			for _, r := range runs {
				noise := r.NoiseType
				if noise == "" {
					noise = "-"
				}
				fmt.Printf("%-12s  %-19s  %-8s  %-6d  %8d  %7d  %.6f  (%s)\n",
					r.ID, r.StartedAt.Local().Format(time.DateTime), r.Experiment,
					r.NumQubits, r.Duration, r.Samples, r.MeanFidelity, noise)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	cmd.Flags().String("samples", "", "Show the per-sample values of the given run id")
	return cmd
}
