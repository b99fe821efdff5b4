package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTracesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traces",
		Short: "Generate the configured noise traces and print their statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			predict, _ := cmd.Flags().GetInt("ramsey-window")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			env, err := cfg.Environment()
			if err != nil {
				return err
			}
			if env == nil {
				return fmt.Errorf("noise is disabled in the configuration (t2s is zero)")
			}

			type traceStats struct {
				Qubit    int     `json:"qubit"`
				Kind     string  `json:"kind"`
				Duration int     `json:"duration"`
				Sigma    float64 `json:"sigma"`
			}
			stats := make([]traceStats, len(env.Traces))
			for q, tt := range env.Traces {
				stats[q] = traceStats{
					Qubit:    q,
					Kind:     tt.Kind.String(),
					Duration: tt.Duration,
					Sigma:    tt.Sigma,
				}
			}

			var contrast []float64
			if predict > 0 {
				contrast = env.Traces[0].RamseyContrast(predict)
			}

			if jsonOut {
				out := map[string]any{"traces": stats}
				if contrast != nil {
					out["ramsey_contrast"] = contrast
				}
				return json.NewEncoder(os.Stdout).Encode(out)
			}
			fmt.Println(env)
			for _, s := range stats {
				fmt.Printf("qubit %d: %s trace, duration %d, sigma %.6f\n",
					s.Qubit, s.Kind, s.Duration, s.Sigma)
			}
			if contrast != nil {
				fmt.Printf("predicted free-induction contrast over %d steps:\n", predict)
				for t, c := range contrast {
					fmt.Printf("%8d  %+.6f\n", t, c)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("ramsey-window", 0, "Also predict the free-induction contrast over this many steps")
	return cmd
}
