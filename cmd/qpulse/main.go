package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qpulse/qpulse/internal/config"
	"github.com/qpulse/qpulse/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "qpulse",
		Short: "Pulse-level spin-qubit device simulator",
		Long: `qpulse simulates the physical control of a spin-qubit device at the
level of shaped control pulses: it compiles native gates into calibrated
pulse schedules, integrates the exact unitary evolution and averages
gate fidelities over stochastic noise realizations.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.qpulse/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newRamseyCmd(),
		newTracesCmd(),
		newHistoryCmd(),
		newMCPCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: the --config flag
// wins over the default locations, and the result is validated.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

// setupLogging installs the leveled stderr logger as the default.
func setupLogging(cfg *config.Config) {
	slog.SetDefault(logging.NewLogger(cfg.Logging.Level, os.Stderr))
}
