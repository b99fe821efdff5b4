package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qpulse/qpulse/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the simulator over the Model Context Protocol (stdio)",
		Long: `mcp starts an MCP server on stdin/stdout exposing the simulation
tools (qpulse_simulate, qpulse_ramsey, qpulse_calibrate) and the device
description resource. Point an MCP-capable agent at it to drive
pulse-level experiments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			srv, err := mcp.NewServer(&mcp.Config{
				Name:    "qpulse",
				Version: version,
				Device:  cfg,
			})
			if err != nil {
				return err
			}

			slog.Info("starting mcp server", "transport", "stdio")
			return srv.Run(cmd.Context())
		},
	}
}
