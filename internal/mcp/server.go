// Package mcp exposes the simulator as an MCP (Model Context Protocol)
// server, so agents can drive pulse-level experiments over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/qpulse/qpulse/internal/config"
)

// Server wraps the MCP SDK server around a configured device.
type Server struct {
	server *sdk.Server
	cfg    *config.Config
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "qpulse")
	Version string // Server version
	Device  *config.Config
}

// NewServer creates a new MCP server exposing the simulation tools.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Device == nil {
		return nil, fmt.Errorf("mcp server requires a device configuration")
	}
	if err := cfg.Device.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device configuration: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server: mcpServer,
		cfg:    cfg.Device,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// registerTools registers all qpulse MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "qpulse_simulate",
		Description: "Compile a layered gate program to pulses and estimate its noise-averaged gate fidelity",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "qpulse_ramsey",
		Description: "Scan the noise-averaged Ramsey contrast over a range of free-evolution delays",
	}, s.handleRamsey)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "qpulse_calibrate",
		Description: "Calibrate a rotation pulse: the minimal duration and amplitude realizing a target angle on the configured device",
	}, s.handleCalibrate)
}

// registerResources registers the device description resource.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         "qpulse://device",
		Name:        "qpulse-device",
		Description: "The configured device: register size, field limits, pulse shape and noise environment.",
		MIMEType:    "text/markdown",
	}, s.handleDeviceResource)
}

// Run starts the MCP server over stdio transport. It blocks until the
// client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}
