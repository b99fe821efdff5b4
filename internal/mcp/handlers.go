package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/qpulse/qpulse/internal/characterize"
	"github.com/qpulse/qpulse/internal/circuit"
	"github.com/qpulse/qpulse/internal/pulse"
)

func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (*sdk.CallToolResult, SimulateOutput, error) {
	specs, err := s.cfg.Specs()
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	layers := make([][]circuit.Gate, len(args.Layers))
	for i, layer := range args.Layers {
		layers[i] = make([]circuit.Gate, len(layer))
		for j, g := range layer {
			kind, err := circuit.ParseGate(g.Gate)
			if err != nil {
				return nil, SimulateOutput{}, fmt.Errorf("layer %d gate %d: %w", i, j, err)
			}
			layers[i][j] = circuit.Gate{
				Kind:     kind,
				Qubits:   g.Qubits,
				Angle:    g.Angle,
				Duration: g.Duration,
			}
		}
	}

	c, err := circuit.FromGates(specs.NumQubits, layers, specs)
	if err != nil {
		return nil, SimulateOutput{}, fmt.Errorf("failed to compile program: %w", err)
	}

	if err := c.AttachTimeTraces(nil); err != nil {
		return nil, SimulateOutput{}, err
	}
	ref, err := c.Unitary()
	if err != nil {
		return nil, SimulateOutput{}, fmt.Errorf("failed to propagate reference: %w", err)
	}

	env, err := s.cfg.Environment()
	if err != nil {
		return nil, SimulateOutput{}, err
	}
	fidelity, err := c.MeanFidelity(env, ref)
	if err != nil {
		return nil, SimulateOutput{}, fmt.Errorf("failed to average over noise: %w", err)
	}

	return nil, SimulateOutput{
		Layers:       len(c.Layers()),
		Duration:     c.Duration(),
		Samples:      c.SampleBudget(env),
		MeanFidelity: fidelity,
	}, nil
}

func (s *Server) handleRamsey(ctx context.Context, req *sdk.CallToolRequest, args RamseyInput) (*sdk.CallToolResult, RamseyOutput, error) {
	points := args.Points
	if points == 0 {
		points = 10
	}
	if args.MinDelay < 1 || args.MaxDelay < args.MinDelay || points < 1 {
		return nil, RamseyOutput{}, fmt.Errorf("invalid scan: min_delay=%d max_delay=%d points=%d",
			args.MinDelay, args.MaxDelay, points)
	}

	specs, err := s.cfg.Specs()
	if err != nil {
		return nil, RamseyOutput{}, err
	}
	env, err := s.cfg.Environment()
	if err != nil {
		return nil, RamseyOutput{}, err
	}

	delays := make([]int, points)
	for i := range delays {
		if points == 1 {
			delays[i] = args.MinDelay
			continue
		}
		delays[i] = args.MinDelay + i*(args.MaxDelay-args.MinDelay)/(points-1)
	}

	contrast, err := characterize.ContrastScan(specs, env, delays)
	if err != nil {
		return nil, RamseyOutput{}, err
	}
	return nil, RamseyOutput{Delays: delays, Contrast: contrast}, nil
}

func (s *Server) handleCalibrate(ctx context.Context, req *sdk.CallToolRequest, args CalibrateInput) (*sdk.CallToolResult, CalibrateOutput, error) {
	specs, err := s.cfg.Specs()
	if err != nil {
		return nil, CalibrateOutput{}, err
	}

	axis, err := parseAxis(args.Axis)
	if err != nil {
		return nil, CalibrateOutput{}, err
	}
	rot, err := pulse.FromAngle(axis, args.Qubits, args.Angle, specs)
	if err != nil {
		return nil, CalibrateOutput{}, fmt.Errorf("failed to calibrate %s(%g): %w", args.Axis, args.Angle, err)
	}

	return nil, CalibrateOutput{
		Duration:  rot.Duration(),
		Amplitude: rot.Amplitude(),
		Shape:     specs.RotationShape.String(),
	}, nil
}

// handleDeviceResource renders the configured device as markdown for
// context injection.
func (s *Server) handleDeviceResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	specs, err := s.cfg.Specs()
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("# Simulated Device\n\n")
	fmt.Fprintf(&sb, "- qubits: %d (couplings between adjacent pairs)\n", specs.NumQubits)
	fmt.Fprintf(&sb, "- drive limit (x/y): %g\n", specs.BField)
	fmt.Fprintf(&sb, "- detuning limit (z): %g\n", specs.Delta)
	fmt.Fprintf(&sb, "- exchange limit: %g\n", specs.JCoupling)
	fmt.Fprintf(&sb, "- pulse shape: %s\n", specs.RotationShape)
	fmt.Fprintf(&sb, "- dynamical decoupling: %s\n", specs.Decoupling)
	if s.cfg.Noise.T2S != 0 {
		fmt.Fprintf(&sb, "- noise: %s, T2*=%g, pool duration %d\n",
			s.cfg.Noise.Type, s.cfg.Noise.T2S, s.cfg.Noise.Duration)
	} else {
		sb.WriteString("- noise: disabled\n")
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      "qpulse://device",
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}

func parseAxis(name string) (pulse.Axis, error) {
	switch strings.ToLower(name) {
	case "x":
		return pulse.AxisX, nil
	case "y":
		return pulse.AxisY, nil
	case "z":
		return pulse.AxisZ, nil
	case "heisenberg":
		return pulse.AxisHeisenberg, nil
	default:
		return 0, fmt.Errorf("unknown axis %q (want x, y, z or heisenberg)", name)
	}
}
