package mcp

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/qpulse/qpulse/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Noise.T2S = 0 // noiseless unless a test overrides
	s, err := NewServer(&Config{Name: "qpulse", Version: "test", Device: cfg})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestNewServer_RequiresDevice(t *testing.T) {
	if _, err := NewServer(&Config{Name: "qpulse"}); err == nil {
		t.Fatal("NewServer accepted nil device config")
	}
}

func TestHandleSimulate_NoiselessIdentity(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleSimulate(context.Background(), nil, SimulateInput{
		Layers: [][]GateInput{
			{{Gate: "rx", Qubits: []int{0}, Angle: math.Pi}},
			{{Gate: "rx", Qubits: []int{0}, Angle: -math.Pi}},
		},
	})
	if err != nil {
		t.Fatalf("handleSimulate: %v", err)
	}
	if out.Layers != 2 {
		t.Errorf("layers = %d, want 2", out.Layers)
	}
	if out.Samples != 1 {
		t.Errorf("samples = %d, want 1 for noiseless device", out.Samples)
	}
	if math.Abs(out.MeanFidelity-1) > 1e-9 {
		t.Errorf("noiseless fidelity = %v, want 1", out.MeanFidelity)
	}
}

func TestHandleSimulate_RejectsUnknownGate(t *testing.T) {
	s := testServer(t)

	_, _, err := s.handleSimulate(context.Background(), nil, SimulateInput{
		Layers: [][]GateInput{{{Gate: "cx", Qubits: []int{0, 1}}}},
	})
	if err == nil {
		t.Fatal("handleSimulate accepted unsupported gate")
	}
}

func TestHandleRamsey_Noiseless(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleRamsey(context.Background(), nil, RamseyInput{
		MinDelay: 10, MaxDelay: 100, Points: 3,
	})
	if err != nil {
		t.Fatalf("handleRamsey: %v", err)
	}
	if len(out.Delays) != 3 || len(out.Contrast) != 3 {
		t.Fatalf("scan lengths = %d/%d, want 3/3", len(out.Delays), len(out.Contrast))
	}
	// Without dephasing the two pi/2 pulses compose to a full flip at
	// every delay.
	for i, c := range out.Contrast {
		if math.Abs(c+1) > 1e-6 {
			t.Errorf("contrast[%d] = %v, want -1", i, c)
		}
	}
}

func TestHandleRamsey_RejectsBadScan(t *testing.T) {
	s := testServer(t)
	_, _, err := s.handleRamsey(context.Background(), nil, RamseyInput{MinDelay: 0, MaxDelay: 10})
	if err == nil {
		t.Fatal("handleRamsey accepted zero min delay")
	}
}

func TestHandleCalibrate(t *testing.T) {
	s := testServer(t)

	_, out, err := s.handleCalibrate(context.Background(), nil, CalibrateInput{
		Axis: "x", Qubits: []int{0}, Angle: math.Pi,
	})
	if err != nil {
		t.Fatalf("handleCalibrate: %v", err)
	}
	if out.Duration < 1 {
		t.Errorf("duration = %d, want >= 1", out.Duration)
	}
	if out.Amplitude <= 0 {
		t.Errorf("amplitude = %v, want > 0", out.Amplitude)
	}
	if out.Shape != "square" {
		t.Errorf("shape = %q, want square", out.Shape)
	}

	if _, _, err := s.handleCalibrate(context.Background(), nil, CalibrateInput{
		Axis: "w", Qubits: []int{0}, Angle: 1,
	}); err == nil {
		t.Fatal("handleCalibrate accepted unknown axis")
	}
}

func TestHandleDeviceResource(t *testing.T) {
	s := testServer(t)

	res, err := s.handleDeviceResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleDeviceResource: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("resource contents = %d, want 1", len(res.Contents))
	}
	text := res.Contents[0].Text
	if !strings.Contains(text, "qubits: 2") {
		t.Errorf("device resource missing register size:\n%s", text)
	}
	if !strings.Contains(text, "noise: disabled") {
		t.Errorf("device resource missing noise line:\n%s", text)
	}
}
