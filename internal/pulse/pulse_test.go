package pulse

import (
	"errors"
	"math"
	"testing"

	"github.com/qpulse/qpulse/internal/hardware"
)

func testSpecs() hardware.Specs {
	return hardware.Specs{
		NumQubits:     2,
		BField:        1.0,
		Delta:         0.5,
		JCoupling:     0.2,
		RotationShape: hardware.ShapeSquare,
		RampDuration:  2,
		CoeffDuration: 5,
	}
}

func TestFromAngleSquarePreservesAngle(t *testing.T) {
	specs := testSpecs()
	tests := []struct {
		name  string
		axis  Axis
		angle float64
	}{
		{"pi about x", AxisX, math.Pi},
		{"pi/2 about y", AxisY, math.Pi / 2},
		{"negative pi/3 about z", AxisZ, -math.Pi / 3},
		{"small angle", AxisX, 0.01},
		{"zero angle", AxisX, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rot, err := FromAngle(tt.axis, []int{0}, tt.angle, specs)
			if err != nil {
				t.Fatalf("FromAngle returned error: %v", err)
			}
			got := rot.Angle()
			if math.Abs(got-tt.angle) > 1e-6 {
				t.Errorf("Angle() = %g, want %g", got, tt.angle)
			}
			if rot.Amplitude() > tt.axis.fieldLimit(specs)+1e-9 {
				t.Errorf("amplitude %g exceeds field limit %g", rot.Amplitude(), tt.axis.fieldLimit(specs))
			}
		})
	}
}

func TestFromAngleGaussianPreservesAngle(t *testing.T) {
	specs := testSpecs()
	specs.RotationShape = hardware.ShapeGaussian
	for _, angle := range []float64{math.Pi, -math.Pi / 2, 0.1} {
		rot, err := FromAngle(AxisX, []int{0}, angle, specs)
		if err != nil {
			t.Fatalf("FromAngle(%g) returned error: %v", angle, err)
		}
		if got := rot.Angle(); math.Abs(got-angle) > 1e-6 {
			t.Errorf("Angle() = %g, want %g", got, angle)
		}
	}
}

func TestFromAngleHeisenberg(t *testing.T) {
	specs := testSpecs()
	rot, err := FromAngle(AxisHeisenberg, []int{0, 1}, math.Pi/4, specs)
	if err != nil {
		t.Fatalf("FromAngle returned error: %v", err)
	}
	if got := rot.Angle(); math.Abs(got-math.Pi/4) > 1e-6 {
		t.Errorf("Angle() = %g, want %g", got, math.Pi/4)
	}

	if _, err := FromAngle(AxisHeisenberg, []int{0}, math.Pi, specs); !errors.Is(err, ErrDimensionality) {
		t.Errorf("one-qubit heisenberg error = %v, want ErrDimensionality", err)
	}
	if _, err := FromAngle(AxisX, []int{0, 1}, math.Pi, specs); !errors.Is(err, ErrDimensionality) {
		t.Errorf("two-qubit x rotation error = %v, want ErrDimensionality", err)
	}
}

func TestFromAngleCalibrationFailure(t *testing.T) {
	specs := testSpecs()
	// An angle no duration within the search bound can integrate to at
	// the available field.
	_, err := FromAngle(AxisX, []int{0}, float64(maxCalibrationDuration)*specs.BField*10, specs)
	if !errors.Is(err, ErrCalibration) {
		t.Errorf("error = %v, want ErrCalibration", err)
	}
}

func TestAdjustDurationPreservesAngle(t *testing.T) {
	specs := testSpecs()
	rot, err := FromAngle(AxisX, []int{0}, math.Pi/2, specs)
	if err != nil {
		t.Fatalf("FromAngle returned error: %v", err)
	}
	for _, target := range []int{rot.Duration() + 1, rot.Duration() * 2, rot.Duration() * 10} {
		r, err := FromAngle(AxisX, []int{0}, math.Pi/2, specs)
		if err != nil {
			t.Fatalf("FromAngle returned error: %v", err)
		}
		r.AdjustDuration(target)
		if r.Duration() != target {
			t.Errorf("Duration() = %d, want %d", r.Duration(), target)
		}
		if got := r.Angle(); math.Abs(got-math.Pi/2) > 1e-9 {
			t.Errorf("Angle() after AdjustDuration(%d) = %g, want %g", target, got, math.Pi/2)
		}
	}
}

func TestSquareEnvelopeShape(t *testing.T) {
	rot, err := NewSquareRotation(AxisX, []int{0}, 2, 1, 2, 8)
	if err != nil {
		t.Fatalf("NewSquareRotation returned error: %v", err)
	}
	env := rot.Envelope()
	if len(env) != 8 {
		t.Fatalf("len(env) = %d, want 8", len(env))
	}
	if env[0] != 0 {
		t.Errorf("env[0] = %g, want 0 (ramp starts at zero)", env[0])
	}
	for t_ := 2; t_ < 6; t_++ {
		if env[t_] != 2 {
			t.Errorf("env[%d] = %g, want plateau height 2", t_, env[t_])
		}
	}
	if env[7] != 0 {
		t.Errorf("env[7] = %g, want 0 (ramp ends at zero)", env[7])
	}
}

func TestSquareRotationDistortion(t *testing.T) {
	rot, err := NewSquareRotation(AxisX, []int{0}, 1, 1, 0, 4)
	if err != nil {
		t.Fatalf("NewSquareRotation returned error: %v", err)
	}
	if err := rot.SetDistortion([]float64{0, 0.5, -0.5, 0}); err != nil {
		t.Fatalf("SetDistortion returned error: %v", err)
	}
	env := rot.Envelope()
	want := []float64{1, 1.5, 0.5, 1}
	for i := range want {
		if math.Abs(env[i]-want[i]) > 1e-12 {
			t.Errorf("env[%d] = %g, want %g", i, env[i], want[i])
		}
	}
	if err := rot.SetDistortion([]float64{1}); err == nil {
		t.Error("SetDistortion with wrong length did not fail")
	}
	// A nil slice detaches the distortion.
	if err := rot.SetDistortion(nil); err != nil {
		t.Fatalf("SetDistortion(nil) returned error: %v", err)
	}
	env = rot.Envelope()
	for i := range env {
		if math.Abs(env[i]-1) > 1e-12 {
			t.Errorf("env[%d] after detach = %g, want 1", i, env[i])
		}
	}
}

func TestSequenceDurationAdditivity(t *testing.T) {
	specs := testSpecs()
	rot, err := FromAngle(AxisX, []int{0}, math.Pi, specs)
	if err != nil {
		t.Fatalf("FromAngle returned error: %v", err)
	}
	seq, err := NewSequence(NewIdle([]int{0}, 3), rot, NewIdle([]int{0}, 5))
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	want := 3 + rot.Duration() + 5
	if seq.Duration() != want {
		t.Errorf("Duration() = %d, want %d", seq.Duration(), want)
	}
	for i := 1; i < seq.Len(); i++ {
		if seq.StartOf(i) != seq.StartOf(i-1)+seq.Instruction(i-1).Duration() {
			t.Errorf("StartOf(%d) = %d, want cumulative sum", i, seq.StartOf(i))
		}
	}
	if seq.StartOf(0) != 0 {
		t.Errorf("StartOf(0) = %d, want 0", seq.StartOf(0))
	}
}

func TestSequenceAppendInsert(t *testing.T) {
	seq, err := NewSequence(NewIdle([]int{0}, 2))
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if err := seq.Append(NewIdle([]int{0}, 3)); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if seq.Duration() != 5 {
		t.Errorf("Duration() = %d, want 5", seq.Duration())
	}

	// -1 inserts after the last instruction.
	if err := seq.Insert(-1, NewIdle([]int{0}, 7)); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if seq.Instruction(2).Duration() != 7 {
		t.Errorf("Instruction(2).Duration() = %d, want 7", seq.Instruction(2).Duration())
	}
	if err := seq.Insert(0, NewIdle([]int{0}, 1)); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if seq.Instruction(0).Duration() != 1 {
		t.Errorf("Instruction(0).Duration() = %d, want 1", seq.Instruction(0).Duration())
	}
	if seq.Duration() != 13 {
		t.Errorf("Duration() = %d, want 13", seq.Duration())
	}

	if err := seq.Append(NewIdle([]int{1}, 1)); !errors.Is(err, ErrDimensionality) {
		t.Errorf("appending foreign-qubit instruction error = %v, want ErrDimensionality", err)
	}
}

func TestSequenceAdjustDuration(t *testing.T) {
	seq, err := NewSequence(NewIdle([]int{0}, 4))
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if !seq.AdjustDuration(10) {
		t.Error("AdjustDuration(10) reported failure")
	}
	if seq.Duration() != 10 {
		t.Errorf("Duration() = %d, want 10", seq.Duration())
	}
	// Shrinking is a soft no-op.
	if seq.AdjustDuration(5) {
		t.Error("AdjustDuration(5) on a longer sequence reported success")
	}
	if seq.Duration() != 10 {
		t.Errorf("Duration() after rejected shrink = %d, want 10", seq.Duration())
	}
}

func TestAttachTimeTraceOnlyIdle(t *testing.T) {
	specs := testSpecs()
	rot, err := FromAngle(AxisX, []int{0}, math.Pi, specs)
	if err != nil {
		t.Fatalf("FromAngle returned error: %v", err)
	}
	seq, err := NewSequence(NewIdle([]int{0}, 3), rot)
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	window := make([]float64, seq.Duration())
	for i := range window {
		window[i] = 1
	}
	if err := seq.AttachTimeTrace(window, true); err != nil {
		t.Fatalf("AttachTimeTrace returned error: %v", err)
	}
	trace := seq.Trace()
	for i := 0; i < 3; i++ {
		if trace[i] != 1 {
			t.Errorf("trace[%d] = %g, want 1 on idle window", i, trace[i])
		}
	}
	for i := 3; i < len(trace); i++ {
		if trace[i] != 0 {
			t.Errorf("trace[%d] = %g, want 0 on active drive", i, trace[i])
		}
	}

	if err := seq.AttachTimeTrace(window[:1], true); err == nil {
		t.Error("AttachTimeTrace with short window did not fail")
	}
}

func TestToHamiltonianAppendsDetuningTerm(t *testing.T) {
	seq, err := NewSequence(NewIdle([]int{0}, 4))
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	gens, coeffs := seq.ToHamiltonian()
	if len(gens) != 1 || len(coeffs) != 1 {
		t.Fatalf("got %d generators before attachment, want 1", len(gens))
	}

	if err := seq.AttachTimeTrace([]float64{0.1, 0.2, 0.3, 0.4}, false); err != nil {
		t.Fatalf("AttachTimeTrace returned error: %v", err)
	}
	gens, coeffs = seq.ToHamiltonian()
	if len(gens) != 2 {
		t.Fatalf("got %d generators after attachment, want 2", len(gens))
	}
	last := coeffs[len(coeffs)-1]
	want := []float64{0.1, 0.2, 0.3, 0.4}
	for i := range want {
		if last[i] != want[i] {
			t.Errorf("detuning coeff[%d] = %g, want %g", i, last[i], want[i])
		}
	}
}

func TestDecouplingConservesDuration(t *testing.T) {
	specs := testSpecs()
	tests := []struct {
		name     string
		mode     hardware.DecouplingMode
		duration int
	}{
		{"spin echo even window", hardware.DecouplingSpinEcho, 400},
		{"spin echo odd window", hardware.DecouplingSpinEcho, 401},
		{"spin echo tight window", hardware.DecouplingSpinEcho, 3},
		{"full drive exact tiles", hardware.DecouplingFullDrive, 400},
		{"full drive with remainder", hardware.DecouplingFullDrive, 397},
		{"full drive tight window", hardware.DecouplingFullDrive, 2},
		{"none", hardware.DecouplingNone, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs.Decoupling = tt.mode
			seq, err := NewSequence(NewIdle([]int{0}, tt.duration))
			if err != nil {
				t.Fatalf("NewSequence returned error: %v", err)
			}
			dd, err := seq.ToDynamicalDecoupling(specs)
			if err != nil {
				t.Fatalf("ToDynamicalDecoupling returned error: %v", err)
			}
			if dd.Duration() != tt.duration {
				t.Errorf("decoupled duration = %d, want %d", dd.Duration(), tt.duration)
			}
			// Original sequence is untouched.
			if seq.Len() != 1 {
				t.Errorf("receiver mutated, Len() = %d, want 1", seq.Len())
			}
		})
	}
}

func TestDecouplingSpinEchoPattern(t *testing.T) {
	specs := testSpecs()
	specs.Decoupling = hardware.DecouplingSpinEcho
	seq, err := NewSequence(NewIdle([]int{0}, 500))
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	dd, err := seq.ToDynamicalDecoupling(specs)
	if err != nil {
		t.Fatalf("ToDynamicalDecoupling returned error: %v", err)
	}
	if dd.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (idle, pi, idle, pi)", dd.Len())
	}
	if !isIdle(dd.Instruction(0)) || !isIdle(dd.Instruction(2)) {
		t.Error("instructions 0 and 2 should be idles")
	}
	for _, i := range []int{1, 3} {
		rot, ok := dd.Instruction(i).(Rotation)
		if !ok {
			t.Fatalf("instruction %d is not a rotation", i)
		}
		if math.Abs(rot.Angle()-math.Pi) > 1e-6 {
			t.Errorf("rotation %d angle = %g, want pi", i, rot.Angle())
		}
	}
}

func TestDecouplingRejectsTwoQubitSequence(t *testing.T) {
	specs := testSpecs()
	specs.Decoupling = hardware.DecouplingSpinEcho
	seq, err := NewSequence(NewIdle([]int{0, 1}, 100))
	if err != nil {
		t.Fatalf("NewSequence returned error: %v", err)
	}
	if _, err := seq.ToDynamicalDecoupling(specs); !errors.Is(err, ErrDimensionality) {
		t.Errorf("error = %v, want ErrDimensionality", err)
	}
}
