package noise

import (
	"errors"
	"math"
	"testing"

	"github.com/qpulse/qpulse/internal/hardware"
)

func seedOf(v int64) *int64 { return &v }

func TestWhiteStatistics(t *testing.T) {
	const (
		t2       = 50.0
		duration = 200000
	)
	tt, err := New(KindWhite, t2, duration, 1, seedOf(7))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	want := math.Sqrt(2 / t2)
	got := stddev(tt.Values)
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("white stddev = %g, want %g within 5%%", got, want)
	}
}

func TestWhiteRejectsSegment(t *testing.T) {
	_, err := New(KindWhite, 10, 100, 4, nil)
	if !errors.Is(err, ErrDuration) {
		t.Errorf("error = %v, want ErrDuration", err)
	}
}

func TestQuasistaticSegmentsConstant(t *testing.T) {
	const segment = 16
	tt, err := New(KindQuasistatic, 30, 8*segment, segment, seedOf(3))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for seg := 0; seg < 8; seg++ {
		first := tt.Values[seg*segment]
		for i := 1; i < segment; i++ {
			if tt.Values[seg*segment+i] != first {
				t.Fatalf("segment %d not constant at offset %d", seg, i)
			}
		}
	}
}

func TestQuasistaticRejectsIndivisibleDuration(t *testing.T) {
	_, err := New(KindQuasistatic, 30, 100, 16, nil)
	if !errors.Is(err, ErrDuration) {
		t.Errorf("error = %v, want ErrDuration", err)
	}
}

func TestPinkDeterministicUnderSeed(t *testing.T) {
	a, err := New(KindPink, 100, 4096, 1024, seedOf(42))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	b, err := New(KindPink, 100, 4096, 1024, seedOf(42))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("seeded pink traces differ at index %d", i)
		}
	}
	c, err := New(KindPink, 100, 4096, 1024, seedOf(43))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	same := true
	for i := range a.Values {
		if a.Values[i] != c.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different seeds produced identical pink traces")
	}
}

func TestPinkRejectsOddSegment(t *testing.T) {
	_, err := New(KindPink, 100, 1000, 15, nil)
	if !errors.Is(err, ErrDuration) {
		t.Errorf("error = %v, want ErrDuration", err)
	}
}

func TestPinkTruncatesToDuration(t *testing.T) {
	tt, err := New(KindPink, 100, 1000, 256, seedOf(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if len(tt.Values) != 1000 {
		t.Errorf("len(Values) = %d, want 1000", len(tt.Values))
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("PINK"); err != nil || k != KindPink {
		t.Errorf("ParseKind(PINK) = %v, %v", k, err)
	}
	if _, err := ParseKind("brown"); !errors.Is(err, hardware.ErrConfiguration) {
		t.Errorf("ParseKind(brown) error = %v, want ErrConfiguration", err)
	}
}

func TestRamseyContrastOfSilence(t *testing.T) {
	tt := &TimeTrace{Duration: 100, Values: make([]float64, 100)}
	c := tt.RamseyContrast(10)
	for i, v := range c {
		if math.Abs(v-1) > 1e-12 {
			t.Fatalf("contrast[%d] = %g, want 1 for a silent trace", i, v)
		}
	}
}

func TestEnvironmentTraceCounts(t *testing.T) {
	specs := hardware.Specs{
		NumQubits: 3, BField: 1, Delta: 0.5, JCoupling: 0.2,
		RotationShape: hardware.ShapeSquare, RampDuration: 1,
	}
	tjs := 200.0
	env, err := NewEnvironment(specs, KindWhite, 100, &tjs, 512, 1, false, seedOf(5))
	if err != nil {
		t.Fatalf("NewEnvironment returned error: %v", err)
	}
	if len(env.Traces) != 3 {
		t.Errorf("got %d qubit traces, want 3", len(env.Traces))
	}
	if len(env.CouplingTraces) != 2 {
		t.Errorf("got %d coupling traces, want 2", len(env.CouplingTraces))
	}
	// Per-qubit sub-seeding must decorrelate the qubit traces.
	if env.Traces[0].Values[0] == env.Traces[1].Values[0] &&
		env.Traces[0].Values[1] == env.Traces[1].Values[1] {
		t.Errorf("qubit traces appear identical under a shared seed")
	}
}
