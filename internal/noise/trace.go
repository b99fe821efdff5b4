// Package noise generates classical noise time traces (white, pink and
// quasistatic) and owns the experiment-wide trace pool that pulse
// circuits read windows from.
package noise

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/qpulse/qpulse/internal/hardware"
)

// ErrDuration reports an inconsistent duration / segment-duration pair.
var ErrDuration = errors.New("invalid trace duration")

// Kind identifies the spectral class of a noise trace.
type Kind int

const (
	KindPink Kind = iota
	KindWhite
	KindQuasistatic
)

// String returns the config-file spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindPink:
		return "pink"
	case KindWhite:
		return "white"
	case KindQuasistatic:
		return "quasistatic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a config-file string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "pink":
		return KindPink, nil
	case "white":
		return KindWhite, nil
	case "quasistatic":
		return KindQuasistatic, nil
	default:
		return 0, fmt.Errorf("noise_type %q (valid: pink, white, quasistatic): %w",
			s, hardware.ErrConfiguration)
	}
}

// TimeTrace is one realized noise signal of a fixed length. Values are
// angular-frequency deviations per time step; consumers only ever read
// time-aligned windows of Values, never mutate them.
type TimeTrace struct {
	Kind            Kind
	T2              float64
	Duration        int
	SegmentDuration int

	// Sigma is the standard deviation of the generating process (white,
	// quasistatic) or of the realized trace (pink).
	Sigma float64

	Values []float64
}

// New generates a noise trace of the given kind.
//
// White noise requires segmentDuration == 1. Quasistatic noise requires
// duration to be a multiple of segmentDuration. Pink noise requires an
// even segmentDuration; its spectrum is synthesized per segment, so the
// 1/f behavior is band-limited below 1/segmentDuration.
//
// A non-nil seed makes the trace reproducible bit for bit; a nil seed
// draws fresh entropy.
func New(kind Kind, t2 float64, duration, segmentDuration int, seed *int64) (*TimeTrace, error) {
	if duration < 1 {
		return nil, fmt.Errorf("duration must be positive, got %d: %w", duration, ErrDuration)
	}
	if t2 <= 0 {
		return nil, fmt.Errorf("coherence time must be positive, got %g: %w", t2, hardware.ErrConfiguration)
	}
	rng := newRand(seed)
	switch kind {
	case KindWhite:
		return newWhite(t2, duration, segmentDuration, rng)
	case KindPink:
		return newPink(t2, duration, segmentDuration, rng)
	case KindQuasistatic:
		return newQuasistatic(t2, duration, segmentDuration, rng)
	default:
		return nil, fmt.Errorf("noise kind %v: %w", kind, hardware.ErrConfiguration)
	}
}

// newRand builds the trace RNG: seeded when the caller asks for
// reproducibility, fresh entropy otherwise.
func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(uint64(*seed), uint64(*seed)))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Window returns the read-only slice of values covering [start, start+length).
func (tt *TimeTrace) Window(start, length int) []float64 {
	return tt.Values[start : start+length]
}

// RamseyContrast evaluates the free-induction contrast of the trace: the
// mean over non-overlapping windows of Re(exp(-i * cumsum(values))).
// The trace is split into Duration/ramseyDuration windows; each plays
// the role of one Ramsey experiment.
func (tt *TimeTrace) RamseyContrast(ramseyDuration int) []float64 {
	nExp := tt.Duration / ramseyDuration
	contrast := make([]float64, ramseyDuration)
	if nExp == 0 {
		return contrast
	}
	for e := 0; e < nExp; e++ {
		window := tt.Values[e*ramseyDuration : (e+1)*ramseyDuration]
		phase := 0.0
		for t, w := range window {
			phase += w
			contrast[t] += math.Cos(phase) / float64(nExp)
		}
	}
	return contrast
}

// stddev returns the population standard deviation of v.
func stddev(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	var ss float64
	for _, x := range v {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(v)))
}
