package noise

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// newPink synthesizes 1/f noise by inverse spectral synthesis: one
// segment carries amplitudes 1/sqrt(f) with uniformly random phases,
// transformed back to the time domain. Segments are drawn consecutively
// from the same stream and concatenated until the requested duration is
// reached, then truncated. The trace is scaled so its power spectral
// density is S0/f with S0 = 1/(4π² ln(segmentDuration) T2²).
//
// Because the spectrum is built per segment, frequencies below
// 1/segmentDuration carry no power: callers wanting 1/f fidelity over a
// whole circuit should pick segmentDuration at least as large as the
// circuit duration.
func newPink(t2 float64, duration, segmentDuration int, rng *rand.Rand) (*TimeTrace, error) {
	if segmentDuration < 2 || segmentDuration%2 != 0 {
		return nil, fmt.Errorf("pink segment_duration must be even and at least 2, got %d: %w",
			segmentDuration, ErrDuration)
	}

	s0 := 1 / (4 * math.Pi * math.Pi * math.Log(float64(segmentDuration)) * t2 * t2)
	scale := 2 * math.Pi * math.Sqrt(s0)

	values := make([]float64, 0, duration+segmentDuration)
	for len(values) < duration {
		values = append(values, pinkSegment(segmentDuration, rng)...)
	}
	values = values[:duration]
	for i := range values {
		values[i] *= scale
	}

	return &TimeTrace{
		Kind:            KindPink,
		T2:              t2,
		Duration:        duration,
		SegmentDuration: segmentDuration,
		Sigma:           stddev(values),
		Values:          values,
	}, nil
}

// pinkSegment returns one time-domain segment of length n whose
// discrete spectrum has amplitude 1/sqrt(f) at frequency bin k (with
// f = k+1 for k = 1..n/2-1) and random phases, plus a real Nyquist
// component. The result is the inverse DFT of that Hermitian spectrum,
// evaluated directly as a cosine sum.
func pinkSegment(n int, rng *rand.Rand) []float64 {
	n2 := n/2 - 1
	amp := make([]float64, n2)
	phase := make([]float64, n2)
	for k := 0; k < n2; k++ {
		amp[k] = 1 / math.Sqrt(float64(k+2))
		phase[k] = (rng.Float64() - 0.5) * 2 * math.Pi
	}
	nyquist := 1 / float64(n2+2)

	out := make([]float64, n)
	for t := 0; t < n; t++ {
		x := nyquist
		if t%2 == 1 {
			x = -nyquist
		}
		for k := 0; k < n2; k++ {
			x += 2 * amp[k] * math.Cos(2*math.Pi*float64((k+1)*t)/float64(n)+phase[k])
		}
		out[t] = x
	}
	return out
}
