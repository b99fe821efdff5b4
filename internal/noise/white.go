package noise

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// newWhite draws duration independent Gaussian samples with standard
// deviation sqrt(2/T2). White noise has no temporal correlation, so the
// segment duration is pinned to 1.
func newWhite(t2 float64, duration, segmentDuration int, rng *rand.Rand) (*TimeTrace, error) {
	if segmentDuration != 1 {
		return nil, fmt.Errorf("white noise requires segment_duration=1, got %d: %w",
			segmentDuration, ErrDuration)
	}
	sigma := math.Sqrt(2 / t2)
	values := make([]float64, duration)
	for i := range values {
		values[i] = sigma * rng.NormFloat64()
	}
	return &TimeTrace{
		Kind:            KindWhite,
		T2:              t2,
		Duration:        duration,
		SegmentDuration: 1,
		Sigma:           sigma,
		Values:          values,
	}, nil
}
