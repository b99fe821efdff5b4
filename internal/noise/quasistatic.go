package noise

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// newQuasistatic draws one Gaussian value (standard deviation sqrt(2)/T2)
// per segment and holds it constant over the segment. The duration must
// be an exact multiple of the segment duration.
func newQuasistatic(t2 float64, duration, segmentDuration int, rng *rand.Rand) (*TimeTrace, error) {
	if segmentDuration < 1 {
		return nil, fmt.Errorf("quasistatic segment_duration must be positive, got %d: %w",
			segmentDuration, ErrDuration)
	}
	if duration%segmentDuration != 0 {
		return nil, fmt.Errorf("quasistatic duration %d is not a multiple of segment_duration %d: %w",
			duration, segmentDuration, ErrDuration)
	}
	sigma := math.Sqrt2 / t2
	values := make([]float64, duration)
	for seg := 0; seg < duration/segmentDuration; seg++ {
		v := sigma * rng.NormFloat64()
		for i := 0; i < segmentDuration; i++ {
			values[seg*segmentDuration+i] = v
		}
	}
	return &TimeTrace{
		Kind:            KindQuasistatic,
		T2:              t2,
		Duration:        duration,
		SegmentDuration: segmentDuration,
		Sigma:           sigma,
		Values:          values,
	}, nil
}
