package pulse

import (
	"fmt"
	"math"

	"github.com/qpulse/qpulse/internal/hardware"
)

// maxCalibrationDuration bounds the duration search. A pulse longer than
// this cannot be calibrated and fails with ErrCalibration.
const maxCalibrationDuration = 50000

// calibrationTol absorbs floating-point slack when comparing the
// required amplitude against the hardware field limit.
const calibrationTol = 1e-10

// FromAngle calibrates a rotation about the given axis realizing the
// target angle: it finds the minimal duration whose required amplitude
// fits within the hardware field limit, then fixes the amplitude so the
// integrated envelope equals the angle. The pulse shape follows the
// hardware specs.
func FromAngle(axis Axis, qubits []int, angle float64, specs hardware.Specs) (Rotation, error) {
	if err := validateRotation(axis, qubits); err != nil {
		return nil, err
	}
	switch specs.RotationShape {
	case hardware.ShapeSquare:
		return squareFromAngle(axis, qubits, angle, specs)
	case hardware.ShapeGaussian:
		return gaussianFromAngle(axis, qubits, angle, specs)
	default:
		return nil, fmt.Errorf("rotation shape %v: %w", specs.RotationShape, hardware.ErrConfiguration)
	}
}

// signOf returns the drive sign realizing the angle. Zero angles keep a
// positive sign; the amplitude is zero anyway.
func signOf(angle float64) float64 {
	if angle < 0 {
		return -1
	}
	return 1
}

// squareFromAngle binary-searches the minimal feasible duration. The
// integrated envelope grows monotonically with duration at fixed
// amplitude, so the feasible set is upward closed.
func squareFromAngle(axis Axis, qubits []int, angle float64, specs hardware.Specs) (*SquareRotation, error) {
	sign := signOf(angle)
	limit := axis.fieldLimit(specs)

	required := func(duration int) (float64, error) {
		probe, err := NewSquareRotation(axis, qubits, 1, sign, specs.RampDuration, duration)
		if err != nil {
			return 0, err
		}
		unit := probe.Angle()
		if math.Abs(unit) < 1e-15 {
			if math.Abs(angle) < 1e-15 {
				return 0, nil
			}
			return math.Inf(1), nil
		}
		return math.Abs(angle) / math.Abs(unit), nil
	}

	lo := 2*specs.RampDuration + 1
	hi := maxCalibrationDuration
	if amp, err := required(hi); err != nil {
		return nil, err
	} else if amp > limit+calibrationTol {
		return nil, fmt.Errorf("no square duration under %d realizes angle %g about %s within field %g: %w",
			maxCalibrationDuration, angle, axis, limit, ErrCalibration)
	}
	for lo < hi {
		mid := lo + (hi-lo)/2
		amp, err := required(mid)
		if err != nil {
			return nil, err
		}
		if amp <= limit+calibrationTol {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	amp, err := required(lo)
	if err != nil {
		return nil, err
	}
	return NewSquareRotation(axis, qubits, amp, sign, specs.RampDuration, lo)
}

// gaussianFromAngle binary-searches the minimal duration whose peak
// amplitude fits the field limit. The envelope integral grows with
// duration at fixed peak, so feasibility is monotone here too.
func gaussianFromAngle(axis Axis, qubits []int, angle float64, specs hardware.Specs) (*GaussianRotation, error) {
	sign := signOf(angle)
	limit := axis.fieldLimit(specs)
	if limit <= 1e-3 {
		return nil, fmt.Errorf("field limit %g about %s too low for gaussian calibration: %w",
			limit, axis, hardware.ErrConfiguration)
	}

	required := func(duration int) (float64, error) {
		probe, err := NewGaussianRotation(axis, qubits, 1, sign, specs.CoeffDuration, duration)
		if err != nil {
			return 0, err
		}
		unit := probe.Angle()
		if math.Abs(unit) < 1e-15 {
			if math.Abs(angle) < 1e-15 {
				return 0, nil
			}
			return math.Inf(1), nil
		}
		return math.Abs(angle) / math.Abs(unit), nil
	}

	lo, hi := 1, maxCalibrationDuration
	if amp, err := required(hi); err != nil {
		return nil, err
	} else if amp > limit+calibrationTol {
		return nil, fmt.Errorf("no gaussian duration under %d realizes angle %g about %s within field %g: %w",
			maxCalibrationDuration, angle, axis, limit, ErrCalibration)
	}
	for lo < hi {
		mid := lo + (hi-lo)/2
		amp, err := required(mid)
		if err != nil {
			return nil, err
		}
		if amp <= limit+calibrationTol {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	amp, err := required(lo)
	if err != nil {
		return nil, err
	}
	if math.IsInf(amp, 1) {
		amp = 0
	}
	return NewGaussianRotation(axis, qubits, amp, sign, specs.CoeffDuration, lo)
}
