package pulse

import (
	"fmt"
	"math"

	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/linalg"
	"github.com/qpulse/qpulse/internal/quantum"
)

// Rotation is implemented by the shaped rotation instructions. It
// extends Instruction with the calibration-facing accessors the layer
// builder and dynamical decoupling need.
type Rotation interface {
	Instruction

	// Axis returns the generator axis the rotation couples to.
	Axis() Axis

	// Amplitude returns the current peak drive amplitude.
	Amplitude() float64

	// Angle returns the integrated envelope, the realized rotation angle.
	Angle() float64

	// SetDistortion attaches per-step multiplicative amplitude deviations
	// (coupling noise on the exchange drive). The slice length must equal
	// the instruction duration. A nil slice detaches the distortion.
	SetDistortion(factors []float64) error
}

// validateRotation checks the shared axis / qubit-count preconditions.
func validateRotation(axis Axis, qubits []int) error {
	if len(qubits) != axis.numQubits() {
		return fmt.Errorf("axis %s requires %d qubit(s), got %v: %w",
			axis, axis.numQubits(), qubits, ErrDimensionality)
	}
	return nil
}

// SquareRotation is a trapezoidal drive: a linear ramp up over
// rampDuration steps, a plateau, and a linear ramp down.
type SquareRotation struct {
	axis         Axis
	qubits       []int
	amplitude    float64
	sign         float64
	rampDuration int
	duration     int
	distortion   []float64
}

// NewSquareRotation builds a trapezoidal rotation. The duration must
// leave room for both ramps.
func NewSquareRotation(axis Axis, qubits []int, amplitude, sign float64,
	rampDuration, duration int) (*SquareRotation, error) {
	if err := validateRotation(axis, qubits); err != nil {
		return nil, err
	}
	if duration < 1 {
		return nil, fmt.Errorf("square rotation duration %d on qubits %v: %w",
			duration, qubits, hardware.ErrConfiguration)
	}
	if duration-2*rampDuration < 0 {
		return nil, fmt.Errorf("square rotation duration %d shorter than two ramps of %d on qubits %v: %w",
			duration, rampDuration, qubits, hardware.ErrConfiguration)
	}
	return &SquareRotation{
		axis:         axis,
		qubits:       qubits,
		amplitude:    amplitude,
		sign:         sign,
		rampDuration: rampDuration,
		duration:     duration,
	}, nil
}

func (r *SquareRotation) Qubits() []int      { return r.qubits }
func (r *SquareRotation) Duration() int      { return r.duration }
func (r *SquareRotation) Axis() Axis         { return r.axis }
func (r *SquareRotation) Amplitude() float64 { return r.amplitude }

func (r *SquareRotation) Envelope() []float64 {
	env := make([]float64, r.duration)
	height := r.sign * r.amplitude
	if r.rampDuration == 0 {
		for t := range env {
			env[t] = height
		}
	} else {
		ramp := r.rampDuration
		plateauEnd := r.duration - ramp
		for t := range env {
			switch {
			case t < ramp:
				env[t] = height * float64(t) / float64(ramp)
			case t < plateauEnd:
				env[t] = height
			default:
				// Linear fall reaching zero on the last step.
				env[t] = height * (1 + float64(plateauEnd-t-1)/float64(ramp))
			}
		}
	}
	applyDistortion(env, r.distortion)
	return env
}

func (r *SquareRotation) Angle() float64 { return sumEnvelope(r.Envelope()) }

func (r *SquareRotation) Generator() (linalg.Matrix, []float64) {
	return r.axis.generator(), r.Envelope()
}

// AdjustDuration stretches the rotation to the new duration and rescales
// the amplitude so the integrated angle is reproduced exactly.
func (r *SquareRotation) AdjustDuration(duration int) {
	angle := r.Angle()
	r.duration = duration
	r.distortion = nil
	r.amplitude = 1
	r.amplitude = rescaleAmplitude(angle, r.Angle())
}

func (r *SquareRotation) SetDistortion(factors []float64) error {
	if factors == nil {
		r.distortion = nil
		return nil
	}
	if len(factors) != r.duration {
		return fmt.Errorf("distortion length %d does not match duration %d on qubits %v: %w",
			len(factors), r.duration, r.qubits, quantum.ErrShapeMismatch)
	}
	r.distortion = factors
	return nil
}

func (r *SquareRotation) String() string {
	return fmt.Sprintf("SquareRotation{axis: %s, qubits: %v, amplitude: %g, duration: %d}",
		r.axis, r.qubits, r.amplitude, r.duration)
}

// GaussianRotation is a centered Gaussian bump with standard deviation
// duration / coeffDuration.
type GaussianRotation struct {
	axis          Axis
	qubits        []int
	amplitude     float64
	sign          float64
	coeffDuration int
	duration      int
	distortion    []float64
}

// NewGaussianRotation builds a Gaussian rotation.
func NewGaussianRotation(axis Axis, qubits []int, amplitude, sign float64,
	coeffDuration, duration int) (*GaussianRotation, error) {
	if err := validateRotation(axis, qubits); err != nil {
		return nil, err
	}
	if duration < 1 {
		return nil, fmt.Errorf("gaussian rotation duration %d on qubits %v: %w",
			duration, qubits, hardware.ErrConfiguration)
	}
	if coeffDuration < 1 {
		return nil, fmt.Errorf("gaussian width coefficient %d on qubits %v: %w",
			coeffDuration, qubits, hardware.ErrConfiguration)
	}
	return &GaussianRotation{
		axis:          axis,
		qubits:        qubits,
		amplitude:     amplitude,
		sign:          sign,
		coeffDuration: coeffDuration,
		duration:      duration,
	}, nil
}

func (r *GaussianRotation) Qubits() []int      { return r.qubits }
func (r *GaussianRotation) Duration() int      { return r.duration }
func (r *GaussianRotation) Axis() Axis         { return r.axis }
func (r *GaussianRotation) Amplitude() float64 { return r.amplitude }

func (r *GaussianRotation) Envelope() []float64 {
	env := make([]float64, r.duration)
	sigma := float64(r.duration) / float64(r.coeffDuration)
	t0 := float64(r.duration) / 2
	for t := range env {
		dt := float64(t) - t0
		env[t] = r.sign * r.amplitude * math.Exp(-dt*dt/(2*sigma*sigma))
	}
	applyDistortion(env, r.distortion)
	return env
}

func (r *GaussianRotation) Angle() float64 { return sumEnvelope(r.Envelope()) }

func (r *GaussianRotation) Generator() (linalg.Matrix, []float64) {
	return r.axis.generator(), r.Envelope()
}

// AdjustDuration stretches the rotation to the new duration and rescales
// the amplitude so the integrated angle is reproduced exactly.
func (r *GaussianRotation) AdjustDuration(duration int) {
	angle := r.Angle()
	r.duration = duration
	r.distortion = nil
	r.amplitude = 1
	r.amplitude = rescaleAmplitude(angle, r.Angle())
}

func (r *GaussianRotation) SetDistortion(factors []float64) error {
	if factors == nil {
		r.distortion = nil
		return nil
	}
	if len(factors) != r.duration {
		return fmt.Errorf("distortion length %d does not match duration %d on qubits %v: %w",
			len(factors), r.duration, r.qubits, quantum.ErrShapeMismatch)
	}
	r.distortion = factors
	return nil
}

func (r *GaussianRotation) String() string {
	return fmt.Sprintf("GaussianRotation{axis: %s, qubits: %v, amplitude: %g, duration: %d}",
		r.axis, r.qubits, r.amplitude, r.duration)
}

// applyDistortion perturbs the envelope in place with per-step
// multiplicative deviations.
func applyDistortion(env, distortion []float64) {
	if distortion == nil {
		return
	}
	for t := range env {
		env[t] += env[t] * distortion[t]
	}
}

func sumEnvelope(env []float64) float64 {
	var sum float64
	for _, v := range env {
		sum += v
	}
	return sum
}

// rescaleAmplitude returns the amplitude needed to realize targetAngle
// given unitAngle, the angle realized at amplitude 1.
func rescaleAmplitude(targetAngle, unitAngle float64) float64 {
	if math.Abs(unitAngle) < 1e-15 {
		return 0
	}
	return math.Abs(targetAngle) / math.Abs(unitAngle)
}
