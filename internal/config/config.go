// Package config provides unified configuration loading for qpulse.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/qpulse/qpulse/internal/hardware"
	"github.com/qpulse/qpulse/internal/noise"
)

// Config contains all qpulse configuration settings.
type Config struct {
	// Hardware describes the simulated device.
	Hardware HardwareConfig `json:"hardware" yaml:"hardware"`

	// Noise configures the stochastic noise environment. Leave T2S at
	// zero to run noiseless.
	Noise NoiseConfig `json:"noise" yaml:"noise"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// HardwareConfig mirrors the device specification surface.
type HardwareConfig struct {
	// NumQubits is the register size. Couplings exist between adjacent
	// qubits.
	NumQubits int `json:"num_qubits" yaml:"num_qubits"`

	// BField is the maximal drive amplitude for x and y rotations.
	BField float64 `json:"b_field" yaml:"b_field"`

	// Delta is the maximal detuning amplitude for z rotations.
	Delta float64 `json:"delta" yaml:"delta"`

	// JCoupling is the maximal exchange amplitude between coupled qubits.
	JCoupling float64 `json:"j_coupling" yaml:"j_coupling"`

	// RotationShape selects the pulse envelope: "square" or "gaussian".
	RotationShape string `json:"rotation_shape" yaml:"rotation_shape"`

	// RampDuration is the linear ramp length of square pulses.
	RampDuration int `json:"ramp_duration" yaml:"ramp_duration"`

	// CoeffDuration divides a gaussian pulse's duration to obtain its
	// standard deviation.
	CoeffDuration int `json:"coeff_duration" yaml:"coeff_duration"`

	// DynamicalDecoupling selects the idle-period pattern: "none",
	// "spin_echo" or "full_drive".
	DynamicalDecoupling string `json:"dynamical_decoupling,omitempty" yaml:"dynamical_decoupling,omitempty"`
}

// NoiseConfig mirrors the noise environment surface.
type NoiseConfig struct {
	// Type is the spectral class: "pink", "white" or "quasistatic".
	Type string `json:"type" yaml:"type"`

	// T2S is the single-qubit dephasing coherence time. Zero disables
	// the environment entirely.
	T2S float64 `json:"t2s" yaml:"t2s"`

	// TJS, when non-zero, is the coupling coherence time and enables
	// exchange-noise traces.
	TJS float64 `json:"tjs,omitempty" yaml:"tjs,omitempty"`

	// Duration is the trace pool length; it bounds the Monte-Carlo
	// sample count per circuit.
	Duration int `json:"duration" yaml:"duration"`

	// SegmentDuration is forwarded to the trace generators.
	SegmentDuration int `json:"segment_duration" yaml:"segment_duration"`

	// OnlyIdle restricts trace attachment to idle instructions.
	OnlyIdle bool `json:"only_idle" yaml:"only_idle"`

	// Seed, when non-nil, makes every trace reproducible.
	Seed *int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// LoggingConfig configures qpulse's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults: a two-qubit square-
// pulse device and a seeded white-noise environment.
func Default() *Config {
	return &Config{
		Hardware: HardwareConfig{
			NumQubits:     2,
			BField:        1.0,
			Delta:         0.5,
			JCoupling:     0.2,
			RotationShape: "square",
			RampDuration:  1,
			CoeffDuration: 5,
		},
		Noise: NoiseConfig{
			Type:            "white",
			T2S:             100,
			Duration:        100000,
			SegmentDuration: 1,
			OnlyIdle:        true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.qpulse/config.yaml -> environment
// variables.
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".qpulse", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration converts to a valid device and
// environment.
func (c *Config) Validate() error {
	specs, err := c.Specs()
	if err != nil {
		return err
	}
	if err := specs.Validate(); err != nil {
		return err
	}

	if c.Noise.T2S != 0 {
		if _, err := noise.ParseKind(c.Noise.Type); err != nil {
			return err
		}
		if c.Noise.T2S < 0 {
			return fmt.Errorf("t2s must be positive, got %g: %w", c.Noise.T2S, hardware.ErrConfiguration)
		}
		if c.Noise.TJS < 0 {
			return fmt.Errorf("tjs must be positive, got %g: %w", c.Noise.TJS, hardware.ErrConfiguration)
		}
		if c.Noise.Duration < 1 {
			return fmt.Errorf("noise duration must be positive, got %d: %w", c.Noise.Duration, hardware.ErrConfiguration)
		}
		if c.Noise.SegmentDuration < 1 {
			return fmt.Errorf("segment_duration must be positive, got %d: %w", c.Noise.SegmentDuration, hardware.ErrConfiguration)
		}
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Specs converts the hardware section into device specs.
func (c *Config) Specs() (hardware.Specs, error) {
	shape, err := hardware.ParseShape(c.Hardware.RotationShape)
	if err != nil {
		return hardware.Specs{}, err
	}
	decoupling, err := hardware.ParseDecoupling(c.Hardware.DynamicalDecoupling)
	if err != nil {
		return hardware.Specs{}, err
	}
	return hardware.Specs{
		NumQubits:     c.Hardware.NumQubits,
		BField:        c.Hardware.BField,
		Delta:         c.Hardware.Delta,
		JCoupling:     c.Hardware.JCoupling,
		RotationShape: shape,
		RampDuration:  c.Hardware.RampDuration,
		CoeffDuration: c.Hardware.CoeffDuration,
		Decoupling:    decoupling,
	}, nil
}

// Environment builds the noise environment the config describes, or nil
// when the noise section is disabled (T2S zero).
func (c *Config) Environment() (*noise.Environment, error) {
	if c.Noise.T2S == 0 {
		return nil, nil
	}
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	kind, err := noise.ParseKind(c.Noise.Type)
	if err != nil {
		return nil, err
	}
	var tjs *float64
	if c.Noise.TJS != 0 {
		tjs = &c.Noise.TJS
	}
	return noise.NewEnvironment(specs, kind, c.Noise.T2S, tjs,
		c.Noise.Duration, c.Noise.SegmentDuration, c.Noise.OnlyIdle, c.Noise.Seed)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("QPULSE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("QPULSE_NOISE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Noise.Seed = &n
		}
	}

	if v := os.Getenv("QPULSE_NOISE_TYPE"); v != "" {
		config.Noise.Type = v
	}
}
