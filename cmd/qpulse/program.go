package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qpulse/qpulse/internal/circuit"
)

// programGate is the YAML surface of one gate in a program file.
type programGate struct {
	Name     string  `yaml:"name"`
	Qubits   []int   `yaml:"qubits"`
	Angle    float64 `yaml:"angle,omitempty"`
	Duration int     `yaml:"duration,omitempty"`
}

// loadProgram parses a gate program file: a YAML list of layers, each a
// list of gates.
//
//	- - name: rx
//	    qubits: [0]
//	    angle: 3.141592653589793
//	- - name: rzz
//	    qubits: [0, 1]
//	    angle: 0.5
func loadProgram(path string) ([][]circuit.Gate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}
	var raw [][]programGate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing program file: %w", err)
	}

	layers := make([][]circuit.Gate, 0, len(raw))
	for i, rawLayer := range raw {
		layer := make([]circuit.Gate, 0, len(rawLayer))
		for _, g := range rawLayer {
			kind, err := circuit.ParseGate(g.Name)
			if err != nil {
				return nil, fmt.Errorf("layer %d: %w", i, err)
			}
			layer = append(layer, circuit.Gate{
				Kind:     kind,
				Qubits:   g.Qubits,
				Angle:    g.Angle,
				Duration: g.Duration,
			})
		}
		layers = append(layers, layer)
	}
	return layers, nil
}
