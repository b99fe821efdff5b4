package mcp

// GateInput is one native gate inside a program layer.
type GateInput struct {
	Gate     string  `json:"gate" jsonschema:"Gate name: rx, ry, rz, rzz or delay"`
	Qubits   []int   `json:"qubits" jsonschema:"Target qubits (one for rx/ry/rz/delay, two adjacent for rzz)"`
	Angle    float64 `json:"angle,omitempty" jsonschema:"Rotation angle in radians (ignored for delay)"`
	Duration int     `json:"duration,omitempty" jsonschema:"Delay duration in time steps (delay only)"`
}

// SimulateInput defines the input for the qpulse_simulate tool.
type SimulateInput struct {
	Layers [][]GateInput `json:"layers" jsonschema:"Gate program as a list of parallel layers"`
}

// SimulateOutput defines the output for the qpulse_simulate tool.
type SimulateOutput struct {
	Layers       int     `json:"layers" jsonschema:"Number of compiled pulse layers"`
	Duration     int     `json:"duration" jsonschema:"Total schedule duration in time steps"`
	Samples      int     `json:"samples" jsonschema:"Number of noise realizations averaged over"`
	MeanFidelity float64 `json:"mean_fidelity" jsonschema:"Average gate fidelity against the noiseless schedule"`
}

// RamseyInput defines the input for the qpulse_ramsey tool.
type RamseyInput struct {
	MinDelay int `json:"min_delay" jsonschema:"Shortest free-evolution delay in time steps"`
	MaxDelay int `json:"max_delay" jsonschema:"Longest free-evolution delay in time steps"`
	Points   int `json:"points" jsonschema:"Number of scan points (default 10)"`
}

// RamseyOutput defines the output for the qpulse_ramsey tool.
type RamseyOutput struct {
	Delays   []int     `json:"delays" jsonschema:"Free-evolution delays scanned"`
	Contrast []float64 `json:"contrast" jsonschema:"Noise-averaged Ramsey contrast at each delay"`
}

// CalibrateInput defines the input for the qpulse_calibrate tool.
type CalibrateInput struct {
	Axis   string  `json:"axis" jsonschema:"Rotation axis: x, y, z or heisenberg"`
	Qubits []int   `json:"qubits" jsonschema:"Target qubits (one for x/y/z, two for heisenberg)"`
	Angle  float64 `json:"angle" jsonschema:"Target rotation angle in radians"`
}

// CalibrateOutput defines the output for the qpulse_calibrate tool.
type CalibrateOutput struct {
	Duration  int     `json:"duration" jsonschema:"Minimal pulse duration in time steps"`
	Amplitude float64 `json:"amplitude" jsonschema:"Calibrated envelope amplitude"`
	Shape     string  `json:"shape" jsonschema:"Envelope shape of the device"`
}
