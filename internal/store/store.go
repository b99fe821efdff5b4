// Package store persists simulation results.
package store

import (
	"context"
	"time"
)

// Run is the summary record of one completed experiment.
type Run struct {
	ID         string    `json:"id"`
	Experiment string    `json:"experiment"` // "run", "ramsey", ...
	StartedAt  time.Time `json:"started_at"`

	// Device snapshot at the time of the run.
	NumQubits int    `json:"num_qubits"`
	Shape     string `json:"shape"`
	NoiseType string `json:"noise_type,omitempty"`
	Seed      *int64 `json:"seed,omitempty"`

	// Schedule and outcome.
	Layers       int     `json:"layers"`
	Duration     int     `json:"duration"`
	Samples      int     `json:"samples"`
	MeanFidelity float64 `json:"mean_fidelity"`
}

// Sample is one per-noise-realization data point belonging to a run.
type Sample struct {
	RunID string  `json:"run_id"`
	Index int     `json:"index"`
	TLab  int     `json:"t_lab"`
	Value float64 `json:"value"`
}

// ResultStore persists experiment runs and their per-sample values.
type ResultStore interface {
	// SaveRun writes a run and its samples atomically. The run's ID is
	// assigned by the store and returned.
	SaveRun(ctx context.Context, run *Run, samples []Sample) (string, error)

	// ListRuns returns the most recent runs, newest first. limit <= 0
	// means no limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// GetSamples returns the samples of a run ordered by index.
	GetSamples(ctx context.Context, runID string) ([]Sample, error)

	Close() error
}
