package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteResultStore implements ResultStore using a SQLite database under
// the given data directory.
type SQLiteResultStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string
}

// NewSQLiteResultStore opens (or creates) the result database at
// dir/results.db.
func NewSQLiteResultStore(dir string) (*SQLiteResultStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dir, "results.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteResultStore{db: db, dbPath: dbPath}, nil
}

// newRunID derives a short unique identifier for a run.
func newRunID(experiment string, startedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%d", experiment, startedAt.UnixNano())))
	return hex.EncodeToString(sum[:])[:12]
}

// SaveRun writes a run and its samples in one transaction.
func (s *SQLiteResultStore) SaveRun(ctx context.Context, run *Run, samples []Sample) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.ID == "" {
		run.ID = newRunID(run.Experiment, run.StartedAt)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seed any
	if run.Seed != nil {
		seed = *run.Seed
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, experiment, started_at, num_qubits, shape,
			noise_type, seed, layers, duration, samples, mean_fidelity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Experiment, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.NumQubits, run.Shape, run.NoiseType, seed,
		run.Layers, run.Duration, run.Samples, run.MeanFidelity)
	if err != nil {
		return "", fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, sm := range samples {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_samples (run_id, idx, t_lab, value)
			VALUES (?, ?, ?, ?)`,
			run.ID, sm.Index, sm.TLab, sm.Value)
		if err != nil {
			return "", fmt.Errorf("failed to insert sample %d of run %s: %w", sm.Index, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// ListRuns returns runs ordered newest first.
func (s *SQLiteResultStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, experiment, started_at, num_qubits, shape,
			   noise_type, seed, layers, duration, samples, mean_fidelity
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		var noiseType sql.NullString
		var seed sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Experiment, &startedAt, &r.NumQubits, &r.Shape,
			&noiseType, &seed, &r.Layers, &r.Duration, &r.Samples, &r.MeanFidelity); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			r.StartedAt = t
		}
		if noiseType.Valid {
			r.NoiseType = noiseType.String
		}
		if seed.Valid {
			v := seed.Int64
			r.Seed = &v
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetSamples returns the samples of a run ordered by index.
func (s *SQLiteResultStore) GetSamples(ctx context.Context, runID string) ([]Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, t_lab, value FROM run_samples
		WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples of run %s: %w", runID, err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sm Sample
		if err := rows.Scan(&sm.RunID, &sm.Index, &sm.TLab, &sm.Value); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteResultStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
