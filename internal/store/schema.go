package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

const schemaV1 = `
-- Run summaries (denormalized for single-query listing)
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    experiment TEXT NOT NULL,
    started_at TEXT NOT NULL,

    num_qubits INTEGER NOT NULL,
    shape TEXT NOT NULL,
    noise_type TEXT,
    seed INTEGER,

    layers INTEGER NOT NULL,
    duration INTEGER NOT NULL,
    samples INTEGER NOT NULL,
    mean_fidelity REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

-- Per-noise-sample values (frequently bulk-inserted, kept separate)
CREATE TABLE IF NOT EXISTS run_samples (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    t_lab INTEGER NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (run_id, idx)
);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// InitSchema creates the result tables if they do not exist and records
// the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var version int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version < SchemaVersion {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}
