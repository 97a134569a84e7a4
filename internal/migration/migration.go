package migration

import (
	"context"

	"smmh/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. Statements use
// portable types so the same schema runs on PostgreSQL and SQLite.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create etl_runs table", err)
	}

	if err := r.createCleanRecordsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create clean_records table", err)
	}

	if err := r.createHypothesisResultsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create hypothesis_results table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS etl_runs (
			run_id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			status TEXT NOT NULL,
			input_path TEXT NOT NULL DEFAULT '',
			output_path TEXT NOT NULL DEFAULT '',
			output_hash TEXT NOT NULL DEFAULT '',
			input_hash TEXT NOT NULL DEFAULT '',
			vocabulary_hash TEXT NOT NULL DEFAULT '',
			settings_hash TEXT NOT NULL DEFAULT '',
			code_version TEXT NOT NULL DEFAULT '',
			fingerprint TEXT NOT NULL DEFAULT '',
			rows_in INTEGER NOT NULL DEFAULT 0,
			rows_out INTEGER NOT NULL DEFAULT 0,
			included INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (r *MigrationRunner) createCleanRecordsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS clean_records (
			run_id TEXT NOT NULL REFERENCES etl_runs(run_id) ON DELETE CASCADE,
			line INTEGER NOT NULL,
			include_in_analysis INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			PRIMARY KEY (run_id, line)
		)
	`)
	return err
}

func (r *MigrationRunner) createHypothesisResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS hypothesis_results (
			run_id TEXT NOT NULL REFERENCES etl_runs(run_id) ON DELETE CASCADE,
			hypothesis_id TEXT NOT NULL,
			test TEXT NOT NULL,
			n INTEGER NOT NULL DEFAULT 0,
			statistic DOUBLE PRECISION NOT NULL DEFAULT 0,
			p_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			effect_size DOUBLE PRECISION NOT NULL DEFAULT 0,
			significant INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			PRIMARY KEY (run_id, hypothesis_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_etl_runs_started_at ON etl_runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_clean_records_included ON clean_records(run_id, include_in_analysis)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
