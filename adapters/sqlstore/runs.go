package sqlstore

import (
	"context"
	"time"

	"smmh/domain/core"
	"smmh/domain/run"
	"smmh/internal/errors"
)

type runRow struct {
	RunID          string `db:"run_id"`
	Command        string `db:"command"`
	Status         string `db:"status"`
	InputPath      string `db:"input_path"`
	OutputPath     string `db:"output_path"`
	OutputHash     string `db:"output_hash"`
	InputHash      string `db:"input_hash"`
	VocabularyHash string `db:"vocabulary_hash"`
	SettingsHash   string `db:"settings_hash"`
	CodeVersion    string `db:"code_version"`
	Fingerprint    string `db:"fingerprint"`
	RowsIn         int    `db:"rows_in"`
	RowsOut        int    `db:"rows_out"`
	Included       int    `db:"included"`
	ErrorMessage   string `db:"error_message"`
	StartedAt      string `db:"started_at"`
	FinishedAt     string `db:"finished_at"`
}

const runColumns = `run_id, command, status, input_path, output_path, output_hash,
	input_hash, vocabulary_hash, settings_hash, code_version, fingerprint,
	rows_in, rows_out, included, error_message, started_at, finished_at`

// fixed-width so text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(ts core.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Time().UTC().Format(timeLayout)
}

func parseTime(s string) core.Timestamp {
	if s == "" {
		return core.Timestamp{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return core.Timestamp{}
	}
	return core.NewTimestamp(t)
}

func toRunRow(m *run.Manifest) runRow {
	return runRow{
		RunID:          m.RunID.String(),
		Command:        m.Command,
		Status:         string(m.Status),
		InputPath:      m.InputPath,
		OutputPath:     m.OutputPath,
		OutputHash:     m.OutputHash.String(),
		InputHash:      m.Fingerprint.InputHash.String(),
		VocabularyHash: m.Fingerprint.VocabularyHash.String(),
		SettingsHash:   m.Fingerprint.SettingsHash.String(),
		CodeVersion:    m.Fingerprint.CodeVersion,
		Fingerprint:    m.Fingerprint.Fingerprint.String(),
		RowsIn:         m.RowsIn,
		RowsOut:        m.RowsOut,
		Included:       m.Included,
		ErrorMessage:   m.Error,
		StartedAt:      formatTime(m.StartedAt),
		FinishedAt:     formatTime(m.FinishedAt),
	}
}

func (r runRow) manifest() *run.Manifest {
	return &run.Manifest{
		RunID:      core.RunID(r.RunID),
		Command:    r.Command,
		Status:     run.Status(r.Status),
		InputPath:  r.InputPath,
		OutputPath: r.OutputPath,
		OutputHash: core.Hash(r.OutputHash),
		Fingerprint: run.Fingerprint{
			InputHash:      core.Hash(r.InputHash),
			VocabularyHash: core.Hash(r.VocabularyHash),
			SettingsHash:   core.Hash(r.SettingsHash),
			CodeVersion:    r.CodeVersion,
			Fingerprint:    core.Hash(r.Fingerprint),
		},
		RowsIn:     r.RowsIn,
		RowsOut:    r.RowsOut,
		Included:   r.Included,
		Error:      r.ErrorMessage,
		StartedAt:  parseTime(r.StartedAt),
		FinishedAt: parseTime(r.FinishedAt),
	}
}

// SaveRun inserts or updates a manifest
func (s *Store) SaveRun(ctx context.Context, m *run.Manifest) error {
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid run manifest")
	}
	query := `INSERT INTO etl_runs (` + runColumns + `) VALUES (
		:run_id, :command, :status, :input_path, :output_path, :output_hash,
		:input_hash, :vocabulary_hash, :settings_hash, :code_version, :fingerprint,
		:rows_in, :rows_out, :included, :error_message, :started_at, :finished_at
	)
	ON CONFLICT (run_id) DO UPDATE SET
		status = EXCLUDED.status,
		output_path = EXCLUDED.output_path,
		output_hash = EXCLUDED.output_hash,
		input_hash = EXCLUDED.input_hash,
		vocabulary_hash = EXCLUDED.vocabulary_hash,
		settings_hash = EXCLUDED.settings_hash,
		code_version = EXCLUDED.code_version,
		fingerprint = EXCLUDED.fingerprint,
		rows_in = EXCLUDED.rows_in,
		rows_out = EXCLUDED.rows_out,
		included = EXCLUDED.included,
		error_message = EXCLUDED.error_message,
		finished_at = EXCLUDED.finished_at`

	if _, err := s.db.NamedExecContext(ctx, query, toRunRow(m)); err != nil {
		return errors.DatabaseError("failed to save run", err)
	}
	return nil
}

// GetRun loads one manifest
func (s *Store) GetRun(ctx context.Context, id core.RunID) (*run.Manifest, error) {
	var row runRow
	query := s.db.Rebind(`SELECT ` + runColumns + ` FROM etl_runs WHERE run_id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if isNoRows(err) {
			return nil, errors.NotFound("run " + id.String())
		}
		return nil, errors.DatabaseError("failed to get run", err)
	}
	return row.manifest(), nil
}

// ListRuns returns the most recent runs first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*run.Manifest, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []runRow
	query := s.db.Rebind(`SELECT ` + runColumns + ` FROM etl_runs ORDER BY started_at DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}
	out := make([]*run.Manifest, len(rows))
	for i, r := range rows {
		out[i] = r.manifest()
	}
	return out, nil
}

// LatestCompleted returns the newest completed run of a command
func (s *Store) LatestCompleted(ctx context.Context, command string) (*run.Manifest, error) {
	var row runRow
	query := s.db.Rebind(`SELECT ` + runColumns + ` FROM etl_runs
		WHERE command = ? AND status = ? ORDER BY started_at DESC LIMIT 1`)
	if err := s.db.GetContext(ctx, &row, query, command, string(run.StatusCompleted)); err != nil {
		if isNoRows(err) {
			return nil, errors.NotFound("completed " + command + " run")
		}
		return nil, errors.DatabaseError("failed to get latest run", err)
	}
	return row.manifest(), nil
}
