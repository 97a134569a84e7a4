// Package run describes one pipeline execution for replay and audit.
package run

import (
	"time"

	"smmh/domain/core"
)

// Manifest records what a run read, wrote and how it ended
type Manifest struct {
	RunID       core.RunID     `json:"run_id"`
	Command     string         `json:"command"`
	Status      Status         `json:"status"`
	InputPath   string         `json:"input_path"`
	OutputPath  string         `json:"output_path"`
	OutputHash  core.Hash      `json:"output_hash"`
	Fingerprint Fingerprint    `json:"fingerprint"`
	RowsIn      int            `json:"rows_in"`
	RowsOut     int            `json:"rows_out"`
	Included    int            `json:"included"`
	Error       string         `json:"error,omitempty"`
	StartedAt   core.Timestamp `json:"started_at"`
	FinishedAt  core.Timestamp `json:"finished_at,omitempty"`
}

// NewManifest starts a run for command at the clock's current time
func NewManifest(command, inputPath string, clock core.Clock) *Manifest {
	return &Manifest{
		RunID:     core.NewRunID(),
		Command:   command,
		Status:    StatusRunning,
		InputPath: inputPath,
		StartedAt: core.NewTimestamp(clock()),
	}
}

// Complete marks the run successful
func (m *Manifest) Complete(clock core.Clock) {
	m.Status = StatusCompleted
	m.FinishedAt = core.NewTimestamp(clock())
}

// Fail marks the run failed with the error text
func (m *Manifest) Fail(clock core.Clock, err error) {
	m.Status = StatusFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.FinishedAt = core.NewTimestamp(clock())
}

// Duration is zero while the run is still in progress
func (m *Manifest) Duration() time.Duration {
	if m.FinishedAt.IsZero() {
		return 0
	}
	return m.FinishedAt.Time().Sub(m.StartedAt.Time())
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.Command == "" {
		return core.NewValidationError("run_manifest", "command cannot be empty")
	}
	if m.StartedAt.IsZero() {
		return core.NewValidationError("run_manifest", "started_at cannot be zero")
	}
	switch m.Status {
	case StatusRunning:
	case StatusCompleted:
		if m.Fingerprint.Fingerprint.IsEmpty() {
			return core.NewValidationError("run_manifest", "completed run needs a fingerprint")
		}
		if m.RowsOut != m.RowsIn {
			return core.NewValidationError("run_manifest", "row count changed during cleaning")
		}
	case StatusFailed:
		if m.Error == "" {
			return core.NewValidationError("run_manifest", "failed run needs an error")
		}
	default:
		return core.NewValidationError("run_manifest", "unknown status "+string(m.Status))
	}
	return nil
}
