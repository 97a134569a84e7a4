package ports

import (
	"context"

	"smmh/domain/core"
	"smmh/domain/run"
	"smmh/domain/stats"
	"smmh/domain/survey"
)

// RunRepository persists run manifests and their outputs
type RunRepository interface {
	SaveRun(ctx context.Context, m *run.Manifest) error
	GetRun(ctx context.Context, id core.RunID) (*run.Manifest, error)
	ListRuns(ctx context.Context, limit int) ([]*run.Manifest, error)
	LatestCompleted(ctx context.Context, command string) (*run.Manifest, error)

	SaveRecords(ctx context.Context, id core.RunID, records []survey.CleanRecord) error
	LoadRecords(ctx context.Context, id core.RunID, includedOnly bool) ([]survey.CleanRecord, error)

	SaveResults(ctx context.Context, id core.RunID, results []stats.Result) error
	ListResults(ctx context.Context, id core.RunID) ([]stats.Result, error)
}
