package app

import (
	"context"

	"smmh/adapters/csvio"
	"smmh/domain/core"
	"smmh/domain/run"
	"smmh/domain/stats"
	"smmh/domain/survey"
	"smmh/internal"
	"smmh/internal/analysis"
	"smmh/internal/errors"
	"smmh/internal/privacy"
	"smmh/internal/report"
	"smmh/ports"
)

// CommandAnalyze names analysis runs in manifests
const CommandAnalyze = "analyze"

// AnalyzeOptions configures one analysis run
type AnalyzeOptions struct {
	CleanPath      string
	ReportsDir     string // empty skips writing artifacts
	VocabularyHash core.Hash
	SettingsHash   core.Hash
	CodeVersion    string
}

// AnalysisResult is the hypothesis battery plus exploratory summaries
type AnalysisResult struct {
	Manifest *run.Manifest
	Total    int
	Included int
	Results  []stats.Result
	Matrix   analysis.CorrelationMatrix
	Segments []analysis.SegmentSummary
}

// HypothesisService runs the hypothesis battery over cleaned data
type HypothesisService struct {
	runner   *analysis.Runner
	battery  []stats.Hypothesis
	filter   privacy.Filter
	renderer *report.Renderer
	repo     ports.RunRepository
	logger   *internal.Logger
	clock    core.Clock
}

// NewHypothesisService creates a hypothesis service. repo may be nil.
func NewHypothesisService(runner *analysis.Runner, filter privacy.Filter, renderer *report.Renderer, repo ports.RunRepository, logger *internal.Logger, clock core.Clock) *HypothesisService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &HypothesisService{
		runner:   runner,
		battery:  analysis.DefaultBattery(),
		filter:   filter,
		renderer: renderer,
		repo:     repo,
		logger:   logger,
		clock:    clock,
	}
}

// Battery returns the configured hypotheses
func (s *HypothesisService) Battery() []stats.Hypothesis {
	return s.battery
}

// Analyze computes results from the included rows of ds. Each hypothesis
// is independent; a skipped test never stops the others.
func (s *HypothesisService) Analyze(ds *survey.Dataset) *AnalysisResult {
	included := ds.Included()
	res := &AnalysisResult{
		Total:    ds.Len(),
		Included: len(included),
		Results:  s.runner.RunAll(s.battery, included),
		Matrix:   analysis.BehaviourWellbeingMatrix(included, s.runner.MinPairs()),
	}
	for _, col := range analysis.SegmentColumns {
		seg, err := analysis.SummarizeSegments(included, col, survey.ColLowMoodFreq, s.filter)
		if err != nil {
			s.logger.Warn("[Analysis] segment %s: %v", col, err)
			continue
		}
		res.Segments = append(res.Segments, seg)
	}
	for _, r := range res.Results {
		s.logger.Info("[Analysis] %s", r.Summary())
	}
	return res
}

// LoadCleaned reads and decodes a cleaned CSV
func LoadCleaned(path string) (*survey.Dataset, core.Hash, error) {
	tbl, hash, err := csvio.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	ds, err := survey.DecodeTable(tbl)
	if err != nil {
		return nil, "", errors.Wrapf(errors.WithCode(errors.CodeSchemaMismatch, err), "decode %s", path)
	}
	return ds, hash, nil
}

// Run loads the cleaned CSV, analyzes it and writes the result artifacts
func (s *HypothesisService) Run(ctx context.Context, opts AnalyzeOptions) (*AnalysisResult, error) {
	manifest := run.NewManifest(CommandAnalyze, opts.CleanPath, s.clock)
	manifest.OutputPath = opts.ReportsDir

	res, err := s.run(ctx, opts, manifest)
	if err != nil {
		manifest.Fail(s.clock, err)
		s.logger.Error("[Analysis] run %s failed: %v", manifest.RunID, err)
		if s.repo != nil {
			if serr := s.repo.SaveRun(ctx, manifest); serr != nil {
				s.logger.Warn("[Analysis] could not store failed run %s: %v", manifest.RunID, serr)
			}
		}
		return nil, err
	}

	manifest.Complete(s.clock)
	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, manifest); err != nil {
			return nil, errors.Wrap(err, "store run")
		}
		if err := s.repo.SaveResults(ctx, manifest.RunID, res.Results); err != nil {
			return nil, errors.Wrap(err, "store results")
		}
	}
	return res, nil
}

func (s *HypothesisService) run(ctx context.Context, opts AnalyzeOptions, manifest *run.Manifest) (*AnalysisResult, error) {
	ds, hash, err := LoadCleaned(opts.CleanPath)
	if err != nil {
		return nil, err
	}
	manifest.RowsIn, manifest.RowsOut = ds.Len(), ds.Len()
	manifest.Fingerprint = run.NewFingerprint(hash, opts.VocabularyHash, opts.SettingsHash, opts.CodeVersion)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := s.Analyze(ds)
	res.Manifest = manifest
	manifest.Included = res.Included
	for _, r := range res.Results {
		if err := r.Validate(); err != nil {
			return nil, errors.Wrapf(err, "result %s", r.ID)
		}
	}

	if opts.ReportsDir != "" {
		if err := s.WriteArtifacts(opts.ReportsDir, res); err != nil {
			return nil, err
		}
		s.logger.Info("[Analysis] wrote reports to %s", opts.ReportsDir)
	}
	return res, nil
}

// WriteArtifacts writes eda_summary.md and the hypothesis CSV/JSON files
func (s *HypothesisService) WriteArtifacts(dir string, res *AnalysisResult) error {
	eda := s.renderer.EDA(report.EDASummary{
		Total:    res.Total,
		Included: res.Included,
		Results:  res.Results,
		Matrix:   res.Matrix,
		Segments: res.Segments,
	})
	if err := report.WriteFile(dir, report.FileEDASummary, []byte(eda)); err != nil {
		return err
	}
	csvData, err := report.HypothesesCSV(res.Results)
	if err != nil {
		return err
	}
	if err := report.WriteFile(dir, report.FileHypothesesCSV, csvData); err != nil {
		return err
	}
	jsonData, err := report.HypothesesJSON(res.Results)
	if err != nil {
		return err
	}
	return report.WriteFile(dir, report.FileHypothesesJSON, jsonData)
}
