package app

import (
	"context"
	"sort"

	"smmh/adapters/csvio"
	"smmh/adapters/excel"
	"smmh/domain/core"
	"smmh/domain/quality"
	"smmh/domain/run"
	"smmh/domain/survey"
	"smmh/internal"
	"smmh/internal/cleaning"
	"smmh/internal/errors"
	"smmh/internal/features"
	"smmh/internal/normalize"
	"smmh/internal/privacy"
	"smmh/internal/report"
	"smmh/internal/validation"
	"smmh/internal/vocab"
	"smmh/ports"
)

// CommandETL names ETL runs in manifests
const CommandETL = "etl"

// ETLOptions configures one ETL run
type ETLOptions struct {
	InputPath    string
	CleanPath    string
	XLSXPath     string // optional spreadsheet export
	ReportsDir   string // empty skips the Markdown reports
	SettingsHash core.Hash
	CodeVersion  string
}

// ETLResult is the output of a completed ETL run
type ETLResult struct {
	Manifest *run.Manifest
	Dataset  *survey.Dataset
	Before   *quality.Report
	After    *quality.Report
	Columns  []string // canonical input columns
	Dropped  []string // unmapped input headers
}

// ETLService runs normalize, privacy, clean, derive, validate and persist
type ETLService struct {
	vocab      *vocab.Vocabulary
	normalizer *normalize.Normalizer
	cleaner    *cleaning.Cleaner
	builder    *features.Builder
	validator  *validation.Validator
	renderer   *report.Renderer
	readers    ports.RawReaderFactory
	repo       ports.RunRepository
	logger     *internal.Logger
	clock      core.Clock
}

// NewETLService wires the pipeline stages. repo may be nil.
func NewETLService(v *vocab.Vocabulary, renderer *report.Renderer, repo ports.RunRepository, logger *internal.Logger, clock core.Clock) *ETLService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if clock == nil {
		clock = core.SystemClock
	}
	return &ETLService{
		vocab:      v,
		normalizer: normalize.New(v, logger),
		cleaner:    cleaning.New(v),
		builder:    features.NewBuilder(v),
		validator:  validation.New(clock),
		renderer:   renderer,
		readers: func(path string) ports.RawReader {
			return excel.NewDataReader(path, logger)
		},
		repo:   repo,
		logger: logger,
		clock:  clock,
	}
}

// Run executes the pipeline. Stages run in order and a failing stage
// stops the run; files already written stay on disk.
func (s *ETLService) Run(ctx context.Context, opts ETLOptions) (*ETLResult, error) {
	manifest := run.NewManifest(CommandETL, opts.InputPath, s.clock)
	manifest.OutputPath = opts.CleanPath
	s.logger.Info("[ETL] run %s started for %s", manifest.RunID, opts.InputPath)

	res, err := s.run(ctx, opts, manifest)
	if err != nil {
		manifest.Fail(s.clock, err)
		s.logger.Error("[ETL] run %s failed: %v", manifest.RunID, err)
		s.record(ctx, manifest, nil)
		return nil, err
	}

	manifest.Complete(s.clock)
	if err := s.record(ctx, manifest, res.Dataset.Records); err != nil {
		return nil, err
	}
	s.logger.Info("[ETL] run %s completed in %s: %d rows, %d included", manifest.RunID, manifest.Duration(), manifest.RowsOut, manifest.Included)
	return res, nil
}

func (s *ETLService) run(ctx context.Context, opts ETLOptions, manifest *run.Manifest) (*ETLResult, error) {
	raw, err := s.readers(opts.InputPath).ReadRaw()
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	inputHash, err := csvio.HashFile(opts.InputPath)
	if err != nil {
		return nil, err
	}
	manifest.RowsIn = len(raw.Records)
	manifest.Fingerprint = run.NewFingerprint(inputHash, s.vocab.Hash(), opts.SettingsHash, opts.CodeVersion)
	before := s.validator.Validate(quality.StageRaw, raw.Table(), validation.Expectations{})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	norm, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, errors.Wrap(err, "normalize headers")
	}

	ds := s.Transform(norm.Rows)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl := ds.Table()
	after := s.validator.Validate(quality.StageClean, tbl, validation.CleanExpectations(len(raw.Records)))
	after.InvalidValues = InvalidValueCounts(ds.Issues())
	for _, f := range after.Failed() {
		s.logger.Warn("[ETL] check %s failed: %s", f.Check, f.Detail)
	}

	outputHash, err := csvio.WriteFile(opts.CleanPath, tbl)
	if err != nil {
		return nil, errors.Wrap(err, "write cleaned csv")
	}
	manifest.OutputHash = outputHash
	manifest.RowsOut = len(ds.Records)
	manifest.Included = len(ds.Included())
	s.logger.Info("[ETL] wrote %s (%d rows, %d columns, sha256 %s)", opts.CleanPath, len(tbl.Rows), len(tbl.Header), outputHash.Short())

	if opts.XLSXPath != "" {
		if err := excel.ExportTable(opts.XLSXPath, tbl); err != nil {
			return nil, errors.Wrap(err, "export xlsx")
		}
		s.logger.Info("[ETL] wrote %s", opts.XLSXPath)
	}

	res := &ETLResult{
		Manifest: manifest,
		Dataset:  ds,
		Before:   before,
		After:    after,
		Columns:  norm.Columns,
		Dropped:  norm.Dropped,
	}
	if opts.ReportsDir != "" {
		if err := s.writeReports(opts.ReportsDir, opts.InputPath, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Transform applies privacy, cleaning and derivation to normalized rows.
// Output order and length match the input.
func (s *ETLService) Transform(rows []survey.CanonicalRow) *survey.Dataset {
	ds := &survey.Dataset{Records: make([]survey.CleanRecord, 0, len(rows))}
	for _, row := range rows {
		rec := s.cleaner.Clean(privacy.DropIdentifying(row))
		ds.Records = append(ds.Records, s.builder.Derive(rec))
	}
	return ds
}

func (s *ETLService) writeReports(dir, source string, res *ETLResult) error {
	etl := s.renderer.ETLReport(report.ETLSummary{
		Source:       source,
		InputColumns: res.Columns,
		Dropped:      res.Dropped,
		Before:       res.Before,
		After:        res.After,
		Dataset:      res.Dataset,
	})
	if err := report.WriteFile(dir, report.FileETLReport, []byte(etl)); err != nil {
		return err
	}
	dict := s.renderer.DataDictionary(s.vocab)
	return report.WriteFile(dir, report.FileDataDictionary, []byte(dict))
}

// record persists the manifest and records when a repository is configured.
// Failed runs are stored best effort.
func (s *ETLService) record(ctx context.Context, m *run.Manifest, records []survey.CleanRecord) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveRun(ctx, m); err != nil {
		if m.Status == run.StatusFailed {
			s.logger.Warn("[ETL] could not store failed run %s: %v", m.RunID, err)
			return nil
		}
		return errors.Wrap(err, "store run")
	}
	if records == nil {
		return nil
	}
	if err := s.repo.SaveRecords(ctx, m.RunID, records); err != nil {
		return errors.Wrap(err, "store records")
	}
	return nil
}

// Validate re-checks a persisted cleaned CSV
func (s *ETLService) Validate(path string) (*quality.Report, error) {
	tbl, _, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rep := s.validator.Validate(quality.StageClean, tbl, validation.CleanExpectations(len(tbl.Rows)))
	if ds, err := survey.DecodeTable(tbl); err == nil {
		rep.InvalidValues = InvalidValueCounts(ds.Issues())
	}
	return rep, nil
}

// InvalidValueCounts tallies field issues per column
func InvalidValueCounts(issues []survey.FieldIssue) map[string]int {
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string]int)
	for _, is := range issues {
		out[is.Column]++
	}
	return out
}

// SortedIssueColumns returns the columns with issues in name order
func SortedIssueColumns(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for c := range counts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
