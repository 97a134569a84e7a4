// Package container wires the pipeline services from configuration.
package container

import (
	"context"
	"fmt"

	"smmh/adapters/sqlstore"
	"smmh/app"
	"smmh/domain/core"
	"smmh/internal"
	"smmh/internal/analysis"
	"smmh/internal/config"
	"smmh/internal/privacy"
	"smmh/internal/report"
	"smmh/internal/vocab"
	"smmh/ports"
)

// CodeVersion is recorded in run fingerprints
var CodeVersion = "dev"

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger
	Clock  core.Clock

	Vocabulary *vocab.Vocabulary
	Privacy    privacy.Filter
	Renderer   *report.Renderer
	Runner     *analysis.Runner

	// Store is nil unless database.url is set
	Store *sqlstore.Store

	ETL        *app.ETLService
	Hypotheses *app.HypothesisService
}

// New creates a container. The database is opened only when configured.
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger, clock core.Clock) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if clock == nil {
		clock = core.SystemClock
	}

	c := &Container{Config: cfg, Logger: logger, Clock: clock}

	if err := c.initVocabulary(); err != nil {
		return nil, err
	}
	if err := c.initStore(ctx); err != nil {
		return nil, err
	}
	c.initServices()

	logger.Debug("[Container] initialized (database=%t)", c.Store != nil)
	return c, nil
}

func (c *Container) initVocabulary() error {
	var err error
	if c.Config.Paths.Vocabulary != "" {
		c.Vocabulary, err = vocab.Load(c.Config.Paths.Vocabulary)
	} else {
		c.Vocabulary, err = vocab.Default()
	}
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return nil
}

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		return nil
	}
	store, err := sqlstore.Open(ctx, c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.Store = store
	return nil
}

func (c *Container) initServices() {
	c.Privacy = privacy.NewFilter(c.Config.Privacy.MinCellCount)
	c.Renderer = report.NewRenderer(c.Clock, c.Privacy)
	c.Runner = analysis.NewRunner(c.Config.Analysis.MinPairs)

	repo := c.repository()
	c.ETL = app.NewETLService(c.Vocabulary, c.Renderer, repo, c.Logger, c.Clock)
	c.Hypotheses = app.NewHypothesisService(c.Runner, c.Privacy, c.Renderer, repo, c.Logger, c.Clock)
}

// repository returns the store as a port, keeping a nil store a nil interface
func (c *Container) repository() ports.RunRepository {
	if c.Store == nil {
		return nil
	}
	return c.Store
}

// ETLOptions builds ETL options from the configured paths
func (c *Container) ETLOptions() app.ETLOptions {
	return app.ETLOptions{
		InputPath:    c.Config.Paths.RawInput,
		CleanPath:    c.Config.Paths.CleanOutput,
		XLSXPath:     c.Config.Paths.XLSXOutput,
		ReportsDir:   c.Config.Paths.ReportsDir,
		SettingsHash: c.Config.SettingsHash(),
		CodeVersion:  CodeVersion,
	}
}

// AnalyzeOptions builds analysis options from the configured paths
func (c *Container) AnalyzeOptions() app.AnalyzeOptions {
	return app.AnalyzeOptions{
		CleanPath:      c.Config.Paths.CleanOutput,
		ReportsDir:     c.Config.Paths.ReportsDir,
		VocabularyHash: c.Vocabulary.Hash(),
		SettingsHash:   c.Config.SettingsHash(),
		CodeVersion:    CodeVersion,
	}
}

// Close releases the database connection if one was opened
func (c *Container) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
