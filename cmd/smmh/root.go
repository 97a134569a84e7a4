package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"smmh/internal"
	"smmh/internal/config"
	"smmh/internal/container"
)

// cli holds the state shared by every subcommand of one invocation
type cli struct {
	cfgFile  string
	logLevel string
	dotenv   string

	cfg    *config.Config
	logger *internal.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "smmh",
		Short: "Social media & mental health survey pipeline",
		Long: `smmh cleans the social-media and mental-health survey export, writes an
analysis-ready table with quality reports, runs the hypothesis battery and
serves a privacy-preserving dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				c.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is ./smmh.yaml when present)")
	pf.StringVar(&c.logLevel, "log-level", "", "log level: ERROR, WARN, INFO, DEBUG or TRACE (overrides config)")
	pf.StringVar(&c.dotenv, "env-file", ".env", "dotenv file loaded before configuration")

	root.AddCommand(
		newETLCmd(c),
		newAnalyzeCmd(c),
		newRunCmd(c),
		newValidateCmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(c.dotenv); err != nil {
		return err
	}
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg
	c.logger = internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	c.logger.Debug("[CLI] config loaded (reports=%s, database=%t)", cfg.Paths.ReportsDir, cfg.Database.URL != "")
	return nil
}

func (c *cli) container(ctx context.Context) (*container.Container, error) {
	return container.New(ctx, c.cfg, c.logger, nil)
}

func printArtifacts(w io.Writer, dir string, names ...string) {
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", filepath.Join(dir, n))
	}
}
