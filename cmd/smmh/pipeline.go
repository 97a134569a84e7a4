package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"smmh/app"
	"smmh/internal/report"
)

type pathFlags struct {
	input   string
	output  string
	xlsx    string
	reports string
}

func (p *pathFlags) bindETL(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&p.input, "input", "i", "", "raw survey CSV or XLSX (overrides paths.raw_input)")
	f.StringVarP(&p.output, "output", "o", "", "cleaned CSV path (overrides paths.clean_output)")
	f.StringVar(&p.xlsx, "xlsx", "", "also export the cleaned table as XLSX")
	f.StringVar(&p.reports, "reports", "", "report directory (overrides paths.reports_dir)")
}

func (p *pathFlags) bindAnalyze(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&p.output, "input", "i", "", "cleaned CSV path (overrides paths.clean_output)")
	f.StringVar(&p.reports, "reports", "", "report directory (overrides paths.reports_dir)")
}

// apply copies set flags onto the loaded configuration
func (p *pathFlags) apply(c *cli) {
	if p.input != "" {
		c.cfg.Paths.RawInput = p.input
	}
	if p.output != "" {
		c.cfg.Paths.CleanOutput = p.output
	}
	if p.xlsx != "" {
		c.cfg.Paths.XLSXOutput = p.xlsx
	}
	if p.reports != "" {
		c.cfg.Paths.ReportsDir = p.reports
	}
}

func newETLCmd(c *cli) *cobra.Command {
	var paths pathFlags
	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Clean the raw survey and write the ETL report and data dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths.apply(c)
			_, err := runETL(cmd, c)
			return err
		},
	}
	paths.bindETL(cmd)
	return cmd
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	var paths pathFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the hypothesis battery on the cleaned table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths.apply(c)
			return runAnalyze(cmd, c)
		},
	}
	paths.bindAnalyze(cmd)
	return cmd
}

func newRunCmd(c *cli) *cobra.Command {
	var paths pathFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run etl then analyze",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths.apply(c)
			if _, err := runETL(cmd, c); err != nil {
				return err
			}
			return runAnalyze(cmd, c)
		},
	}
	paths.bindETL(cmd)
	return cmd
}

func runETL(cmd *cobra.Command, c *cli) (*app.ETLResult, error) {
	ctn, err := c.container(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer ctn.Close()

	res, err := ctn.ETL.Run(cmd.Context(), ctn.ETLOptions())
	if err != nil {
		return nil, err
	}

	w := cmd.OutOrStdout()
	m := res.Manifest
	fmt.Fprintf(w, "etl run %s: %d rows in, %d rows out, %d included\n", m.RunID, m.RowsIn, m.RowsOut, m.Included)
	fmt.Fprintf(w, "cleaned table %s (sha256 %s)\n", m.OutputPath, m.OutputHash.Short())
	for _, f := range res.After.Failed() {
		fmt.Fprintf(w, "check %s FAILED: %s\n", f.Check, f.Detail)
	}
	printArtifacts(w, ctn.Config.Paths.ReportsDir, report.FileETLReport, report.FileDataDictionary)
	return res, nil
}

func runAnalyze(cmd *cobra.Command, c *cli) error {
	ctn, err := c.container(cmd.Context())
	if err != nil {
		return err
	}
	defer ctn.Close()

	res, err := ctn.Hypotheses.Run(cmd.Context(), ctn.AnalyzeOptions())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "analysis run %s: %d of %d respondents included\n", res.Manifest.RunID, res.Included, res.Total)
	printResults(w, res)
	printArtifacts(w, ctn.Config.Paths.ReportsDir, report.FileEDASummary, report.FileHypothesesCSV, report.FileHypothesesJSON)
	return nil
}

func printResults(w io.Writer, res *app.AnalysisResult) {
	for _, r := range res.Results {
		fmt.Fprintf(w, "  %s\n", r.Summary())
	}
}
