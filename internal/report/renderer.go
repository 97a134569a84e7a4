// Package report renders the Markdown, CSV and JSON artifacts of a run.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"smmh/domain/core"
	apperrors "smmh/internal/errors"
	"smmh/internal/privacy"
)

// Artifact file names
const (
	FileETLReport      = "etl_report.md"
	FileDataDictionary = "data_dictionary.md"
	FileEDASummary     = "eda_summary.md"
	FileHypothesesCSV  = "hypothesis_results.csv"
	FileHypothesesJSON = "hypothesis_results.json"
)

// Names lists every artifact a full run writes
var Names = []string{FileETLReport, FileDataDictionary, FileEDASummary, FileHypothesesCSV, FileHypothesesJSON}

// Renderer formats reports with a fixed clock and suppression rule
type Renderer struct {
	now    core.Clock
	filter privacy.Filter
}

// NewRenderer creates a renderer; a nil clock uses the system clock
func NewRenderer(now core.Clock, filter privacy.Filter) *Renderer {
	if now == nil {
		now = core.SystemClock
	}
	return &Renderer{now: now, filter: filter}
}

func (r *Renderer) generated() string {
	return "_Generated: " + core.NewTimestamp(r.now()).String() + "_\n"
}

func markdownTable(header table.Row, rows []table.Row) string {
	t := table.NewWriter()
	t.AppendHeader(header)
	t.AppendRows(rows)
	return t.RenderMarkdown() + "\n"
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
}

func pct(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
}

// WriteFile writes an artifact into dir, creating it if needed
func WriteFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.IOError(dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.IOError(path, err)
	}
	return nil
}
