package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"smmh/domain/stats"
	"smmh/internal/analysis"
)

// EDASummary is the input of eda_summary.md
type EDASummary struct {
	Total    int
	Included int
	Results  []stats.Result
	Matrix   analysis.CorrelationMatrix
	Segments []analysis.SegmentSummary
}

// EDA renders eda_summary.md
func (r *Renderer) EDA(s EDASummary) string {
	var b strings.Builder
	b.WriteString("# Exploratory Analysis Summary\n\n")
	b.WriteString(r.generated())
	fmt.Fprintf(&b, "\n%d of %d respondents are included in the analysis (uses social media). Alpha = %.2f.\n",
		s.Included, s.Total, stats.Alpha)

	section(&b, "Key Findings")
	b.WriteString(keyFindings(s.Results))

	section(&b, "Hypothesis Tests")
	b.WriteString(hypothesisTable(s.Results))

	if len(s.Matrix.Rows) > 0 {
		section(&b, "Behaviour x Wellbeing Correlations (Spearman rho)")
		b.WriteString(matrixTable(s.Matrix))
	}

	for _, seg := range s.Segments {
		section(&b, fmt.Sprintf("%s by %s", seg.Outcome, seg.Column))
		b.WriteString(segmentTable(seg))
	}

	section(&b, "Limitations")
	b.WriteString("- Convenience sample; results do not generalise to a population.\n")
	b.WriteString("- Cross-sectional self-report data; associations are not causal.\n")
	b.WriteString("- Daily time is a banded answer; midpoints approximate hours.\n")
	fmt.Fprintf(&b, "- %d tests at alpha %.2f without multiple-comparison correction.\n", len(s.Results), stats.Alpha)
	if s.Included < analysis.LowSampleThreshold {
		fmt.Fprintf(&b, "- Only %d included respondents; estimates are unstable.\n", s.Included)
	}
	return b.String()
}

func keyFindings(results []stats.Result) string {
	var b strings.Builder
	for _, res := range results {
		if res.Skipped {
			fmt.Fprintf(&b, "- %s: not tested (%s).\n", res.ID, res.SkipReason)
			continue
		}
		verdict := "no significant association"
		if res.Significant {
			verdict = "significant"
			if d := res.Direction(); d != "" {
				verdict += " " + d + " association"
			} else {
				verdict += " group difference"
			}
		}
		fmt.Fprintf(&b, "- %s (%s): %s, %s effect (%s=%.3f, p=%s, n=%d).\n",
			res.ID, res.Description, verdict, res.Effect, res.Test.StatisticName(), res.Statistic, formatP(res.PValue), res.N)
	}
	if b.Len() == 0 {
		return "No hypotheses were run.\n"
	}
	return b.String()
}

func hypothesisTable(results []stats.Result) string {
	rows := make([]table.Row, 0, len(results))
	for _, res := range results {
		if res.Skipped {
			rows = append(rows, table.Row{res.ID, res.Predictor, res.Outcome, res.Test, res.N, "-", "-", "-", "skipped: " + res.SkipReason})
			continue
		}
		sig := "no"
		if res.Significant {
			sig = "yes"
		}
		rows = append(rows, table.Row{
			res.ID, res.Predictor, res.Outcome, res.Test, res.N,
			fmt.Sprintf("%s=%.3f", res.Test.StatisticName(), res.Statistic),
			formatP(res.PValue),
			fmt.Sprintf("%s (%s=%.3f)", res.Effect, res.EffectName, res.EffectSize),
			sig,
		})
	}
	return markdownTable(table.Row{"ID", "Predictor", "Outcome", "Test", "n", "Statistic", "p", "Effect", "Significant"}, rows)
}

func matrixTable(m analysis.CorrelationMatrix) string {
	header := table.Row{""}
	for _, c := range m.Cols {
		header = append(header, c)
	}
	rows := make([]table.Row, 0, len(m.Rows))
	for i, name := range m.Rows {
		row := table.Row{name}
		for _, cell := range m.Cells[i] {
			if !cell.Defined {
				row = append(row, "n/a")
				continue
			}
			mark := ""
			if cell.PValue < stats.Alpha {
				mark = "*"
			}
			row = append(row, fmt.Sprintf("%.2f%s", cell.Rho, mark))
		}
		rows = append(rows, row)
	}
	return markdownTable(header, rows) + "\n`*` p < 0.05\n"
}

func segmentTable(s analysis.SegmentSummary) string {
	rows := make([]table.Row, 0, len(s.Segments))
	for _, seg := range s.Segments {
		rows = append(rows, table.Row{seg.Value, seg.N, fmt.Sprintf("%.2f", seg.Mean), fmt.Sprintf("%.1f", seg.Median)})
	}
	if len(rows) == 0 {
		return "No complete observations.\n"
	}
	return markdownTable(table.Row{s.Column, "n", "Mean", "Median"}, rows)
}

func formatP(p float64) string {
	if p < 0.001 {
		return "<0.001"
	}
	return fmt.Sprintf("%.4f", p)
}
