package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"smmh/domain/quality"
	"smmh/domain/survey"
	"smmh/internal/features"
	"smmh/internal/privacy"
)

// ETLSummary is everything the ETL report needs
type ETLSummary struct {
	Source       string
	InputColumns []string // canonical names found in the input
	Dropped      []string // raw headers without a mapping
	Before       *quality.Report
	After        *quality.Report
	Dataset      *survey.Dataset
}

var genderCleanOrder = []string{"Male", "Female", "Non-binary", "Trans", "Unsure", "Other", "Prefer not to say"}

var genderGroupOrder = []string{features.GenderFemale, features.GenderMale, features.GenderNonBinaryOther, features.GenderPreferNotToSay}

// ETLReport renders etl_report.md
func (r *Renderer) ETLReport(s ETLSummary) string {
	var b strings.Builder
	b.WriteString("# ETL Report\n\n")
	b.WriteString(r.generated())
	if s.Source != "" {
		fmt.Fprintf(&b, "\nSource: `%s`\n", s.Source)
	}

	section(&b, "Dataset Shape")
	b.WriteString(markdownTable(
		table.Row{"Stage", "Rows", "Columns", "Duplicate rows"},
		[]table.Row{
			{"Before", s.Before.RowCount, s.Before.ColumnCount, s.Before.DuplicateRows},
			{"After", s.After.RowCount, s.After.ColumnCount, s.After.DuplicateRows},
		},
	))

	added, removed := columnDiff(s.InputColumns, s.After.Columns)
	section(&b, "Columns Added / Removed")
	fmt.Fprintf(&b, "Added (%d): %s\n\n", len(added), joinOrNone(added))
	fmt.Fprintf(&b, "Removed (%d): %s\n", len(removed), joinOrNone(removed))
	if len(s.Dropped) > 0 {
		fmt.Fprintf(&b, "\nUnrecognised input columns ignored: %s\n", strings.Join(s.Dropped, "; "))
	}

	section(&b, "Missingness")
	b.WriteString(r.missingness(s.Before, s.After))

	if len(s.After.InvalidValues) > 0 {
		section(&b, "Invalid Values")
		b.WriteString("Values that could not be parsed were set to missing.\n\n")
		b.WriteString(invalidValues(s.After.InvalidValues))
	}

	records := s.Dataset.Records
	section(&b, "Gender")
	b.WriteString("### gender_clean\n\n")
	b.WriteString(r.distribution(categoryValues(records, survey.ColGenderClean), genderCleanOrder, privacy.BucketOther))
	b.WriteString("\n### gender_grouped\n\n")
	b.WriteString(r.distribution(categoryValues(records, survey.ColGenderGrouped), genderGroupOrder, privacy.BucketGenderOther))

	section(&b, "Platform Usage")
	b.WriteString(r.platforms(records))

	section(&b, "Social Media Usage")
	b.WriteString(r.distribution(categoryValues(records, survey.ColUsesSocialMedia), []string{"True", "False", "Unknown"}, "Unknown"))

	included := len(s.Dataset.Included())
	section(&b, "Analysis Inclusion")
	b.WriteString(markdownTable(
		table.Row{"include_in_analysis", "Count", "Share"},
		[]table.Row{
			{"True", r.filter.Display(privacy.Count{Count: included}), pct(included, len(records))},
			{"False", r.filter.Display(privacy.Count{Count: len(records) - included}), pct(len(records)-included, len(records))},
		},
	))

	section(&b, "Data Quality")
	b.WriteString(findings(s.Before, s.After))
	return b.String()
}

func (r *Renderer) missingness(before, after *quality.Report) string {
	cols := map[string]bool{}
	for _, m := range before.Missingness {
		cols[m.Column] = true
	}
	for _, m := range after.Missingness {
		cols[m.Column] = true
	}
	if len(cols) == 0 {
		return "No missing values.\n"
	}
	names := make([]string, 0, len(cols))
	for c := range cols {
		names = append(names, c)
	}
	sort.Strings(names)

	rows := make([]table.Row, 0, len(names))
	for _, c := range names {
		bm, am := before.Missing(c), after.Missing(c)
		rows = append(rows, table.Row{c, bm.Count, fmt.Sprintf("%.2f%%", bm.Pct), am.Count, fmt.Sprintf("%.2f%%", am.Pct)})
	}
	return markdownTable(table.Row{"Column", "Missing before", "% before", "Missing after", "% after"}, rows)
}

func invalidValues(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for c := range counts {
		names = append(names, c)
	}
	sort.Strings(names)
	rows := make([]table.Row, 0, len(names))
	for _, c := range names {
		rows = append(rows, table.Row{c, counts[c]})
	}
	return markdownTable(table.Row{"Column", "Invalid values"}, rows)
}

// distribution renders a suppressed frequency table
func (r *Renderer) distribution(values []string, order []string, bucket string) string {
	counts := r.filter.Suppress(privacy.Tally(values, order), bucket)
	total := privacy.Total(counts)
	rows := make([]table.Row, 0, len(counts))
	for _, c := range counts {
		share := pct(c.Count, total)
		if c.Masked {
			share = "-"
		}
		rows = append(rows, table.Row{c.Category, r.filter.Display(c), share})
	}
	return markdownTable(table.Row{"Value", "Count", "Share"}, rows)
}

// platforms renders per-platform usage; counts under the threshold are masked
func (r *Renderer) platforms(records []survey.CleanRecord) string {
	rows := make([]table.Row, 0, len(survey.Platforms))
	for _, p := range survey.Platforms {
		n := 0
		for i := range records {
			if records[i].Platforms[p] {
				n++
			}
		}
		c := r.filter.MaskCount(survey.PlatformLabel(p), n)
		share := pct(n, len(records))
		if c.Masked {
			share = "-"
		}
		rows = append(rows, table.Row{c.Category, r.filter.Display(c), share})
	}
	return markdownTable(table.Row{"Platform", "Users", "Share"}, rows)
}

func findings(reports ...*quality.Report) string {
	var rows []table.Row
	for _, rep := range reports {
		for _, f := range rep.Findings {
			status := "PASS"
			if !f.Passed {
				status = "FAIL"
			}
			rows = append(rows, table.Row{string(rep.Stage), f.Check, status, f.Detail})
		}
	}
	return markdownTable(table.Row{"Stage", "Check", "Result", "Detail"}, rows)
}

func categoryValues(records []survey.CleanRecord, col string) []string {
	out := make([]string, len(records))
	for i := range records {
		v, _ := records[i].Category(col)
		if v == "" {
			v = "Unknown"
		}
		out[i] = v
	}
	return out
}

func columnDiff(input, output []string) (added, removed []string) {
	in := make(map[string]bool, len(input))
	for _, c := range input {
		in[c] = true
	}
	out := make(map[string]bool, len(output))
	for _, c := range output {
		out[c] = true
		if !in[c] {
			added = append(added, c)
		}
	}
	for _, c := range input {
		if !out[c] {
			removed = append(removed, c)
		}
	}
	return added, removed
}

func joinOrNone(cols []string) string {
	if len(cols) == 0 {
		return "none"
	}
	return "`" + strings.Join(cols, "`, `") + "`"
}
