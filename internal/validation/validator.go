// Package validation checks table snapshots and records the outcome as
// named findings. It never aborts the pipeline.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"smmh/domain/core"
	"smmh/domain/quality"
	"smmh/domain/survey"
)

// Expectations configures which checks apply to a snapshot. Zero values
// disable the corresponding check.
type Expectations struct {
	RowCount      int
	ColumnCount   int
	LikertColumns []string
	FlagColumns   []string
	InclusionGate bool
}

// CleanExpectations is the full check set for the cleaned table
func CleanExpectations(inputRows int) Expectations {
	return Expectations{
		RowCount:      inputRows,
		ColumnCount:   survey.ColumnCount,
		LikertColumns: survey.LikertColumns(),
		FlagColumns:   survey.FlagColumns(),
		InclusionGate: true,
	}
}

// Validator produces quality reports
type Validator struct {
	now core.Clock
}

// New creates a validator; a nil clock uses the system clock
func New(now core.Clock) *Validator {
	if now == nil {
		now = core.SystemClock
	}
	return &Validator{now: now}
}

// Validate runs every configured check against t
func (v *Validator) Validate(stage quality.Stage, t survey.Table, exp Expectations) *quality.Report {
	r := &quality.Report{
		Stage:       stage,
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Header),
		Columns:     append([]string(nil), t.Header...),
		GeneratedAt: core.NewTimestamp(v.now()),
	}

	if exp.RowCount > 0 {
		r.Findings = append(r.Findings, checkRowCount(t, exp.RowCount))
	}
	if exp.ColumnCount > 0 {
		r.Findings = append(r.Findings, checkColumnCount(t, exp.ColumnCount))
	}
	if len(exp.LikertColumns) > 0 {
		r.Findings = append(r.Findings, checkLikert(t, exp.LikertColumns))
	}
	if len(exp.FlagColumns) > 0 {
		r.Findings = append(r.Findings, checkFlags(t, exp.FlagColumns))
	}
	if exp.InclusionGate {
		r.Findings = append(r.Findings, checkInclusion(t))
	}

	r.DuplicateRows = CountDuplicates(t)
	dup := quality.Finding{Check: quality.CheckDuplicateRows, Passed: r.DuplicateRows == 0, Detail: "no duplicate rows"}
	if !dup.Passed {
		dup.Detail = fmt.Sprintf("%d row(s) repeat an earlier row", r.DuplicateRows)
	}
	r.Findings = append(r.Findings, dup)

	r.Missingness = Missingness(t)
	return r
}

// CountDuplicates counts rows identical to an earlier row. The first
// occurrence is not counted, so one repeated pair yields 1.
func CountDuplicates(t survey.Table) int {
	seen := make(map[string]struct{}, len(t.Rows))
	dups := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// Missingness reports empty cells per column with percentages to 2 decimals
func Missingness(t survey.Table) []quality.ColumnMissing {
	var out []quality.ColumnMissing
	for i, col := range t.Header {
		n := 0
		for _, row := range t.Rows {
			if i >= len(row) || strings.TrimSpace(row[i]) == "" {
				n++
			}
		}
		if n > 0 {
			out = append(out, quality.ColumnMissing{Column: col, Count: n, Pct: quality.Percent(n, len(t.Rows), 2)})
		}
	}
	return out
}

func checkRowCount(t survey.Table, want int) quality.Finding {
	f := quality.Finding{Check: quality.CheckRowCount, Passed: len(t.Rows) == want}
	f.Detail = fmt.Sprintf("%d rows, expected %d", len(t.Rows), want)
	return f
}

func checkColumnCount(t survey.Table, want int) quality.Finding {
	f := quality.Finding{Check: quality.CheckColumnCount, Passed: len(t.Header) == want}
	f.Detail = fmt.Sprintf("%d columns, expected %d", len(t.Header), want)
	return f
}

func checkLikert(t survey.Table, cols []string) quality.Finding {
	var bad []string
	for _, col := range cols {
		values, err := t.Column(col)
		if err != nil {
			bad = append(bad, col+" (missing)")
			continue
		}
		for _, v := range values {
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < survey.LikertMin || n > survey.LikertMax {
				bad = append(bad, col)
				break
			}
		}
	}
	if len(bad) > 0 {
		return quality.Finding{Check: quality.CheckLikertRange, Detail: "out of range: " + strings.Join(bad, ", ")}
	}
	return quality.Finding{Check: quality.CheckLikertRange, Passed: true, Detail: fmt.Sprintf("%d Likert columns within 1-5", len(cols))}
}

func checkFlags(t survey.Table, cols []string) quality.Finding {
	var bad []string
	for _, col := range cols {
		values, err := t.Column(col)
		if err != nil {
			bad = append(bad, col+" (missing)")
			continue
		}
		for _, v := range values {
			if v != "0" && v != "1" {
				bad = append(bad, col)
				break
			}
		}
	}
	if len(bad) > 0 {
		return quality.Finding{Check: quality.CheckBinaryFlags, Detail: "non-binary values: " + strings.Join(bad, ", ")}
	}
	return quality.Finding{Check: quality.CheckBinaryFlags, Passed: true, Detail: fmt.Sprintf("%d flag columns are 0/1", len(cols))}
}

func checkInclusion(t survey.Table) quality.Finding {
	uses, errU := t.Column(survey.ColUsesSocialMedia)
	include, errI := t.Column(survey.ColIncludeInAnalysis)
	if errU != nil || errI != nil {
		return quality.Finding{Check: quality.CheckInclusionGate, Detail: "inclusion columns missing"}
	}
	mismatched := 0
	for i := range uses {
		want := survey.FormatBool(uses[i] == survey.FormatBool(true))
		if include[i] != want {
			mismatched++
		}
	}
	if mismatched > 0 {
		return quality.Finding{Check: quality.CheckInclusionGate, Detail: fmt.Sprintf("%d row(s) disagree with uses_social_media", mismatched)}
	}
	return quality.Finding{Check: quality.CheckInclusionGate, Passed: true, Detail: "include_in_analysis matches uses_social_media"}
}
