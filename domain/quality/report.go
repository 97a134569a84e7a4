// Package quality describes dataset quality snapshots.
package quality

import (
	"math"

	"smmh/domain/core"
)

// Check names
const (
	CheckRowCount      = "row_count"
	CheckColumnCount   = "column_count"
	CheckLikertRange   = "likert_range"
	CheckBinaryFlags   = "binary_flags"
	CheckInclusionGate = "inclusion_gate"
	CheckDuplicateRows = "duplicate_rows"
)

// Stage labels a snapshot
type Stage string

const (
	StageRaw   Stage = "before"
	StageClean Stage = "after"
)

// Finding is the outcome of one named check
type Finding struct {
	Check  string `json:"check"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// ColumnMissing is the missingness of one column
type ColumnMissing struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Pct    float64 `json:"pct"`
}

// Report is a read-only quality snapshot of one table
type Report struct {
	Stage         Stage           `json:"stage"`
	RowCount      int             `json:"row_count"`
	ColumnCount   int             `json:"column_count"`
	DuplicateRows int             `json:"duplicate_rows"`
	Columns       []string        `json:"columns"`
	Missingness   []ColumnMissing `json:"missingness"` // columns with at least one empty cell
	Findings      []Finding       `json:"findings"`
	InvalidValues map[string]int  `json:"invalid_values,omitempty"` // cleaning issues per column
	GeneratedAt   core.Timestamp  `json:"generated_at"`
}

// Passed is true when every check passed
func (r *Report) Passed() bool {
	for _, f := range r.Findings {
		if !f.Passed {
			return false
		}
	}
	return true
}

// Failed returns the findings that did not pass
func (r *Report) Failed() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Passed {
			out = append(out, f)
		}
	}
	return out
}

// Finding looks up a check by name
func (r *Report) Finding(check string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Check == check {
			return f, true
		}
	}
	return Finding{}, false
}

// Missing returns the missingness entry for a column, zero when complete
func (r *Report) Missing(column string) ColumnMissing {
	for _, m := range r.Missingness {
		if m.Column == column {
			return m
		}
	}
	return ColumnMissing{Column: column}
}

// Percent rounds part/total*100 to the given decimals
func Percent(part, total int, decimals int) float64 {
	if total == 0 {
		return 0
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(float64(part)/float64(total)*100*scale) / scale
}
