package ui

import (
	"sort"

	"smmh/app"
	"smmh/domain/survey"
	"smmh/internal/analysis"
	"smmh/internal/features"
	"smmh/internal/privacy"
	"smmh/internal/vocab"
)

const unknownCategory = "Unknown"

// DistributionColumns may be requested from the distribution endpoints
var DistributionColumns = []string{
	survey.ColAgeBand,
	survey.ColGenderGrouped,
	survey.ColRelationshipStatus,
	survey.ColOccupationStatus,
	survey.ColDailyTimeBand,
}

// Dashboard is the read-only snapshot the server answers from
type Dashboard struct {
	records  []survey.CleanRecord // included rows only
	total    int
	result   *app.AnalysisResult
	privacy  privacy.Filter
	timeBand []string
}

// NewDashboard captures the included rows of ds and a finished analysis
func NewDashboard(ds *survey.Dataset, res *app.AnalysisResult, v *vocab.Vocabulary, filter privacy.Filter) *Dashboard {
	d := &Dashboard{
		records: ds.Included(),
		total:   ds.Len(),
		result:  res,
		privacy: filter,
	}
	for _, tb := range v.TimeBands() {
		d.timeBand = append(d.timeBand, tb.Label)
	}
	return d
}

// Row is one suppressed distribution entry. Masked rows carry no count.
type Row struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Display  string `json:"display"`
	Masked   bool   `json:"masked,omitempty"`
}

// Distribution is a filtered, suppressed frequency table
type Distribution struct {
	Column    string `json:"column"`
	Filter    string `json:"filter"`
	N         int    `json:"n"`
	LowSample bool   `json:"low_sample"`
	Rows      []Row  `json:"rows"`
}

// Records returns the included rows matching f
func (d *Dashboard) Records(f analysis.Filter) []survey.CleanRecord {
	return f.Apply(d.records)
}

// Overview computes the headline metrics under f
func (d *Dashboard) Overview(f analysis.Filter) analysis.Metrics {
	return analysis.ComputeMetrics(d.Records(f))
}

// Distribution tallies column under f with small cells folded
func (d *Dashboard) Distribution(column string, f analysis.Filter) (Distribution, bool) {
	if !isDistributionColumn(column) {
		return Distribution{}, false
	}
	records := d.Records(f)
	values := make([]string, len(records))
	for i := range records {
		v, _ := records[i].Category(column)
		if v == "" {
			v = unknownCategory
		}
		values[i] = v
	}

	bucket := privacy.BucketOther
	if column == survey.ColGenderGrouped {
		bucket = privacy.BucketGenderOther
	}
	counts := d.privacy.Suppress(privacy.Tally(values, d.order(column)), bucket)

	out := Distribution{
		Column:    column,
		Filter:    f.String(),
		N:         len(records),
		LowSample: len(records) < analysis.LowSampleThreshold,
	}
	for _, c := range counts {
		row := Row{Category: c.Category, Display: d.privacy.Display(c)}
		if c.Masked {
			row.Masked = true
		} else {
			row.Count = c.Count
		}
		out.Rows = append(out.Rows, row)
	}
	return out, true
}

// PlatformUsage counts users per platform under f; small counts are masked
func (d *Dashboard) PlatformUsage(f analysis.Filter) []Row {
	records := d.Records(f)
	rows := make([]Row, 0, len(survey.Platforms))
	for _, p := range survey.Platforms {
		n := 0
		for i := range records {
			if records[i].Platforms[p] {
				n++
			}
		}
		c := d.privacy.MaskCount(survey.PlatformLabel(p), n)
		row := Row{Category: c.Category, Display: d.privacy.Display(c), Masked: c.Masked}
		if !c.Masked {
			row.Count = n
		}
		rows = append(rows, row)
	}
	return rows
}

// Segments summarizes low mood by column under f
func (d *Dashboard) Segments(column string, f analysis.Filter) (analysis.SegmentSummary, error) {
	return analysis.SummarizeSegments(d.Records(f), column, survey.ColLowMoodFreq, d.privacy)
}

// Result returns the analysis computed over every included row
func (d *Dashboard) Result() *app.AnalysisResult {
	return d.result
}

// Total is the number of rows in the cleaned file, included or not
func (d *Dashboard) Total() int {
	return d.total
}

// FilterOptions lists the selectable values per segment column
func (d *Dashboard) FilterOptions() map[string][]string {
	out := make(map[string][]string, len(analysis.SegmentColumns))
	for _, col := range analysis.SegmentColumns {
		seen := make(map[string]bool)
		for i := range d.records {
			if v, _ := d.records[i].Category(col); v != "" {
				seen[v] = true
			}
		}
		opts := []string{analysis.FilterAll}
		for _, v := range d.order(col) {
			if seen[v] {
				opts = append(opts, v)
				delete(seen, v)
			}
		}
		rest := make([]string, 0, len(seen))
		for v := range seen {
			rest = append(rest, v)
		}
		sort.Strings(rest)
		out[col] = append(opts, rest...)
	}
	return out
}

func (d *Dashboard) order(column string) []string {
	switch column {
	case survey.ColAgeBand:
		return features.AgeBands
	case survey.ColGenderGrouped:
		return []string{features.GenderFemale, features.GenderMale, features.GenderNonBinaryOther, features.GenderPreferNotToSay}
	case survey.ColDailyTimeBand:
		return d.timeBand
	}
	return nil
}

func isDistributionColumn(col string) bool {
	for _, c := range DistributionColumns {
		if c == col {
			return true
		}
	}
	return false
}
