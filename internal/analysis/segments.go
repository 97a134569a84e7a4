package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"smmh/domain/survey"
	"smmh/internal/features"
	"smmh/internal/privacy"
)

// SegmentColumns are the categorical columns offered for breakdowns
var SegmentColumns = []string{
	survey.ColAgeBand,
	survey.ColGenderGrouped,
	survey.ColDailyTimeBand,
	survey.ColOccupationStatus,
}

// IsSegmentColumn reports whether col may be used as a breakdown or filter
func IsSegmentColumn(col string) bool {
	for _, c := range SegmentColumns {
		if c == col {
			return true
		}
	}
	return false
}

// Segment summarizes the outcome inside one category
type Segment struct {
	Value  string  `json:"value"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Folded bool    `json:"folded,omitempty"`
}

// SegmentSummary is the breakdown of outcome by column
type SegmentSummary struct {
	Column   string    `json:"column"`
	Outcome  string    `json:"outcome"`
	Segments []Segment `json:"segments"`
}

// SummarizeSegments groups records by column and reports n, mean and median
// of outcome. Segments smaller than the filter threshold are pooled into
// privacy.BucketOther.
func SummarizeSegments(records []survey.CleanRecord, column, outcome string, filter privacy.Filter) (SegmentSummary, error) {
	if !IsSegmentColumn(column) {
		return SegmentSummary{}, fmt.Errorf("%q is not a segment column", column)
	}
	groups, ys := CompleteGroups(records, column, outcome)

	byValue := make(map[string][]float64)
	for i, g := range groups {
		byValue[g] = append(byValue[g], ys[i])
	}
	counts := privacy.Tally(groups, segmentOrder(column))

	summary := SegmentSummary{Column: column, Outcome: outcome}
	var pooled []float64
	for _, c := range counts {
		if c.Count < filter.MinCellCount || c.Category == privacy.BucketOther {
			pooled = append(pooled, byValue[c.Category]...)
			continue
		}
		summary.Segments = append(summary.Segments, describe(c.Category, byValue[c.Category]))
	}
	if len(pooled) > 0 {
		seg := describe(privacy.BucketOther, pooled)
		seg.Folded = true
		summary.Segments = append(summary.Segments, seg)
	}
	return summary, nil
}

func describe(value string, data []float64) Segment {
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	return Segment{Value: value, N: len(data), Mean: mean, Median: median}
}

func segmentOrder(column string) []string {
	switch column {
	case survey.ColAgeBand:
		return features.AgeBands
	case survey.ColGenderGrouped:
		return []string{features.GenderFemale, features.GenderMale, features.GenderNonBinaryOther, features.GenderPreferNotToSay}
	}
	return nil
}
