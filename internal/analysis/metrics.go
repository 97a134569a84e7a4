package analysis

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"smmh/domain/survey"
)

// LowSampleThreshold triggers a warning on filtered views
const LowSampleThreshold = 30

// HighUsageHours is the midpoint from which usage counts as high
const HighUsageHours = 4.0

// FilterAll is the dashboard value meaning no restriction
const FilterAll = "All"

// Filter restricts records by segment column values
type Filter map[string]string

// NewFilter keeps only segment columns with a concrete value
func NewFilter(values map[string]string) Filter {
	f := Filter{}
	for col, v := range values {
		if v == "" || v == FilterAll || !IsSegmentColumn(col) {
			continue
		}
		f[col] = v
	}
	return f
}

// Apply returns the matching records
func (f Filter) Apply(records []survey.CleanRecord) []survey.CleanRecord {
	if len(f) == 0 {
		return records
	}
	out := make([]survey.CleanRecord, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Match reports whether a record satisfies every condition
func (f Filter) Match(rec *survey.CleanRecord) bool {
	for col, want := range f {
		got, _ := rec.Category(col)
		if got != want {
			return false
		}
	}
	return true
}

// String renders the filter in a stable order
func (f Filter) String() string {
	if len(f) == 0 {
		return "all respondents"
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%s", k, f[k])
	}
	return out
}

// Metrics are the headline numbers of the dashboard overview
type Metrics struct {
	Respondents       int     `json:"respondents"`
	MeanDailyHours    float64 `json:"mean_daily_hours"`
	MeanPlatformCount float64 `json:"mean_platform_count"`
	MeanLowMood       float64 `json:"mean_low_mood"`
	MeanComparison    float64 `json:"mean_comparison"`
	PctHighUsage      float64 `json:"pct_high_usage"`
	LowSample         bool    `json:"low_sample"`
}

// ComputeMetrics summarizes records; absent values are excluded per metric
func ComputeMetrics(records []survey.CleanRecord) Metrics {
	m := Metrics{Respondents: len(records), LowSample: len(records) < LowSampleThreshold}
	if len(records) == 0 {
		return m
	}

	var hours, platforms, mood, comparison []float64
	high := 0
	for i := range records {
		rec := &records[i]
		if v, ok := NumericValue(rec, survey.ColDailyHoursMidpoint); ok {
			hours = append(hours, v)
			if v >= HighUsageHours {
				high++
			}
		}
		platforms = append(platforms, float64(rec.PlatformCount))
		if v, ok := NumericValue(rec, survey.ColLowMoodFreq); ok {
			mood = append(mood, v)
		}
		if v, ok := NumericValue(rec, survey.ColCompareToSuccessful); ok {
			comparison = append(comparison, v)
		}
	}

	m.MeanDailyHours = meanOrZero(hours)
	m.MeanPlatformCount = meanOrZero(platforms)
	m.MeanLowMood = meanOrZero(mood)
	m.MeanComparison = meanOrZero(comparison)
	if len(hours) > 0 {
		m.PctHighUsage = 100 * float64(high) / float64(len(hours))
	}
	return m
}

func meanOrZero(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return mean
}
