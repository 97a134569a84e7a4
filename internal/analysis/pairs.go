// Package analysis runs the hypothesis battery and the exploratory
// summaries over cleaned survey records.
package analysis

import (
	"smmh/domain/survey"
)

// NumericValue reads an ordinal or numeric column; ok is false when absent
func NumericValue(rec *survey.CleanRecord, col string) (float64, bool) {
	switch col {
	case survey.ColAge:
		return float64(rec.Age.Value), rec.Age.Valid
	case survey.ColDailyHoursMidpoint:
		return rec.DailyHoursMidpoint.Value, rec.DailyHoursMidpoint.Valid
	case survey.ColPlatformCount:
		return float64(rec.PlatformCount), true
	}
	v, ok := rec.Likert[col]
	if !ok || !v.Valid {
		return 0, false
	}
	return float64(v.Value), true
}

// GroupValue reads a categorical column; empty values are absent. Time
// bands outside the vocabulary have no midpoint and count as absent.
func GroupValue(rec *survey.CleanRecord, col string) (string, bool) {
	if col == survey.ColDailyTimeBand && !rec.DailyHoursMidpoint.Valid {
		return "", false
	}
	v, ok := rec.Category(col)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// CompletePairs returns the rows where both columns are present
func CompletePairs(records []survey.CleanRecord, x, y string) (xs, ys []float64) {
	for i := range records {
		xv, okX := NumericValue(&records[i], x)
		yv, okY := NumericValue(&records[i], y)
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

// CompleteGroups returns group labels and outcomes where both are present.
// Time bands are keyed by midpoint, so label variants of one band share the
// first label seen.
func CompleteGroups(records []survey.CleanRecord, group, y string) (groups []string, ys []float64) {
	bands := make(map[float64]string)
	for i := range records {
		g, okG := GroupValue(&records[i], group)
		yv, okY := NumericValue(&records[i], y)
		if !okG || !okY {
			continue
		}
		if group == survey.ColDailyTimeBand {
			m := records[i].DailyHoursMidpoint.Value
			if label, seen := bands[m]; seen {
				g = label
			} else {
				bands[m] = g
			}
		}
		groups = append(groups, g)
		ys = append(ys, yv)
	}
	return groups, ys
}
