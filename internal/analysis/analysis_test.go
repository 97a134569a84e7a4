package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/domain/stats"
	"smmh/domain/survey"
	"smmh/internal/cleaning"
	"smmh/internal/features"
	"smmh/internal/privacy"
	"smmh/internal/testkit"
	"smmh/internal/vocab"
)

func record(line int) survey.CleanRecord {
	r := survey.NewCleanRecord(line)
	r.IncludeInAnalysis = true
	return r
}

func generated(t *testing.T) []survey.CleanRecord {
	t.Helper()
	v := vocab.MustDefault()
	cleaner := cleaning.New(v)
	builder := features.NewBuilder(v)

	rows := testkit.NewSurveyGenerator(testkit.DefaultSurveyConfig()).GenerateCanonical()
	ds := &survey.Dataset{}
	for i, row := range rows {
		canon := privacy.DropIdentifying(survey.CanonicalRow{Line: i + 2, Values: row})
		ds.Records = append(ds.Records, builder.Derive(cleaner.Clean(canon)))
	}
	included := ds.Included()
	require.GreaterOrEqual(t, len(included), 30)
	return included
}

func hypothesis(t *testing.T, id string) stats.Hypothesis {
	t.Helper()
	for _, h := range DefaultBattery() {
		if string(h.ID) == id {
			return h
		}
	}
	t.Fatalf("hypothesis %s not in battery", id)
	return stats.Hypothesis{}
}

func TestDefaultBattery(t *testing.T) {
	battery := DefaultBattery()
	require.Len(t, battery, 5)

	assert.Equal(t, stats.TestKruskalWallis, battery[0].Test)
	assert.Equal(t, survey.ColDailyTimeBand, battery[0].Predictor)
	for _, h := range battery[1:] {
		assert.Equal(t, stats.TestSpearman, h.Test, string(h.ID))
	}
	assert.Equal(t, survey.ColSleepIssues, battery[4].Outcome)
}

func TestRunSpearmanKnownValues(t *testing.T) {
	var records []survey.CleanRecord
	for i, y := range []int{1, 2, 3, 4, 3} {
		r := record(i + 2)
		r.Likert[survey.ColPurposelessUse] = survey.SomeInt(i + 1)
		r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(y)
		records = append(records, r)
	}

	res := NewRunner(3).Run(hypothesis(t, "H2"), records)

	require.False(t, res.Skipped, res.SkipReason)
	assert.InDelta(t, 0.8207826816681233, res.Statistic, 1e-9)
	assert.InDelta(t, 0.0885870, res.PValue, 1e-5)
	assert.Equal(t, stats.EffectLarge, res.Effect)
	assert.False(t, res.Significant)
	assert.Equal(t, 5, res.N)
	assert.NoError(t, res.Validate())
}

func TestRunKruskalWallisKnownValues(t *testing.T) {
	bands := []struct {
		label    string
		midpoint float64
		moods    []int
	}{
		{"Less than an Hour", 0.5, []int{1, 2, 3}},
		{"Between 2 and 3 hours", 2.5, []int{4, 5, 6}},
		{"More than 5 hours", 5.5, []int{7, 8, 9}},
	}
	var records []survey.CleanRecord
	for _, b := range bands {
		for _, m := range b.moods {
			r := record(len(records) + 2)
			r.DailyTimeBand = b.label
			r.DailyHoursMidpoint = survey.SomeFloat(b.midpoint)
			r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(m)
			records = append(records, r)
		}
	}

	res := NewRunner(3).Run(hypothesis(t, "H1"), records)

	require.False(t, res.Skipped, res.SkipReason)
	assert.InDelta(t, 7.2, res.Statistic, 1e-9)
	assert.InDelta(t, 0.9, res.EffectSize, 1e-9)
	assert.Equal(t, 3, res.Groups)
	assert.Equal(t, stats.EffectLarge, res.Effect)
	assert.True(t, res.Significant)
	assert.Equal(t, "epsilon_squared", res.EffectName)
}

func TestRunSkipsSmallSample(t *testing.T) {
	var records []survey.CleanRecord
	for i := 0; i < 5; i++ {
		r := record(i + 2)
		r.Likert[survey.ColSeekValidation] = survey.SomeInt(i%5 + 1)
		r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(5 - i%5)
		records = append(records, r)
	}

	res := NewRunner(stats.DefaultMinPairs).Run(hypothesis(t, "H4"), records)

	assert.True(t, res.Skipped)
	assert.Equal(t, 5, res.N)
	assert.Contains(t, res.SkipReason, "complete pairs")
	assert.NoError(t, res.Validate())
}

func TestRunSkipsNoVariance(t *testing.T) {
	var records []survey.CleanRecord
	for i := 0; i < 20; i++ {
		r := record(i + 2)
		r.Likert[survey.ColRestlessWithoutSM] = survey.SomeInt(3)
		r.Likert[survey.ColSleepIssues] = survey.SomeInt(i%5 + 1)
		records = append(records, r)
	}

	res := NewRunner(10).Run(hypothesis(t, "H5"), records)

	assert.True(t, res.Skipped)
	assert.Contains(t, res.SkipReason, "no variance")
}

func TestRunSkipsSingleGroup(t *testing.T) {
	var records []survey.CleanRecord
	for i := 0; i < 12; i++ {
		r := record(i + 2)
		r.DailyTimeBand = "Between 1 and 2 hours"
		r.DailyHoursMidpoint = survey.SomeFloat(1.5)
		r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(i%5 + 1)
		records = append(records, r)
	}

	res := NewRunner(10).Run(hypothesis(t, "H1"), records)

	assert.True(t, res.Skipped)
	assert.Contains(t, res.SkipReason, "two predictor groups")
}

func TestPairwiseCompleteCase(t *testing.T) {
	var records []survey.CleanRecord
	for i := 0; i < 12; i++ {
		r := record(i + 2)
		r.Likert[survey.ColCompareToSuccessful] = survey.SomeInt(i%5 + 1)
		if i%4 != 0 {
			r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(i%5 + 1)
		}
		records = append(records, r)
	}

	xs, ys := CompletePairs(records, survey.ColCompareToSuccessful, survey.ColLowMoodFreq)
	assert.Len(t, xs, 9)
	assert.Len(t, ys, 9)

	res := NewRunner(10).Run(hypothesis(t, "H3"), records)
	assert.True(t, res.Skipped)
	assert.Equal(t, 9, res.N)
}

func TestNegativeRhoKeepsSign(t *testing.T) {
	var records []survey.CleanRecord
	for i := 0; i < 20; i++ {
		r := record(i + 2)
		x := i%5 + 1
		r.Likert[survey.ColPurposelessUse] = survey.SomeInt(x)
		r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(6 - x)
		records = append(records, r)
	}

	res := NewRunner(stats.DefaultMinPairs).Run(hypothesis(t, "H2"), records)

	require.False(t, res.Skipped, res.SkipReason)
	assert.InDelta(t, -1.0, res.EffectSize, 1e-9)
	assert.Equal(t, "rho", res.EffectName)
	assert.Equal(t, stats.EffectLarge, res.Effect)
	assert.Equal(t, "negative", res.Direction())
}

func TestGroupsMergeLabelVariants(t *testing.T) {
	labels := []string{"More than 5 hours", "more than 5 hours", "Less than an Hour"}
	midpoints := map[string]float64{"More than 5 hours": 5.5, "more than 5 hours": 5.5, "Less than an Hour": 0.5}
	var records []survey.CleanRecord
	for i := 0; i < 30; i++ {
		r := record(i + 2)
		r.DailyTimeBand = labels[i%3]
		r.DailyHoursMidpoint = survey.SomeFloat(midpoints[r.DailyTimeBand])
		r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(i%5 + 1)
		records = append(records, r)
	}

	groups, ys := CompleteGroups(records, survey.ColDailyTimeBand, survey.ColLowMoodFreq)
	require.Len(t, groups, 30)
	assert.Len(t, ys, 30)
	distinct := map[string]bool{}
	for _, g := range groups {
		distinct[g] = true
	}
	assert.Equal(t, map[string]bool{"More than 5 hours": true, "Less than an Hour": true}, distinct)

	res := NewRunner(stats.DefaultMinPairs).Run(hypothesis(t, "H1"), records)
	require.False(t, res.Skipped, res.SkipReason)
	assert.Equal(t, 2, res.Groups)
}

func TestGroupsRequireMidpoint(t *testing.T) {
	a := record(2)
	a.DailyTimeBand = "Between 1 and 2 hours"
	a.DailyHoursMidpoint = survey.SomeFloat(1.5)
	a.Likert[survey.ColLowMoodFreq] = survey.SomeInt(2)

	b := record(3)
	b.DailyTimeBand = "Sometimes"
	b.Likert[survey.ColLowMoodFreq] = survey.SomeInt(4)

	groups, ys := CompleteGroups([]survey.CleanRecord{a, b}, survey.ColDailyTimeBand, survey.ColLowMoodFreq)
	assert.Equal(t, []string{"Between 1 and 2 hours"}, groups)
	assert.Equal(t, []float64{2}, ys)
}

func TestPlantedRelationIsSignificant(t *testing.T) {
	records := generated(t)

	res := NewRunner(stats.DefaultMinPairs).Run(hypothesis(t, "H3"), records)

	require.False(t, res.Skipped, res.SkipReason)
	assert.Greater(t, res.Statistic, 0.0)
	assert.True(t, res.Significant)
	assert.Equal(t, "positive", res.Direction())

	all := NewRunner(stats.DefaultMinPairs).RunAll(DefaultBattery(), records)
	require.Len(t, all, 5)
	for _, r := range all {
		assert.NoError(t, r.Validate(), string(r.ID))
	}
}

func TestBehaviourWellbeingMatrix(t *testing.T) {
	m := BehaviourWellbeingMatrix(generated(t), stats.DefaultMinPairs)

	require.Len(t, m.Cells, 5)
	for _, row := range m.Cells {
		assert.Len(t, row, 4)
	}
	cell, ok := m.Cell(survey.ColCompareToSuccessful, survey.ColLowMoodFreq)
	require.True(t, ok)
	assert.True(t, cell.Defined)
	assert.Greater(t, cell.Rho, 0.5)

	_, ok = m.Cell(survey.ColSeekValidation, survey.ColLowMoodFreq)
	assert.True(t, ok)

	_, ok = m.Cell(survey.ColLowMoodFreq, survey.ColCompareToSuccessful)
	assert.False(t, ok)
	_, ok = m.Cell(survey.ColEasilyDistracted, survey.ColLowMoodFreq)
	assert.False(t, ok)
}

func TestMatrixUndefinedBelowFloor(t *testing.T) {
	r := record(2)
	r.Likert[survey.ColPurposelessUse] = survey.SomeInt(1)
	r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(2)

	m := SpearmanMatrix([]survey.CleanRecord{r}, []string{survey.ColPurposelessUse}, []string{survey.ColLowMoodFreq}, 10)
	assert.False(t, m.Cells[0][0].Defined)
	assert.Equal(t, 1, m.Cells[0][0].N)
}

func TestSummarizeSegmentsFoldsSmallGroups(t *testing.T) {
	var records []survey.CleanRecord
	add := func(occupation string, n, mood int) {
		for i := 0; i < n; i++ {
			r := record(len(records) + 2)
			r.OccupationStatus = occupation
			r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(mood)
			records = append(records, r)
		}
	}
	add("University Student", 12, 4)
	add("Retired", 3, 1)
	add("Salaried Worker", 2, 2)

	summary, err := SummarizeSegments(records, survey.ColOccupationStatus, survey.ColLowMoodFreq, privacy.NewFilter(10))
	require.NoError(t, err)
	require.Len(t, summary.Segments, 2)

	assert.Equal(t, "University Student", summary.Segments[0].Value)
	assert.Equal(t, 12, summary.Segments[0].N)
	assert.InDelta(t, 4.0, summary.Segments[0].Mean, 1e-9)

	other := summary.Segments[1]
	assert.Equal(t, privacy.BucketOther, other.Value)
	assert.True(t, other.Folded)
	assert.Equal(t, 5, other.N)
	assert.InDelta(t, 1.4, other.Mean, 1e-9)
	assert.InDelta(t, 1.0, other.Median, 1e-9)
	for _, s := range summary.Segments {
		assert.NotEqual(t, "Retired", s.Value)
	}
}

func TestSummarizeSegmentsRejectsUnknownColumn(t *testing.T) {
	_, err := SummarizeSegments(nil, survey.ColPlatformsRaw, survey.ColLowMoodFreq, privacy.NewFilter(10))
	assert.Error(t, err)
}

func TestFilterAndMetrics(t *testing.T) {
	var records []survey.CleanRecord
	for i := 0; i < 4; i++ {
		r := record(i + 2)
		r.AgeBand = features.Age18to24
		r.PlatformCount = 2
		r.DailyHoursMidpoint = survey.SomeFloat([]float64{0.5, 2.5, 4.5, 5.5}[i])
		r.Likert[survey.ColLowMoodFreq] = survey.SomeInt(i + 1)
		r.Likert[survey.ColCompareToSuccessful] = survey.SomeInt(3)
		records = append(records, r)
	}
	older := record(10)
	older.AgeBand = features.Age25to34
	older.PlatformCount = 7
	records = append(records, older)

	f := NewFilter(map[string]string{
		survey.ColAgeBand:       features.Age18to24,
		survey.ColGenderGrouped: FilterAll,
		survey.ColPlatformsRaw:  "Facebook",
	})
	assert.Len(t, f, 1)
	assert.Equal(t, "age_band=18-24", f.String())

	m := ComputeMetrics(f.Apply(records))
	assert.Equal(t, 4, m.Respondents)
	assert.InDelta(t, 3.25, m.MeanDailyHours, 1e-9)
	assert.InDelta(t, 2.0, m.MeanPlatformCount, 1e-9)
	assert.InDelta(t, 2.5, m.MeanLowMood, 1e-9)
	assert.InDelta(t, 3.0, m.MeanComparison, 1e-9)
	assert.InDelta(t, 50.0, m.PctHighUsage, 1e-9)
	assert.True(t, m.LowSample)

	assert.Len(t, NewFilter(nil).Apply(records), 5)
	assert.Equal(t, 0, ComputeMetrics(nil).Respondents)
}
