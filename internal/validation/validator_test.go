package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/domain/core"
	"smmh/domain/quality"
	"smmh/domain/survey"
)

func record(mood int) survey.CleanRecord {
	rec := survey.NewCleanRecord(2)
	rec.Age = survey.SomeInt(22)
	rec.AgeBand = "18-24"
	rec.GenderClean = "Male"
	rec.GenderGrouped = "Male"
	rec.UsesSocialMedia = survey.SomeBool(true)
	rec.IncludeInAnalysis = true
	rec.AffilNA = true
	for _, c := range survey.LikertColumns() {
		rec.Likert[c] = survey.SomeInt(mood)
	}
	return rec
}

func cleanTable(records ...survey.CleanRecord) survey.Table {
	return (&survey.Dataset{Records: records}).Table()
}

func newValidator() *Validator {
	return New(core.FixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestValidateCleanTablePasses(t *testing.T) {
	tbl := cleanTable(record(1), record(2), record(3))

	r := newValidator().Validate(quality.StageClean, tbl, CleanExpectations(3))

	assert.True(t, r.Passed(), "failed: %+v", r.Failed())
	assert.Equal(t, 3, r.RowCount)
	assert.Equal(t, 40, r.ColumnCount)
	assert.Equal(t, 0, r.DuplicateRows)
	assert.Len(t, r.Findings, 6)
	assert.Equal(t, "2024-01-02T03:04:05Z", r.GeneratedAt.String())
}

func TestOneExactDuplicateCountsOnce(t *testing.T) {
	tbl := cleanTable(record(1), record(2), record(1))

	r := newValidator().Validate(quality.StageClean, tbl, CleanExpectations(3))

	assert.Equal(t, 1, r.DuplicateRows)
	f, ok := r.Finding(quality.CheckDuplicateRows)
	require.True(t, ok)
	assert.False(t, f.Passed)
}

func TestCountDuplicatesTriple(t *testing.T) {
	tbl := survey.Table{Header: []string{"a"}, Rows: [][]string{{"x"}, {"x"}, {"x"}, {"y"}}}
	assert.Equal(t, 2, CountDuplicates(tbl))
}

func TestChecksRunIndependently(t *testing.T) {
	tbl := cleanTable(record(1), record(2))
	tbl.Rows[0][tbl.ColumnIndex(survey.ColLowMoodFreq)] = "7"
	tbl.Rows[1][tbl.ColumnIndex(survey.PlatformColumn("reddit"))] = "2"
	tbl.Rows[1][tbl.ColumnIndex(survey.ColIncludeInAnalysis)] = "False"

	r := newValidator().Validate(quality.StageClean, tbl, CleanExpectations(5))

	failed := map[string]bool{}
	for _, f := range r.Failed() {
		failed[f.Check] = true
	}
	assert.Equal(t, map[string]bool{
		quality.CheckRowCount:      true,
		quality.CheckLikertRange:   true,
		quality.CheckBinaryFlags:   true,
		quality.CheckInclusionGate: true,
	}, failed)

	f, _ := r.Finding(quality.CheckLikertRange)
	assert.Contains(t, f.Detail, survey.ColLowMoodFreq)
}

func TestMissingness(t *testing.T) {
	a := record(1)
	b := record(2)
	b.Likert[survey.ColSleepIssues] = survey.OptInt{}
	c := record(3)

	r := newValidator().Validate(quality.StageClean, cleanTable(a, b, c), CleanExpectations(3))

	m := r.Missing(survey.ColSleepIssues)
	assert.Equal(t, 1, m.Count)
	assert.Equal(t, 33.33, m.Pct)
	assert.Equal(t, 0, r.Missing(survey.ColLowMoodFreq).Count)
	assert.Equal(t, 3, r.Missing(survey.ColDailyHoursMidpoint).Count)
}

func TestRawSnapshotOnlyStructuralChecks(t *testing.T) {
	tbl := survey.Table{Header: []string{"Timestamp", "1. What is your age?"}, Rows: [][]string{{"t1", "21"}, {"t1", "21"}}}

	r := newValidator().Validate(quality.StageRaw, tbl, Expectations{ColumnCount: 2})

	assert.Equal(t, 1, r.DuplicateRows)
	assert.Len(t, r.Findings, 2)
}
