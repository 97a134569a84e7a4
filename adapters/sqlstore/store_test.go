package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/domain/core"
	"smmh/domain/run"
	"smmh/domain/stats"
	"smmh/domain/survey"
	"smmh/internal/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func completedRun(t *testing.T, at time.Time) *run.Manifest {
	t.Helper()
	m := run.NewManifest("etl", "raw.csv", core.FixedClock(at))
	m.RowsIn, m.RowsOut, m.Included = 3, 3, 2
	m.OutputPath = "clean.csv"
	m.OutputHash = core.NewHash([]byte("clean"))
	m.Fingerprint = run.NewFingerprint("in", "vocab", "settings", "dev")
	m.Complete(core.FixedClock(at.Add(time.Second)))
	return m
}

func TestDriverFor(t *testing.T) {
	cases := []struct {
		url, driver, dsn string
	}{
		{"postgres://u:p@localhost/smmh", "postgres", "postgres://u:p@localhost/smmh"},
		{"sqlite://data/smmh.db", "sqlite", "data/smmh.db"},
		{":memory:", "sqlite", ":memory:"},
		{"file:test.db?cache=shared", "sqlite", "file:test.db?cache=shared"},
	}
	for _, tc := range cases {
		driver, dsn, err := DriverFor(tc.url)
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.driver, driver)
		assert.Equal(t, tc.dsn, dsn)
	}

	_, _, err := DriverFor("mysql://nope")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := completedRun(t, start)

	require.NoError(t, s.SaveRun(ctx, m))
	got, err := s.GetRun(ctx, m.RunID)
	require.NoError(t, err)

	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, run.StatusCompleted, got.Status)
	assert.Equal(t, m.Fingerprint, got.Fingerprint)
	assert.Equal(t, 2, got.Included)
	assert.Equal(t, time.Second, got.Duration())

	m.Included = 3
	require.NoError(t, s.SaveRun(ctx, m))
	got, err = s.GetRun(ctx, m.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Included)

	_, err = s.GetRun(ctx, core.RunID("missing"))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestListRunsAndLatest(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	older := completedRun(t, base)
	newer := completedRun(t, base.Add(time.Hour))
	failed := run.NewManifest("etl", "raw.csv", core.FixedClock(base.Add(2*time.Hour)))
	failed.Fail(core.FixedClock(base.Add(2*time.Hour)), assert.AnError)
	for _, m := range []*run.Manifest{older, newer, failed} {
		require.NoError(t, s.SaveRun(ctx, m))
	}

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, failed.RunID, runs[0].RunID)

	latest, err := s.LatestCompleted(ctx, "etl")
	require.NoError(t, err)
	assert.Equal(t, newer.RunID, latest.RunID)

	_, err = s.LatestCompleted(ctx, "analyze")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := completedRun(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, m))

	a := survey.NewCleanRecord(2)
	a.Age = survey.SomeInt(21)
	a.Platforms["facebook"] = true
	a.PlatformCount = 1
	a.Likert[survey.ColLowMoodFreq] = survey.SomeInt(4)
	a.IncludeInAnalysis = true
	b := survey.NewCleanRecord(3)
	b.AddIssue(survey.ColAge, "abc", "not a number")

	require.NoError(t, s.SaveRecords(ctx, m.RunID, []survey.CleanRecord{b, a}))

	all, err := s.LoadRecords(ctx, m.RunID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].Line)
	assert.Equal(t, a.Values(), all[0].Values())
	assert.Len(t, all[1].Issues, 1)

	included, err := s.LoadRecords(ctx, m.RunID, true)
	require.NoError(t, err)
	require.Len(t, included, 1)
	assert.Equal(t, survey.SomeInt(4), included[0].Likert[survey.ColLowMoodFreq])

	require.NoError(t, s.SaveRecords(ctx, m.RunID, []survey.CleanRecord{a}))
	all, err = s.LoadRecords(ctx, m.RunID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestResultsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := completedRun(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, m))

	h2 := stats.Hypothesis{ID: "H2", Predictor: survey.ColPurposelessUse, Outcome: survey.ColLowMoodFreq, Test: stats.TestSpearman}
	results := []stats.Result{
		stats.NewSkipped(h2, 4, "only 4 complete pairs, need 10"),
		{ID: "H1", Test: stats.TestKruskalWallis, N: 9, Statistic: 7.2, PValue: 0.027, EffectSize: 0.9,
			Effect: stats.EffectLarge, Significant: true, Alpha: stats.Alpha},
	}
	require.NoError(t, s.SaveResults(ctx, m.RunID, results))

	got, err := s.ListResults(ctx, m.RunID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, results[1], got[0])
	assert.Equal(t, results[0], got[1])
}
