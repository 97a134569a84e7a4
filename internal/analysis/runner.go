package analysis

import (
	"errors"
	"fmt"

	"smmh/adapters/stats/senses"
	"smmh/domain/core"
	"smmh/domain/stats"
	"smmh/domain/survey"
)

// DefaultBattery is the fixed set of five hypotheses
func DefaultBattery() []stats.Hypothesis {
	return []stats.Hypothesis{
		{ID: "H1", Predictor: survey.ColDailyTimeBand, Outcome: survey.ColLowMoodFreq, Test: stats.TestKruskalWallis,
			Description: "Low mood differs across daily time bands"},
		{ID: "H2", Predictor: survey.ColPurposelessUse, Outcome: survey.ColLowMoodFreq, Test: stats.TestSpearman,
			Description: "Purposeless use is associated with low mood"},
		{ID: "H3", Predictor: survey.ColCompareToSuccessful, Outcome: survey.ColLowMoodFreq, Test: stats.TestSpearman,
			Description: "Social comparison is associated with low mood"},
		{ID: "H4", Predictor: survey.ColSeekValidation, Outcome: survey.ColLowMoodFreq, Test: stats.TestSpearman,
			Description: "Validation seeking is associated with low mood"},
		{ID: "H5", Predictor: survey.ColRestlessWithoutSM, Outcome: survey.ColSleepIssues, Test: stats.TestSpearman,
			Description: "Restlessness without social media is associated with sleep issues"},
	}
}

// Runner executes hypotheses with pairwise complete-case deletion
type Runner struct {
	minPairs int
	spearman *senses.SpearmanSense
	kruskal  *senses.KruskalWallisSense
}

// NewRunner creates a runner; tests with fewer than minPairs complete
// observations are skipped
func NewRunner(minPairs int) *Runner {
	if minPairs <= 0 {
		minPairs = stats.DefaultMinPairs
	}
	return &Runner{
		minPairs: minPairs,
		spearman: senses.NewSpearmanSense(),
		kruskal:  senses.NewKruskalWallisSense(),
	}
}

// MinPairs returns the sample floor
func (r *Runner) MinPairs() int { return r.minPairs }

// RunAll executes each hypothesis independently, preserving battery order
func (r *Runner) RunAll(battery []stats.Hypothesis, records []survey.CleanRecord) []stats.Result {
	out := make([]stats.Result, len(battery))
	for i, h := range battery {
		out[i] = r.Run(h, records)
	}
	return out
}

// Run executes one hypothesis. Degenerate inputs yield a skipped result.
func (r *Runner) Run(h stats.Hypothesis, records []survey.CleanRecord) stats.Result {
	var (
		res senses.SenseResult
		err error
		n   int
	)
	switch h.Test {
	case stats.TestSpearman:
		xs, ys := CompletePairs(records, h.Predictor, h.Outcome)
		n = len(xs)
		if n < r.minPairs {
			return stats.NewSkipped(h, n, fmt.Sprintf("only %d complete pairs, need %d", n, r.minPairs))
		}
		res, err = r.spearman.Analyze(xs, ys, h.Predictor, h.Outcome)
	case stats.TestKruskalWallis:
		groups, ys := CompleteGroups(records, h.Predictor, h.Outcome)
		n = len(ys)
		if n < r.minPairs {
			return stats.NewSkipped(h, n, fmt.Sprintf("only %d complete pairs, need %d", n, r.minPairs))
		}
		res, err = r.kruskal.Analyze(groups, ys, h.Predictor, h.Outcome)
	default:
		return stats.NewSkipped(h, 0, fmt.Sprintf("unsupported test %q", h.Test))
	}

	if err != nil {
		reason := err.Error()
		switch {
		case errors.Is(err, core.ErrNoVariance):
			reason = "no variance in predictor or outcome"
		case errors.Is(err, core.ErrTooFewGroups):
			reason = "fewer than two predictor groups"
		}
		return stats.NewSkipped(h, n, reason)
	}

	return stats.Result{
		ID:          h.ID,
		Predictor:   h.Predictor,
		Outcome:     h.Outcome,
		Test:        h.Test,
		Description: h.Description,
		N:           res.SampleSize,
		Groups:      res.Groups,
		Statistic:   res.Statistic,
		PValue:      res.PValue,
		EffectName:  h.Test.EffectName(),
		EffectSize:  res.EffectSize,
		Effect:      stats.ThresholdsFor(h.Test).Classify(res.EffectSize),
		Significant: res.PValue < stats.Alpha,
		Alpha:       stats.Alpha,
	}
}
