package stats

import (
	"fmt"
	"math"

	"smmh/domain/core"
)

// Alpha is the fixed significance level
const Alpha = 0.05

// DefaultMinPairs is the smallest complete-case sample a test will run on
const DefaultMinPairs = 10

// TestType identifies a statistical test
type TestType string

const (
	TestSpearman      TestType = "spearman"
	TestKruskalWallis TestType = "kruskal_wallis"
)

// StatisticName returns the conventional symbol for the test statistic
func (t TestType) StatisticName() string {
	switch t {
	case TestSpearman:
		return "rho"
	case TestKruskalWallis:
		return "H"
	}
	return string(t)
}

// EffectName returns the effect-size measure reported for the test
func (t TestType) EffectName() string {
	switch t {
	case TestSpearman:
		return "rho"
	case TestKruskalWallis:
		return "epsilon_squared"
	}
	return ""
}

// EffectCategory buckets an effect size
type EffectCategory string

const (
	EffectNegligible EffectCategory = "negligible"
	EffectSmall      EffectCategory = "small"
	EffectModerate   EffectCategory = "moderate"
	EffectLarge      EffectCategory = "large"
	EffectNone       EffectCategory = ""
)

// Thresholds are upper bounds for negligible, small and moderate
type Thresholds struct {
	Negligible float64 `json:"negligible"`
	Small      float64 `json:"small"`
	Moderate   float64 `json:"moderate"`
}

// Fixed effect-size thresholds
var (
	RhoThresholds     = Thresholds{Negligible: 0.1, Small: 0.3, Moderate: 0.5}
	EpsilonThresholds = Thresholds{Negligible: 0.01, Small: 0.06, Moderate: 0.14}
)

// Classify buckets an effect size by magnitude; signed rho is accepted
func (th Thresholds) Classify(effect float64) EffectCategory {
	e := math.Abs(effect)
	switch {
	case e < th.Negligible:
		return EffectNegligible
	case e < th.Small:
		return EffectSmall
	case e < th.Moderate:
		return EffectModerate
	default:
		return EffectLarge
	}
}

// ThresholdsFor returns the thresholds used for a test
func ThresholdsFor(t TestType) Thresholds {
	if t == TestKruskalWallis {
		return EpsilonThresholds
	}
	return RhoThresholds
}

// Hypothesis declares one predictor/outcome test
type Hypothesis struct {
	ID          core.HypothesisID `json:"id"`
	Predictor   string            `json:"predictor"`
	Outcome     string            `json:"outcome"`
	Test        TestType          `json:"test"`
	Description string            `json:"description"`
}

// Result is the outcome of one hypothesis test
type Result struct {
	ID          core.HypothesisID `json:"id"`
	Predictor   string            `json:"predictor"`
	Outcome     string            `json:"outcome"`
	Test        TestType          `json:"test"`
	Description string            `json:"description"`
	N           int               `json:"n"`
	Groups      int               `json:"groups,omitempty"`
	Statistic   float64           `json:"statistic"`
	PValue      float64           `json:"p_value"`
	EffectName  string            `json:"effect_name"`
	EffectSize  float64           `json:"effect_size"`
	Effect      EffectCategory    `json:"effect"`
	Significant bool              `json:"significant"`
	Alpha       float64           `json:"alpha"`
	Skipped     bool              `json:"skipped"`
	SkipReason  string            `json:"skip_reason,omitempty"`
}

// NewSkipped builds a non-fatal skipped result
func NewSkipped(h Hypothesis, n int, reason string) Result {
	return Result{
		ID:          h.ID,
		Predictor:   h.Predictor,
		Outcome:     h.Outcome,
		Test:        h.Test,
		Description: h.Description,
		N:           n,
		Alpha:       Alpha,
		Skipped:     true,
		SkipReason:  reason,
	}
}

// Direction describes the sign of a correlation result
func (r Result) Direction() string {
	if r.Test != TestSpearman || r.Skipped {
		return ""
	}
	switch {
	case r.Statistic > 0:
		return "positive"
	case r.Statistic < 0:
		return "negative"
	}
	return "none"
}

// Summary is a one-line human readable form
func (r Result) Summary() string {
	if r.Skipped {
		return fmt.Sprintf("%s skipped (n=%d): %s", r.ID, r.N, r.SkipReason)
	}
	verdict := "not significant"
	if r.Significant {
		verdict = "significant"
	}
	return fmt.Sprintf("%s %s=%.3f p=%.4f n=%d, %s effect, %s", r.ID, r.Test.StatisticName(), r.Statistic, r.PValue, r.N, r.Effect, verdict)
}

// Validate checks internal consistency of a computed result
func (r Result) Validate() error {
	if core.ID(r.ID).IsEmpty() {
		return core.NewValidationError("hypothesis_result", "id cannot be empty")
	}
	if r.Skipped {
		if r.SkipReason == "" {
			return core.NewValidationError("hypothesis_result", "skipped result needs a reason")
		}
		return nil
	}
	if r.N <= 0 {
		return core.NewValidationError("hypothesis_result", "sample size must be positive")
	}
	if r.PValue < 0 || r.PValue > 1 || math.IsNaN(r.PValue) {
		return core.NewValidationError("hypothesis_result", "p-value must be within [0,1]")
	}
	if r.Significant != (r.PValue < r.Alpha) {
		return core.NewValidationError("hypothesis_result", "significance flag disagrees with p-value")
	}
	return nil
}
