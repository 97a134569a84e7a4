package senses

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"smmh/domain/core"
)

// SpearmanSense detects monotonic relationships using rank correlation
type SpearmanSense struct{}

// NewSpearmanSense creates a new Spearman correlation sense
func NewSpearmanSense() *SpearmanSense {
	return &SpearmanSense{}
}

// Name returns the sense name
func (s *SpearmanSense) Name() string {
	return "spearman"
}

// Analyze computes rho as the Pearson correlation of tie-averaged ranks,
// with a two-sided p-value from Student's t on n-2 degrees of freedom.
func (s *SpearmanSense) Analyze(x, y []float64, varX, varY string) (SenseResult, error) {
	if len(x) != len(y) {
		return SenseResult{}, fmt.Errorf("spearman: length mismatch %d != %d", len(x), len(y))
	}
	n := len(x)
	if n < 3 {
		return SenseResult{}, fmt.Errorf("%w: spearman needs at least 3 pairs, got %d", core.ErrInsufficientData, n)
	}
	if constant(x) || constant(y) {
		return SenseResult{}, core.ErrNoVariance
	}

	rho := stat.Correlation(Ranks(x), Ranks(y), nil)
	if rho > 1.0 {
		rho = 1.0
	} else if rho < -1.0 {
		rho = -1.0
	}

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   rho,
		PValue:      spearmanPValue(rho, n),
		EffectSize:  rho,
		SampleSize:  n,
		Description: describeSpearman(rho, varX, varY),
	}, nil
}

func spearmanPValue(rho float64, n int) float64 {
	if math.Abs(rho) >= 1.0 {
		return 0
	}
	df := float64(n - 2)
	tStat := rho * math.Sqrt(df/(1-rho*rho))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(tStat))
	return math.Min(1, math.Max(0, p))
}

func describeSpearman(rho float64, varX, varY string) string {
	direction := "positive"
	if rho < 0 {
		direction = "negative"
	}
	return fmt.Sprintf("%s monotonic association between %s and %s (rho=%.3f)", direction, varX, varY, rho)
}
