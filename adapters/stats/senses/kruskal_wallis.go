package senses

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"smmh/domain/core"
)

// KruskalWallisSense compares an ordinal outcome across groups
type KruskalWallisSense struct{}

// NewKruskalWallisSense creates a new Kruskal-Wallis sense
func NewKruskalWallisSense() *KruskalWallisSense {
	return &KruskalWallisSense{}
}

// Name returns the sense name
func (s *KruskalWallisSense) Name() string {
	return "kruskal_wallis"
}

// Analyze computes the tie-corrected H statistic, its chi-squared p-value
// on k-1 degrees of freedom and epsilon-squared = H/(n-1).
func (s *KruskalWallisSense) Analyze(groups []string, y []float64, varGroup, varY string) (SenseResult, error) {
	if len(groups) != len(y) {
		return SenseResult{}, fmt.Errorf("kruskal-wallis: length mismatch %d != %d", len(groups), len(y))
	}
	n := len(y)
	if n < 3 {
		return SenseResult{}, fmt.Errorf("%w: kruskal-wallis needs at least 3 observations, got %d", core.ErrInsufficientData, n)
	}

	ranks := Ranks(y)
	sums := make(map[string]float64)
	sizes := make(map[string]int)
	for i, g := range groups {
		sums[g] += ranks[i]
		sizes[g]++
	}
	k := len(sizes)
	if k < 2 {
		return SenseResult{}, core.ErrTooFewGroups
	}

	tieTerm := 0.0
	for _, t := range tieSizes(y) {
		tf := float64(t)
		tieTerm += tf*tf*tf - tf
	}
	nf := float64(n)
	correction := 1 - tieTerm/(nf*nf*nf-nf)
	if correction <= 0 {
		return SenseResult{}, core.ErrNoVariance
	}

	names := make([]string, 0, k)
	for g := range sizes {
		names = append(names, g)
	}
	sort.Strings(names)

	h := 0.0
	for _, g := range names {
		h += sums[g] * sums[g] / float64(sizes[g])
	}
	h = 12/(nf*(nf+1))*h - 3*(nf+1)
	h /= correction
	if h < 0 {
		h = 0
	}

	dist := distuv.ChiSquared{K: float64(k - 1)}
	p := math.Min(1, math.Max(0, dist.Survival(h)))

	return SenseResult{
		SenseName:   s.Name(),
		Statistic:   h,
		PValue:      p,
		EffectSize:  h / (nf - 1),
		SampleSize:  n,
		Groups:      k,
		Description: fmt.Sprintf("%s compared across %d %s groups (H=%.3f)", varY, k, varGroup, h),
	}, nil
}
