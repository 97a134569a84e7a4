// Package senses implements the rank-based tests behind the hypothesis battery.
package senses

import (
	"sort"
)

// SenseResult is the raw output of one test
type SenseResult struct {
	SenseName   string  `json:"sense_name"`
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	EffectSize  float64 `json:"effect_size"`
	SampleSize  int     `json:"sample_size"`
	Groups      int     `json:"groups,omitempty"`
	Description string  `json:"description"`
}

// Ranks converts values to 1-based ranks, averaging ties
func Ranks(data []float64) []float64 {
	n := len(data)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}
	return ranks
}

// tieSizes returns the size of every group of equal values
func tieSizes(data []float64) []int {
	counts := make(map[float64]int, len(data))
	for _, v := range data {
		counts[v]++
	}
	out := make([]int, 0, len(counts))
	for _, c := range counts {
		out = append(out, c)
	}
	return out
}

func constant(data []float64) bool {
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}
