// Package privacy removes identifying fields and applies small-cell
// suppression to distribution tables.
package privacy

import (
	"sort"
	"strconv"

	"smmh/domain/survey"
)

// DefaultMinCellCount is the smallest count shown as its own row
const DefaultMinCellCount = 10

// Suppression buckets
const (
	BucketOther       = "Other"
	BucketGenderOther = "Non-binary & Other"
)

// IdentifyingColumns never leave the normalizer stage
var IdentifyingColumns = []string{survey.ColTimestamp}

// DropIdentifying returns a copy of row without identifying columns
func DropIdentifying(row survey.CanonicalRow) survey.CanonicalRow {
	values := make(map[string]string, len(row.Values))
	for k, v := range row.Values {
		values[k] = v
	}
	for _, col := range IdentifyingColumns {
		delete(values, col)
	}
	return survey.CanonicalRow{Line: row.Line, Values: values}
}

// Count is one row of a distribution table
type Count struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Masked   bool   `json:"masked,omitempty"` // aggregate still below threshold; render as "<N"
}

// Filter applies the minimum cell rule
type Filter struct {
	MinCellCount int
}

// NewFilter returns a filter; non-positive thresholds fall back to the default
func NewFilter(minCellCount int) Filter {
	if minCellCount <= 0 {
		minCellCount = DefaultMinCellCount
	}
	return Filter{MinCellCount: minCellCount}
}

// Suppress folds every category below the threshold into bucket. If the
// bucket total is itself below the threshold it is kept but masked.
func (f Filter) Suppress(counts []Count, bucket string) []Count {
	out := make([]Count, 0, len(counts)+1)
	folded := 0
	hasBucket := false
	for _, c := range counts {
		if c.Category == bucket {
			folded += c.Count
			hasBucket = true
			continue
		}
		if c.Count < f.MinCellCount {
			folded += c.Count
			hasBucket = true
			continue
		}
		out = append(out, Count{Category: c.Category, Count: c.Count})
	}
	if hasBucket && folded > 0 {
		out = append(out, Count{Category: bucket, Count: folded, Masked: folded < f.MinCellCount})
	}
	return out
}

// Visible reports whether a non-partition count may be shown as is
func (f Filter) Visible(n int) bool {
	return n == 0 || n >= f.MinCellCount
}

// MaskCount wraps a non-partition count, masking it below the threshold
func (f Filter) MaskCount(category string, n int) Count {
	return Count{Category: category, Count: n, Masked: !f.Visible(n)}
}

// Display renders a count, masking values the rule hides
func (f Filter) Display(c Count) string {
	if c.Masked || !f.Visible(c.Count) {
		return "<" + strconv.Itoa(f.MinCellCount)
	}
	return strconv.Itoa(c.Count)
}

// Tally counts values. Categories listed in order come first in that
// order; the rest follow by descending count, then name.
func Tally(values []string, order []string) []Count {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	out := make([]Count, 0, len(counts))
	for _, cat := range order {
		if n, ok := counts[cat]; ok {
			out = append(out, Count{Category: cat, Count: n})
			delete(counts, cat)
		}
	}

	rest := make([]Count, 0, len(counts))
	for cat, n := range counts {
		rest = append(rest, Count{Category: cat, Count: n})
	}
	sort.Slice(rest, func(i, j int) bool {
		if rest[i].Count != rest[j].Count {
			return rest[i].Count > rest[j].Count
		}
		return rest[i].Category < rest[j].Category
	})
	return append(out, rest...)
}

// Total sums the counts
func Total(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
