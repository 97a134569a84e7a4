package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smmh/domain/survey"
)

func TestDropIdentifying(t *testing.T) {
	row := survey.CanonicalRow{Line: 3, Values: map[string]string{
		survey.ColTimestamp: "2022/04/25 12:00:00",
		survey.ColAge:       "21",
	}}

	got := DropIdentifying(row)

	_, ok := got.Values[survey.ColTimestamp]
	assert.False(t, ok)
	assert.Equal(t, "21", got.Get(survey.ColAge))
	assert.Equal(t, 3, got.Line)
	assert.Contains(t, row.Values, survey.ColTimestamp, "input must not be mutated")
}

func TestSuppressFoldsSmallBuckets(t *testing.T) {
	counts := []Count{
		{Category: "Female", Count: 250},
		{Category: "Male", Count: 210},
		{Category: "Non-binary", Count: 6},
		{Category: "Trans", Count: 3},
		{Category: "Unsure", Count: 2},
		{Category: "Prefer not to say", Count: 10},
	}

	got := NewFilter(10).Suppress(counts, BucketGenderOther)

	require.Len(t, got, 4)
	for _, c := range got {
		assert.NotContains(t, []string{"Non-binary", "Trans", "Unsure"}, c.Category)
	}
	last := got[len(got)-1]
	assert.Equal(t, BucketGenderOther, last.Category)
	assert.Equal(t, 11, last.Count)
	assert.False(t, last.Masked)
	assert.Equal(t, 481, Total(got))
}

func TestSuppressMasksSmallAggregate(t *testing.T) {
	f := NewFilter(10)
	got := f.Suppress([]Count{{Category: "Retired", Count: 4}, {Category: "University Student", Count: 300}}, BucketOther)

	require.Len(t, got, 2)
	assert.Equal(t, "University Student", got[0].Category)
	assert.Equal(t, BucketOther, got[1].Category)
	assert.True(t, got[1].Masked)
	assert.Equal(t, "<10", f.Display(got[1]))
	assert.Equal(t, "300", f.Display(got[0]))
}

func TestSuppressMergesExistingBucket(t *testing.T) {
	got := NewFilter(10).Suppress([]Count{{Category: "Other", Count: 12}, {Category: "A", Count: 40}, {Category: "B", Count: 1}}, BucketOther)

	require.Len(t, got, 2)
	assert.Equal(t, Count{Category: "Other", Count: 13}, got[1])
}

func TestTallyOrder(t *testing.T) {
	got := Tally([]string{"b", "a", "c", "c", "b", "c"}, []string{"a"})

	assert.Equal(t, []Count{{Category: "a", Count: 1}, {Category: "c", Count: 3}, {Category: "b", Count: 2}}, got)
}

func TestNewFilterDefault(t *testing.T) {
	assert.Equal(t, DefaultMinCellCount, NewFilter(0).MinCellCount)
	assert.True(t, NewFilter(10).Visible(0))
	assert.False(t, NewFilter(10).Visible(9))
}

func TestMaskCount(t *testing.T) {
	f := NewFilter(10)

	low := f.MaskCount("Reddit", 4)
	assert.True(t, low.Masked)
	assert.Equal(t, "<10", f.Display(low))

	high := f.MaskCount("YouTube", 40)
	assert.False(t, high.Masked)
	assert.Equal(t, "40", f.Display(high))
	assert.False(t, f.MaskCount("TikTok", 0).Masked)
}
