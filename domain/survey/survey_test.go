package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() CleanRecord {
	rec := NewCleanRecord(2)
	rec.Age = SomeInt(21)
	rec.AgeBand = "18-24"
	rec.GenderClean = "Female"
	rec.GenderGrouped = "Female"
	rec.RelationshipStatus = "Single"
	rec.OccupationStatus = "University Student"
	rec.UsesSocialMedia = SomeBool(true)
	rec.DailyTimeBand = "Between 2 and 3 hours"
	rec.DailyHoursMidpoint = SomeFloat(2.5)
	rec.Platforms["instagram"] = true
	rec.Platforms["youtube"] = true
	rec.PlatformCount = 2
	rec.Affiliations["university"] = true
	for i, c := range LikertColumns() {
		rec.Likert[c] = SomeInt(i%5 + 1)
	}
	rec.Likert[ColSleepIssues] = OptInt{}
	rec.PlatformsRaw = "Instagram, YouTube"
	rec.OrgAffiliationsRaw = "University"
	rec.IncludeInAnalysis = true
	return rec
}

func TestCatalogueShape(t *testing.T) {
	cols := CleanColumns()
	assert.Len(t, cols, 40)
	assert.Equal(t, 40, ColumnCount)
	assert.Equal(t, ColAge, cols[0])
	assert.Equal(t, ColIncludeInAnalysis, cols[len(cols)-1])
	assert.Len(t, FlagColumns(), 15)
	assert.Len(t, LikertColumns(), 12)

	seen := map[string]bool{}
	for _, c := range cols {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
}

func TestValuesAlignWithHeader(t *testing.T) {
	rec := sampleRecord()
	values := rec.Values()
	require.Len(t, values, ColumnCount)

	tbl := (&Dataset{Records: []CleanRecord{rec}}).Table()
	assert.Equal(t, "21", tbl.Cell(0, ColAge))
	assert.Equal(t, "2.5", tbl.Cell(0, ColDailyHoursMidpoint))
	assert.Equal(t, "1", tbl.Cell(0, PlatformColumn("instagram")))
	assert.Equal(t, "0", tbl.Cell(0, PlatformColumn("tiktok")))
	assert.Equal(t, "True", tbl.Cell(0, ColUsesSocialMedia))
	assert.Equal(t, "", tbl.Cell(0, ColSleepIssues))
	assert.Equal(t, "0", tbl.Cell(0, ColAffilNA))
}

func TestDecodeTableRoundTrip(t *testing.T) {
	rec := sampleRecord()
	tbl := (&Dataset{Records: []CleanRecord{rec}}).Table()

	ds, err := DecodeTable(tbl)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	got := ds.Records[0]
	assert.Equal(t, rec.Values(), got.Values())
	assert.Empty(t, got.Issues)
	assert.Equal(t, 1, got.AffiliationCount())
}

func TestDecodeTableFlagsBadCells(t *testing.T) {
	tbl := (&Dataset{Records: []CleanRecord{sampleRecord()}}).Table()
	tbl.Rows[0][tbl.ColumnIndex(ColLowMoodFreq)] = "9"
	tbl.Rows[0][tbl.ColumnIndex(ColAge)] = "abc"

	ds, err := DecodeTable(tbl)
	require.NoError(t, err)

	got := ds.Records[0]
	assert.False(t, got.Ordinal(ColLowMoodFreq).Valid)
	assert.False(t, got.Age.Valid)
	assert.Len(t, got.Issues, 2)
}

func TestDecodeTableMissingColumn(t *testing.T) {
	_, err := DecodeTable(Table{Header: []string{ColAge}})
	assert.Error(t, err)
}

func TestDatasetIncluded(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.IncludeInAnalysis = false
	ds := &Dataset{Records: []CleanRecord{a, b}}

	assert.Len(t, ds.Included(), 1)
	assert.Equal(t, 2, ds.Len())
}
