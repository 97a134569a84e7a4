package survey

import (
	"fmt"
	"strconv"
	"strings"
)

// DecodeTable parses a persisted cleaned table back into records.
// Cells that fail to parse are left absent and recorded as issues.
func DecodeTable(t Table) (*Dataset, error) {
	for _, col := range CleanColumns() {
		if !t.Has(col) {
			return nil, fmt.Errorf("decode cleaned table: missing column %q", col)
		}
	}

	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		idx[h] = i
	}

	ds := &Dataset{Records: make([]CleanRecord, 0, len(t.Rows))}
	for i, row := range t.Rows {
		cell := func(col string) string {
			j := idx[col]
			if j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}

		rec := NewCleanRecord(i + 2)
		rec.Age = decodeInt(&rec, ColAge, cell(ColAge))
		rec.AgeBand = cell(ColAgeBand)
		rec.GenderClean = cell(ColGenderClean)
		rec.GenderGrouped = cell(ColGenderGrouped)
		rec.RelationshipStatus = cell(ColRelationshipStatus)
		rec.OccupationStatus = cell(ColOccupationStatus)
		rec.UsesSocialMedia = decodeBool(&rec, ColUsesSocialMedia, cell(ColUsesSocialMedia))
		rec.DailyTimeBand = cell(ColDailyTimeBand)
		if v := cell(ColDailyHoursMidpoint); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				rec.DailyHoursMidpoint = SomeFloat(f)
			} else {
				rec.AddIssue(ColDailyHoursMidpoint, v, "not numeric")
			}
		}
		for _, p := range Platforms {
			rec.Platforms[p] = decodeFlag(cell(PlatformColumn(p)))
		}
		rec.PlatformCount, _ = strconv.Atoi(cell(ColPlatformCount))
		for _, a := range Affiliations {
			rec.Affiliations[a] = decodeFlag(cell(AffiliationColumn(a)))
		}
		rec.AffilNA = decodeFlag(cell(ColAffilNA))
		for _, c := range LikertColumns() {
			v := decodeInt(&rec, c, cell(c))
			if v.Valid && (v.Value < LikertMin || v.Value > LikertMax) {
				rec.AddIssue(c, cell(c), "outside 1-5")
				v = OptInt{}
			}
			rec.Likert[c] = v
		}
		rec.PlatformsRaw = cell(ColPlatformsRaw)
		rec.OrgAffiliationsRaw = cell(ColOrgAffiliationsRaw)
		include := decodeBool(&rec, ColIncludeInAnalysis, cell(ColIncludeInAnalysis))
		rec.IncludeInAnalysis = include.Valid && include.Value

		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func decodeInt(rec *CleanRecord, col, v string) OptInt {
	if v == "" {
		return OptInt{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		rec.AddIssue(col, v, "not an integer")
		return OptInt{}
	}
	return SomeInt(int(f))
}

func decodeBool(rec *CleanRecord, col, v string) OptBool {
	switch strings.ToLower(v) {
	case "":
		return OptBool{}
	case "true", "1":
		return SomeBool(true)
	case "false", "0":
		return SomeBool(false)
	}
	rec.AddIssue(col, v, "not a boolean")
	return OptBool{}
}

func decodeFlag(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}
