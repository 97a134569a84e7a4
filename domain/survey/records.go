package survey

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

// RawRecord is one survey response keyed by original question text
type RawRecord struct {
	Line   int               `json:"line"` // 1-based data line in the source file
	Fields map[string]string `json:"fields"`
}

// RawTable is the raw input as read from disk
type RawTable struct {
	Source  string      `json:"source"`
	Headers []string    `json:"headers"`
	Records []RawRecord `json:"records"`
}

// Table converts the raw input to a string table in header order
func (r *RawTable) Table() Table {
	rows := make([][]string, len(r.Records))
	for i, rec := range r.Records {
		row := make([]string, len(r.Headers))
		for j, h := range r.Headers {
			row[j] = rec.Fields[h]
		}
		rows[i] = row
	}
	return Table{Header: append([]string(nil), r.Headers...), Rows: rows}
}

// CanonicalRow is a raw record after header normalization
type CanonicalRow struct {
	Line   int
	Values map[string]string
}

// Get returns the value of a canonical column, empty when absent
func (c CanonicalRow) Get(col string) string {
	return c.Values[col]
}

// OptInt is an integer that may be absent
type OptInt struct {
	Value int
	Valid bool
}

// SomeInt wraps a present integer
func SomeInt(v int) OptInt { return OptInt{Value: v, Valid: true} }

func (o OptInt) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.Itoa(o.Value)
}

// OptFloat is a float that may be absent
type OptFloat struct {
	Value float64
	Valid bool
}

// SomeFloat wraps a present float
func SomeFloat(v float64) OptFloat { return OptFloat{Value: v, Valid: true} }

func (o OptFloat) String() string {
	if !o.Valid || math.IsNaN(o.Value) {
		return ""
	}
	return strconv.FormatFloat(o.Value, 'f', 1, 64)
}

// OptBool is a boolean that may be absent
type OptBool struct {
	Value bool
	Valid bool
}

// SomeBool wraps a present boolean
func SomeBool(v bool) OptBool { return OptBool{Value: v, Valid: true} }

func (o OptBool) String() string {
	if !o.Valid {
		return ""
	}
	return FormatBool(o.Value)
}

// FormatBool renders booleans the way the cleaned CSV stores them
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// FormatFlag renders a flag as 0/1
func FormatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// FieldIssue is a non-fatal cleaning diagnostic
type FieldIssue struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// CleanRecord is one respondent after cleaning and derivation
type CleanRecord struct {
	Age                OptInt
	AgeBand            string
	GenderClean        string
	GenderGrouped      string
	RelationshipStatus string
	OccupationStatus   string
	UsesSocialMedia    OptBool
	DailyTimeBand      string
	DailyHoursMidpoint OptFloat
	Platforms          map[string]bool // keyed by Platforms entries
	PlatformCount      int
	Affiliations       map[string]bool // keyed by Affiliations entries
	AffilNA            bool
	Likert             map[string]OptInt // keyed by LikertColumns entries
	PlatformsRaw       string
	OrgAffiliationsRaw string
	IncludeInAnalysis  bool

	Line   int
	Issues []FieldIssue
}

// NewCleanRecord returns a record with all maps allocated
func NewCleanRecord(line int) CleanRecord {
	return CleanRecord{
		Line:         line,
		Platforms:    make(map[string]bool, len(Platforms)),
		Affiliations: make(map[string]bool, len(Affiliations)),
		Likert:       make(map[string]OptInt, len(BehaviourColumns)+len(WellbeingColumns)),
	}
}

// Clone returns a copy that shares no maps or slices with r
func (r CleanRecord) Clone() CleanRecord {
	out := r
	out.Platforms = maps.Clone(r.Platforms)
	out.Affiliations = maps.Clone(r.Affiliations)
	out.Likert = maps.Clone(r.Likert)
	out.Issues = slices.Clone(r.Issues)
	return out
}

// Ordinal returns a Likert item by column name
func (r *CleanRecord) Ordinal(col string) OptInt {
	return r.Likert[col]
}

// AffiliationCount sums the affiliation flags
func (r *CleanRecord) AffiliationCount() int {
	n := 0
	for _, a := range Affiliations {
		if r.Affiliations[a] {
			n++
		}
	}
	return n
}

// AddIssue records a non-fatal cleaning problem
func (r *CleanRecord) AddIssue(col, value, reason string) {
	r.Issues = append(r.Issues, FieldIssue{Line: r.Line, Column: col, Value: value, Reason: reason})
}

// Category returns the string value of a categorical column, used for grouping and filters
func (r *CleanRecord) Category(col string) (string, bool) {
	switch col {
	case ColAgeBand:
		return r.AgeBand, true
	case ColGenderClean:
		return r.GenderClean, true
	case ColGenderGrouped:
		return r.GenderGrouped, true
	case ColRelationshipStatus:
		return r.RelationshipStatus, true
	case ColOccupationStatus:
		return r.OccupationStatus, true
	case ColDailyTimeBand:
		return r.DailyTimeBand, true
	case ColUsesSocialMedia:
		return r.UsesSocialMedia.String(), true
	}
	return "", false
}

// Values renders the record as cells in CleanColumns order
func (r *CleanRecord) Values() []string {
	out := make([]string, 0, ColumnCount)
	out = append(out,
		r.Age.String(),
		r.AgeBand,
		r.GenderClean,
		r.GenderGrouped,
		r.RelationshipStatus,
		r.OccupationStatus,
		r.UsesSocialMedia.String(),
		r.DailyTimeBand,
		r.DailyHoursMidpoint.String(),
	)
	for _, p := range Platforms {
		out = append(out, FormatFlag(r.Platforms[p]))
	}
	out = append(out, strconv.Itoa(r.PlatformCount))
	for _, a := range Affiliations {
		out = append(out, FormatFlag(r.Affiliations[a]))
	}
	out = append(out, FormatFlag(r.AffilNA))
	for _, c := range LikertColumns() {
		out = append(out, r.Likert[c].String())
	}
	return append(out, r.PlatformsRaw, r.OrgAffiliationsRaw, FormatBool(r.IncludeInAnalysis))
}

// Dataset is an ordered collection of cleaned records
type Dataset struct {
	Records []CleanRecord
}

// Len returns the row count
func (d *Dataset) Len() int { return len(d.Records) }

// Table renders the dataset to its persisted string form
func (d *Dataset) Table() Table {
	rows := make([][]string, len(d.Records))
	for i := range d.Records {
		rows[i] = d.Records[i].Values()
	}
	return Table{Header: CleanColumns(), Rows: rows}
}

// Included returns the rows that pass the analysis gate
func (d *Dataset) Included() []CleanRecord {
	out := make([]CleanRecord, 0, len(d.Records))
	for _, r := range d.Records {
		if r.IncludeInAnalysis {
			out = append(out, r)
		}
	}
	return out
}

// Issues collects every field issue across records
func (d *Dataset) Issues() []FieldIssue {
	var out []FieldIssue
	for _, r := range d.Records {
		out = append(out, r.Issues...)
	}
	return out
}
