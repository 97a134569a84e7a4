package survey

// Canonical column names
const (
	ColTimestamp          = "timestamp"
	ColAge                = "age"
	ColAgeBand            = "age_band"
	ColGenderRaw          = "gender_raw"
	ColGenderClean        = "gender_clean"
	ColGenderGrouped      = "gender_grouped"
	ColRelationshipStatus = "relationship_status"
	ColOccupationStatus   = "occupation_status"
	ColOrgAffiliationsRaw = "org_affiliations_raw"
	ColUsesSocialMedia    = "uses_social_media"
	ColPlatformsRaw       = "platforms_raw"
	ColDailyTimeBand      = "daily_time_band"
	ColDailyHoursMidpoint = "daily_hours_midpoint"
	ColPlatformCount      = "platform_count"
	ColIncludeInAnalysis  = "include_in_analysis"

	ColPurposelessUse          = "purposeless_use"
	ColDistractedWhenBusy      = "distracted_when_busy"
	ColRestlessWithoutSM       = "restless_without_sm"
	ColEasilyDistracted        = "easily_distracted"
	ColWorriesBother           = "worries_bother"
	ColDifficultyConcentrating = "difficulty_concentrating"
	ColCompareToSuccessful     = "compare_to_successful"
	ColComparisonFeelings      = "comparison_feelings"
	ColSeekValidation          = "seek_validation"
	ColLowMoodFreq             = "low_mood_freq"
	ColInterestFluctuation     = "interest_fluctuation"
	ColSleepIssues             = "sleep_issues"
)

// Likert scale bounds
const (
	LikertMin = 1
	LikertMax = 5
)

// Platforms are the fixed multi-select options, in column order
var Platforms = []string{
	"facebook", "twitter", "instagram", "youtube", "snapchat",
	"discord", "reddit", "pinterest", "tiktok",
}

// Affiliations are the fixed organisation categories, in column order
var Affiliations = []string{"university", "school", "company", "private", "government"}

// BehaviourColumns are the usage-behaviour Likert items
var BehaviourColumns = []string{
	ColPurposelessUse,
	ColDistractedWhenBusy,
	ColRestlessWithoutSM,
	ColEasilyDistracted,
	ColWorriesBother,
	ColDifficultyConcentrating,
}

// WellbeingColumns are the comparison/mood/sleep Likert items
var WellbeingColumns = []string{
	ColCompareToSuccessful,
	ColComparisonFeelings,
	ColSeekValidation,
	ColLowMoodFreq,
	ColInterestFluctuation,
	ColSleepIssues,
}

// LikertColumns lists all twelve ordinal items, behaviour first
func LikertColumns() []string {
	cols := make([]string, 0, len(BehaviourColumns)+len(WellbeingColumns))
	cols = append(cols, BehaviourColumns...)
	return append(cols, WellbeingColumns...)
}

// PlatformColumn returns the flag column for a platform key
func PlatformColumn(key string) string { return "platform_" + key }

// AffiliationColumn returns the flag column for an affiliation key
func AffiliationColumn(key string) string { return "affil_" + key }

// ColAffilNA flags rows with no usable affiliation answer
var ColAffilNA = AffiliationColumn("na")

// Kind is the declared type of a cleaned column
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
	KindFlag        Kind = "flag"
	KindOrdinal     Kind = "ordinal"
	KindText        Kind = "text"
)

// Column describes one column of the cleaned schema
type Column struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	Allowed     string `json:"allowed"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"` // canonical raw column it derives from
}

var platformLabels = map[string]string{
	"facebook": "Facebook", "twitter": "Twitter", "instagram": "Instagram",
	"youtube": "YouTube", "snapchat": "Snapchat", "discord": "Discord",
	"reddit": "Reddit", "pinterest": "Pinterest", "tiktok": "TikTok",
}

// PlatformLabel returns the display name of a platform key
func PlatformLabel(key string) string {
	if l, ok := platformLabels[key]; ok {
		return l
	}
	return key
}

var affiliationLabels = map[string]string{
	"university": "University",
	"school":     "School",
	"company":    "Company",
	"private":    "Private organisation",
	"government": "Government",
	"na":         "No affiliation / N/A",
}

var likertDescriptions = map[string]string{
	ColPurposelessUse:          "Frequency of using SM without specific purpose",
	ColDistractedWhenBusy:      "Frequency of SM distraction when busy",
	ColRestlessWithoutSM:       "Restlessness when not using SM",
	ColEasilyDistracted:        "General distractibility (1=low, 5=high)",
	ColWorriesBother:           "How much worries bother respondent",
	ColDifficultyConcentrating: "Difficulty concentrating on things",
	ColCompareToSuccessful:     "Frequency of comparing to successful people via SM",
	ColComparisonFeelings:      "How comparisons make respondent feel",
	ColSeekValidation:          "Frequency of seeking validation from SM",
	ColLowMoodFreq:             "Frequency of feeling depressed or down",
	ColInterestFluctuation:     "How often interest in activities fluctuates",
	ColSleepIssues:             "Frequency of sleep issues",
}

// Catalogue returns the 40-column cleaned schema in output order
func Catalogue() []Column {
	cols := []Column{
		{ColAge, KindNumeric, "1-100+", "Respondent age in years (rounded)", ColAge},
		{ColAgeBand, KindCategorical, "<18, 18-24, 25-34, 35-44, 45+, Unknown", "Age grouped into bands for privacy", ColAge},
		{ColGenderClean, KindCategorical, "Male, Female, Non-binary, Trans, Unsure, Other, Prefer not to say", "Standardised gender response", ColGenderRaw},
		{ColGenderGrouped, KindCategorical, "Male, Female, Non-binary & Other, Prefer not to say", "Aggregated gender for small-group privacy", ColGenderRaw},
		{ColRelationshipStatus, KindCategorical, "Single, In a relationship, Married, Divorced", "Relationship status", ColRelationshipStatus},
		{ColOccupationStatus, KindCategorical, "University Student, School Student, Salaried Worker, Retired", "Current occupation", ColOccupationStatus},
		{ColUsesSocialMedia, KindBoolean, "True, False", "Whether respondent uses social media", ColUsesSocialMedia},
		{ColDailyTimeBand, KindOrdinal, "Less than an Hour to More than 5 hours", "Original time band response", ColDailyTimeBand},
		{ColDailyHoursMidpoint, KindNumeric, "0.5-5.5", "Numeric midpoint of time band for analysis", ColDailyTimeBand},
	}
	for _, p := range Platforms {
		cols = append(cols, Column{PlatformColumn(p), KindFlag, "0, 1", "Uses " + PlatformLabel(p) + " (derived from platforms_raw)", ColPlatformsRaw})
	}
	cols = append(cols, Column{ColPlatformCount, KindNumeric, "0-9", "Count of platforms used", ColPlatformsRaw})
	for _, a := range append(append([]string{}, Affiliations...), "na") {
		cols = append(cols, Column{AffiliationColumn(a), KindFlag, "0, 1", "Affiliated with " + affiliationLabels[a], ColOrgAffiliationsRaw})
	}
	for _, c := range LikertColumns() {
		cols = append(cols, Column{c, KindOrdinal, "1-5", likertDescriptions[c], c})
	}
	return append(cols,
		Column{ColPlatformsRaw, KindText, "Multi-select list", "Original platforms response (retained for reference)", ColPlatformsRaw},
		Column{ColOrgAffiliationsRaw, KindText, "Free text", "Original affiliation response (retained for reference)", ColOrgAffiliationsRaw},
		Column{ColIncludeInAnalysis, KindBoolean, "True, False", "True if uses_social_media=True; default analysis filter", ColUsesSocialMedia},
	)
}

// CleanColumns returns the cleaned header in output order
func CleanColumns() []string {
	cat := Catalogue()
	names := make([]string, len(cat))
	for i, c := range cat {
		names[i] = c.Name
	}
	return names
}

// ColumnCount is the size of the cleaned schema
var ColumnCount = len(CleanColumns())

// FlagColumns lists every 0/1 column
func FlagColumns() []string {
	var out []string
	for _, c := range Catalogue() {
		if c.Kind == KindFlag {
			out = append(out, c.Name)
		}
	}
	return out
}
