// Package features derives analysis columns from cleaned values.
package features

import (
	"smmh/domain/survey"
	"smmh/internal/vocab"
)

// Age bands
const (
	AgeUnder18 = "<18"
	Age18to24  = "18-24"
	Age25to34  = "25-34"
	Age35to44  = "35-44"
	Age45Plus  = "45+"
	AgeUnknown = "Unknown"
)

// Gender groups
const (
	GenderMale           = "Male"
	GenderFemale         = "Female"
	GenderNonBinaryOther = "Non-binary & Other"
	GenderPreferNotToSay = "Prefer not to say"
)

// AgeBands lists the bands in display order
var AgeBands = []string{AgeUnder18, Age18to24, Age25to34, Age35to44, Age45Plus, AgeUnknown}

// Builder fills the derived columns of a cleaned record
type Builder struct {
	vocab *vocab.Vocabulary
}

// NewBuilder creates a feature builder
func NewBuilder(v *vocab.Vocabulary) *Builder {
	return &Builder{vocab: v}
}

// Derive returns a copy of rec with every derived column set
func (b *Builder) Derive(rec survey.CleanRecord) survey.CleanRecord {
	out := rec.Clone()

	out.AgeBand = AgeBand(rec.Age)
	out.GenderGrouped = GroupGender(rec.GenderClean)

	if rec.DailyTimeBand != "" {
		if m, ok := b.vocab.Midpoint(rec.DailyTimeBand); ok {
			out.DailyHoursMidpoint = survey.SomeFloat(m)
		} else {
			out.DailyHoursMidpoint = survey.OptFloat{}
			out.AddIssue(survey.ColDailyTimeBand, rec.DailyTimeBand, "unknown time band")
		}
	}

	out.PlatformCount = CountFlags(rec.Platforms)
	out.IncludeInAnalysis = Include(rec.UsesSocialMedia)
	return out
}

// AgeBand partitions an age into the fixed bands
func AgeBand(age survey.OptInt) string {
	if !age.Valid {
		return AgeUnknown
	}
	switch a := age.Value; {
	case a < 18:
		return AgeUnder18
	case a <= 24:
		return Age18to24
	case a <= 34:
		return Age25to34
	case a <= 44:
		return Age35to44
	default:
		return Age45Plus
	}
}

// GroupGender collapses small gender categories. Applying it to its own
// output returns the same value.
func GroupGender(clean string) string {
	switch clean {
	case GenderMale, GenderFemale, GenderPreferNotToSay:
		return clean
	case "":
		return GenderPreferNotToSay
	default:
		return GenderNonBinaryOther
	}
}

// CountFlags counts set flags
func CountFlags(flags map[string]bool) int {
	n := 0
	for _, set := range flags {
		if set {
			n++
		}
	}
	return n
}

// Include is the analysis gate: only confirmed social media users
func Include(uses survey.OptBool) bool {
	return uses.Valid && uses.Value
}
