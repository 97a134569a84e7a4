// Package cleaning standardizes raw answers into typed values.
package cleaning

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"smmh/domain/survey"
	"smmh/internal/vocab"
)

// Likert parse failures
var (
	ErrNotNumeric = errors.New("not numeric")
	ErrOutOfRange = errors.New("outside 1-5")
)

const (
	multiSelectDelimiter = ","
	minAge               = 1
	maxAge               = 120
)

// Cleaner turns canonical rows into partially filled clean records.
// Derived columns are left for the feature builder.
type Cleaner struct {
	vocab *vocab.Vocabulary
}

// New creates a cleaner over an explicit vocabulary
func New(v *vocab.Vocabulary) *Cleaner {
	return &Cleaner{vocab: v}
}

// Clean standardizes one row. Problems are attached to the record as field
// issues and the affected value is left absent.
func (c *Cleaner) Clean(row survey.CanonicalRow) survey.CleanRecord {
	rec := survey.NewCleanRecord(row.Line)

	age, err := ParseAge(row.Get(survey.ColAge))
	if err != nil {
		rec.AddIssue(survey.ColAge, row.Get(survey.ColAge), err.Error())
	}
	rec.Age = age

	rec.GenderClean = c.Gender(row.Get(survey.ColGenderRaw))
	rec.RelationshipStatus = strings.TrimSpace(row.Get(survey.ColRelationshipStatus))
	rec.OccupationStatus = strings.TrimSpace(row.Get(survey.ColOccupationStatus))

	uses := row.Get(survey.ColUsesSocialMedia)
	if b, ok := c.vocab.YesNo(uses); ok {
		rec.UsesSocialMedia = survey.SomeBool(b)
	} else if strings.TrimSpace(uses) != "" {
		rec.AddIssue(survey.ColUsesSocialMedia, uses, "not a yes/no answer")
	}

	rec.DailyTimeBand = strings.TrimSpace(row.Get(survey.ColDailyTimeBand))

	rec.PlatformsRaw = strings.TrimSpace(row.Get(survey.ColPlatformsRaw))
	rec.Platforms = c.Platforms(rec.PlatformsRaw)

	rec.OrgAffiliationsRaw = strings.TrimSpace(row.Get(survey.ColOrgAffiliationsRaw))
	rec.Affiliations, rec.AffilNA = c.Affiliations(rec.OrgAffiliationsRaw)

	for _, col := range survey.LikertColumns() {
		raw := row.Get(col)
		v, err := ParseLikert(raw)
		if err != nil {
			rec.AddIssue(col, raw, err.Error())
		}
		rec.Likert[col] = v
	}
	return rec
}

// Gender maps a free-text gender answer to its standard category
func (c *Cleaner) Gender(raw string) string {
	key := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(raw)))
	if key == "" {
		return c.vocab.GenderMissing()
	}
	if g, ok := c.vocab.Gender(key); ok {
		return g
	}
	return c.vocab.GenderUnmatched()
}

// Platforms flags each known platform named in a multi-select answer.
// Unrecognized tokens are ignored.
func (c *Cleaner) Platforms(raw string) map[string]bool {
	flags := make(map[string]bool, len(survey.Platforms))
	for _, p := range survey.Platforms {
		flags[p] = false
	}
	for _, token := range splitTokens(raw) {
		if p, ok := c.vocab.Platform(token); ok {
			flags[p] = true
		}
	}
	return flags
}

// Affiliations flags each known organisation type. Explicit N/A tokens
// set no flag. When nothing is recognized, including empty input, na is
// set and all flags stay 0.
func (c *Cleaner) Affiliations(raw string) (flags map[string]bool, na bool) {
	flags = make(map[string]bool, len(survey.Affiliations))
	for _, a := range survey.Affiliations {
		flags[a] = false
	}
	matched := false
	for _, token := range splitTokens(raw) {
		if c.vocab.IsAffiliationNA(token) {
			continue
		}
		if a, ok := c.vocab.Affiliation(token); ok {
			flags[a] = true
			matched = true
		}
	}
	return flags, !matched
}

// ParseLikert validates a 1-5 answer. Empty input is absent, not an error.
func ParseLikert(raw string) (survey.OptInt, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return survey.OptInt{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return survey.OptInt{}, ErrNotNumeric
	}
	v := int(f)
	if v < survey.LikertMin || v > survey.LikertMax {
		return survey.OptInt{}, ErrOutOfRange
	}
	return survey.SomeInt(v), nil
}

// ParseAge reads a numeric age rounded to whole years
func ParseAge(raw string) (survey.OptInt, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return survey.OptInt{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return survey.OptInt{}, errors.New("age not numeric")
	}
	age := int(math.Round(f))
	if age < minAge || age > maxAge {
		return survey.OptInt{}, errors.New("age implausible")
	}
	return survey.SomeInt(age), nil
}

func splitTokens(raw string) []string {
	parts := strings.Split(raw, multiSelectDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
