package testkit

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"smmh/domain/survey"
	"smmh/internal/vocab"
)

// SurveyGeneratorConfig configures the synthetic survey generator
type SurveyGeneratorConfig struct {
	Respondents int     `json:"respondents"`
	NonUserRate float64 `json:"non_user_rate"` // share answering "No" to social media use
	Noise       int     `json:"noise"`         // max absolute jitter on the planted low-mood relation
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig mirrors the size of the real survey
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 481,
		NonUserRate: 0.02,
		Noise:       1,
		Seed:        42,
	}
}

// SurveyGenerator produces raw survey tables with the original headers.
// compare_to_successful and low_mood_freq share a latent score, so
// the pair carries a planted positive monotonic relation.
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	vocab  *vocab.Vocabulary
	rng    *rand.Rand
}

// NewSurveyGenerator creates a generator over the default vocabulary
func NewSurveyGenerator(config SurveyGeneratorConfig) *SurveyGenerator {
	return &SurveyGenerator{
		config: config,
		vocab:  vocab.MustDefault(),
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var (
	genders       = []string{"Male", "Female", "female", "M", "Woman", "Nonbinary ", "NB", "Trans", "There are others???", "unsure ", ""}
	relationships = []string{"Single", "In a relationship", "Married", "Divorced"}
	occupations   = []string{"University Student", "School Student", "Salaried Worker", "Retired"}
	affiliations  = []string{"University", "University, Private", "School", "Company", "Private", "Goverment", "N/A", ""}
	platformNames = []string{"Facebook", "Twitter", "Instagram", "YouTube", "Snapchat", "Discord", "Reddit", "Pinterest", "TikTok"}
)

// GenerateCanonical returns respondents keyed by canonical column name
func (g *SurveyGenerator) GenerateCanonical() []map[string]string {
	bands := g.vocab.TimeBands()
	start := time.Date(2022, 4, 25, 9, 0, 0, 0, time.UTC)
	rows := make([]map[string]string, 0, g.config.Respondents)

	for i := 0; i < g.config.Respondents; i++ {
		row := Respondent()
		at := start.Add(time.Duration(i*7) * time.Minute)
		row[survey.ColTimestamp] = at.Format("2006/01/02 3:04:05 PM") + " GMT+4"
		row[survey.ColAge] = strconv.Itoa(14 + g.rng.Intn(50))
		row[survey.ColGenderRaw] = genders[g.rng.Intn(len(genders))]
		row[survey.ColRelationshipStatus] = relationships[g.rng.Intn(len(relationships))]
		row[survey.ColOccupationStatus] = occupations[g.rng.Intn(len(occupations))]
		row[survey.ColOrgAffiliationsRaw] = affiliations[g.rng.Intn(len(affiliations))]
		row[survey.ColPlatformsRaw] = g.platforms()

		band := g.rng.Intn(len(bands))
		row[survey.ColDailyTimeBand] = bands[band].Label

		if g.rng.Float64() < g.config.NonUserRate {
			row[survey.ColUsesSocialMedia] = "No"
		} else {
			row[survey.ColUsesSocialMedia] = "Yes"
		}

		latent := 1 + g.rng.Intn(5)
		for _, c := range survey.LikertColumns() {
			row[c] = strconv.Itoa(1 + g.rng.Intn(5))
		}
		row[survey.ColCompareToSuccessful] = strconv.Itoa(latent)
		row[survey.ColLowMoodFreq] = strconv.Itoa(clampLikert(latent + g.jitter()))
		row[survey.ColRestlessWithoutSM] = strconv.Itoa(clampLikert(1 + band*4/(len(bands)-1) + g.jitter()))

		rows = append(rows, row)
	}
	return rows
}

// Generate returns a raw table keyed by original question text
func (g *SurveyGenerator) Generate() *survey.RawTable {
	return RawTable(g.GenerateCanonical())
}

func (g *SurveyGenerator) platforms() string {
	n := 1 + g.rng.Intn(4)
	perm := g.rng.Perm(len(platformNames))
	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, platformNames[idx])
	}
	return strings.Join(picked, ", ")
}

func (g *SurveyGenerator) jitter() int {
	if g.config.Noise <= 0 {
		return 0
	}
	return g.rng.Intn(2*g.config.Noise+1) - g.config.Noise
}

func clampLikert(v int) int {
	if v < survey.LikertMin {
		return survey.LikertMin
	}
	if v > survey.LikertMax {
		return survey.LikertMax
	}
	return v
}

// Respondent returns one fully valid answer set keyed by canonical column
func Respondent() map[string]string {
	row := map[string]string{
		survey.ColTimestamp:          "2022/04/25 12:00:00 PM GMT+4",
		survey.ColAge:                "21",
		survey.ColGenderRaw:          "Female",
		survey.ColRelationshipStatus: "Single",
		survey.ColOccupationStatus:   "University Student",
		survey.ColOrgAffiliationsRaw: "University",
		survey.ColUsesSocialMedia:    "Yes",
		survey.ColPlatformsRaw:       "Facebook, Instagram, YouTube",
		survey.ColDailyTimeBand:      "Between 2 and 3 hours",
	}
	for _, c := range survey.LikertColumns() {
		row[c] = "3"
	}
	return row
}

// RawTable turns canonical-keyed rows into a raw table with the original headers
func RawTable(rows []map[string]string) *survey.RawTable {
	v := vocab.MustDefault()
	headers := v.Headers()
	byName := make(map[string]string, len(headers))
	for _, h := range headers {
		name, _ := v.Canonical(h)
		byName[name] = h
	}

	tbl := &survey.RawTable{Source: "synthetic", Headers: headers}
	for i, row := range rows {
		fields := make(map[string]string, len(headers))
		for name, value := range row {
			h, ok := byName[name]
			if !ok {
				h = name
			}
			fields[h] = value
		}
		tbl.Records = append(tbl.Records, survey.RawRecord{Line: i + 2, Fields: fields})
	}
	return tbl
}

// CSV renders a raw table as CSV text
func CSV(tbl *survey.RawTable) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(tbl.Headers)
	for _, rec := range tbl.Records {
		cells := make([]string, len(tbl.Headers))
		for i, h := range tbl.Headers {
			cells[i] = rec.Fields[h]
		}
		_ = w.Write(cells)
	}
	w.Flush()
	return b.String()
}

// Describe is a short label for test failure messages
func (c SurveyGeneratorConfig) Describe() string {
	return fmt.Sprintf("respondents=%d seed=%d noise=%d", c.Respondents, c.Seed, c.Noise)
}
