// Package vocab holds the immutable lookup tables the cleaning stages consume:
// the question-to-column header map, gender synonyms, platform and affiliation
// tokens, time-band midpoints and yes/no tokens.
package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"smmh/domain/core"
	"smmh/domain/survey"
)

//go:embed vocabulary.yaml
var defaultDocument []byte

type columnEntry struct {
	Question string `yaml:"question"`
	Name     string `yaml:"name"`
}

// TimeBand is a daily-usage label with its numeric midpoint in hours
type TimeBand struct {
	Label    string  `yaml:"label" json:"label"`
	Midpoint float64 `yaml:"midpoint" json:"midpoint"`
}

type document struct {
	Columns         []columnEntry       `yaml:"columns"`
	Gender          map[string][]string `yaml:"gender"`
	GenderMissing   string              `yaml:"gender_missing"`
	GenderUnmatched string              `yaml:"gender_unmatched"`
	Platforms       map[string][]string `yaml:"platforms"`
	Affiliations    map[string][]string `yaml:"affiliations"`
	AffiliationNA   []string            `yaml:"affiliation_na"`
	TimeBands       []TimeBand          `yaml:"time_bands"`
	Yes             []string            `yaml:"yes"`
	No              []string            `yaml:"no"`
}

// Vocabulary is read-only after construction; every lookup key is lower-cased
type Vocabulary struct {
	headers         []string
	columns         map[string]string
	gender          map[string]string
	genderMissing   string
	genderUnmatched string
	platforms       map[string]string
	affiliations    map[string]string
	affiliationNA   map[string]bool
	timeBands       []TimeBand
	midpoints       map[string]float64
	yes             map[string]bool
	no              map[string]bool
	hash            core.Hash
}

// Default parses the embedded vocabulary
func Default() (*Vocabulary, error) {
	return Parse(defaultDocument)
}

// MustDefault is Default for tests and static wiring
func MustDefault() *Vocabulary {
	v, err := Default()
	if err != nil {
		panic(err)
	}
	return v
}

// Load reads a vocabulary file, or the embedded one when path is empty
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a vocabulary from a YAML document
func Parse(data []byte) (*Vocabulary, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	v := &Vocabulary{
		columns:         make(map[string]string, len(doc.Columns)),
		gender:          make(map[string]string),
		genderMissing:   doc.GenderMissing,
		genderUnmatched: doc.GenderUnmatched,
		platforms:       make(map[string]string),
		affiliations:    make(map[string]string),
		affiliationNA:   lowerSet(doc.AffiliationNA),
		timeBands:       append([]TimeBand(nil), doc.TimeBands...),
		midpoints:       make(map[string]float64, len(doc.TimeBands)),
		yes:             lowerSet(doc.Yes),
		no:              lowerSet(doc.No),
		hash:            core.NewHash(data),
	}

	for _, c := range doc.Columns {
		q := strings.TrimSpace(c.Question)
		if q == "" || c.Name == "" {
			return nil, fmt.Errorf("vocabulary column entry needs question and name")
		}
		if _, dup := v.columns[q]; dup {
			return nil, fmt.Errorf("vocabulary repeats question %q", q)
		}
		v.columns[q] = c.Name
		v.headers = append(v.headers, q)
	}
	for canonical, variants := range doc.Gender {
		for _, s := range variants {
			v.gender[normalizeKey(s)] = canonical
		}
	}
	for key, names := range doc.Platforms {
		for _, s := range names {
			v.platforms[normalizeKey(s)] = key
		}
	}
	for key, names := range doc.Affiliations {
		for _, s := range names {
			v.affiliations[normalizeKey(s)] = key
		}
	}
	for _, tb := range doc.TimeBands {
		v.midpoints[normalizeKey(tb.Label)] = tb.Midpoint
	}

	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocabulary) validate() error {
	known := map[string]bool{}
	for _, p := range survey.Platforms {
		known[p] = true
	}
	for _, key := range v.platforms {
		if !known[key] {
			return fmt.Errorf("vocabulary names unknown platform %q", key)
		}
	}
	known = map[string]bool{}
	for _, a := range survey.Affiliations {
		known[a] = true
	}
	for _, key := range v.affiliations {
		if !known[key] {
			return fmt.Errorf("vocabulary names unknown affiliation %q", key)
		}
	}
	if v.genderMissing == "" || v.genderUnmatched == "" {
		return fmt.Errorf("vocabulary must set gender_missing and gender_unmatched")
	}
	if len(v.timeBands) == 0 {
		return fmt.Errorf("vocabulary has no time bands")
	}
	return nil
}

// Headers returns the known question headers in declaration order; all are required
func (v *Vocabulary) Headers() []string {
	return append([]string(nil), v.headers...)
}

// Canonical maps an original question header to its column name
func (v *Vocabulary) Canonical(header string) (string, bool) {
	name, ok := v.columns[strings.TrimSpace(header)]
	return name, ok
}

// Question returns the original header for a canonical column
func (v *Vocabulary) Question(canonical string) (string, bool) {
	for _, q := range v.headers {
		if v.columns[q] == canonical {
			return q, true
		}
	}
	return "", false
}

// Gender maps a normalized gender token to its category
func (v *Vocabulary) Gender(token string) (string, bool) {
	g, ok := v.gender[normalizeKey(token)]
	return g, ok
}

// GenderMissing is the category for empty gender answers
func (v *Vocabulary) GenderMissing() string { return v.genderMissing }

// GenderUnmatched is the category for unrecognized gender answers
func (v *Vocabulary) GenderUnmatched() string { return v.genderUnmatched }

// Platform maps a multi-select token to a platform key
func (v *Vocabulary) Platform(token string) (string, bool) {
	p, ok := v.platforms[normalizeKey(token)]
	return p, ok
}

// Affiliation maps a free-text token to an affiliation key
func (v *Vocabulary) Affiliation(token string) (string, bool) {
	a, ok := v.affiliations[normalizeKey(token)]
	return a, ok
}

// IsAffiliationNA reports explicit "no affiliation" tokens
func (v *Vocabulary) IsAffiliationNA(token string) bool {
	return v.affiliationNA[normalizeKey(token)]
}

// Midpoint returns the hours midpoint for a time-band label
func (v *Vocabulary) Midpoint(label string) (float64, bool) {
	m, ok := v.midpoints[normalizeKey(label)]
	return m, ok
}

// TimeBands returns the known bands in ascending order of usage
func (v *Vocabulary) TimeBands() []TimeBand {
	out := append([]TimeBand(nil), v.timeBands...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Midpoint < out[j].Midpoint })
	return out
}

// YesNo parses a yes/no token; ok is false for anything unrecognized
func (v *Vocabulary) YesNo(token string) (value bool, ok bool) {
	k := normalizeKey(token)
	switch {
	case v.yes[k]:
		return true, true
	case v.no[k]:
		return false, true
	}
	return false, false
}

// Hash fingerprints the source document
func (v *Vocabulary) Hash() core.Hash { return v.hash }

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func lowerSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, s := range values {
		out[normalizeKey(s)] = true
	}
	return out
}
