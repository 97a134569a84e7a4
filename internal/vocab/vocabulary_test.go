package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)

	assert.Len(t, v.Headers(), 21)

	name, ok := v.Canonical("  2. Gender ")
	assert.True(t, ok)
	assert.Equal(t, "gender_raw", name)

	_, ok = v.Canonical("21. Favourite colour?")
	assert.False(t, ok)

	g, ok := v.Gender("Woman")
	assert.True(t, ok)
	assert.Equal(t, "Female", g)

	g, ok = v.Gender("non  binary")
	assert.True(t, ok)
	assert.Equal(t, "Non-binary", g)

	p, ok := v.Platform("youtube")
	assert.True(t, ok)
	assert.Equal(t, "youtube", p)

	a, ok := v.Affiliation("Goverment")
	assert.True(t, ok)
	assert.Equal(t, "government", a)
	assert.True(t, v.IsAffiliationNA("n/a"))

	m, ok := v.Midpoint("More than 5 hours")
	assert.True(t, ok)
	assert.Equal(t, 5.5, m)

	bands := v.TimeBands()
	require.Len(t, bands, 6)
	assert.Equal(t, "Less than an Hour", bands[0].Label)
	assert.Equal(t, "More than 5 hours", bands[5].Label)
}

func TestYesNo(t *testing.T) {
	v := MustDefault()

	for _, s := range []string{"Yes", "y", "TRUE", "1"} {
		b, ok := v.YesNo(s)
		assert.True(t, ok, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"No", "n", "false", "0"} {
		b, ok := v.YesNo(s)
		assert.True(t, ok, s)
		assert.False(t, b, s)
	}
	_, ok := v.YesNo("sometimes")
	assert.False(t, ok)
}

func TestParseRejectsUnknownPlatform(t *testing.T) {
	doc := []byte(`
gender_missing: "Prefer not to say"
gender_unmatched: "Other"
platforms:
  myspace: ["MySpace"]
time_bands:
  - { label: "Less than an Hour", midpoint: 0.5 }
`)
	_, err := Parse(doc)
	assert.ErrorContains(t, err, "myspace")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, defaultDocument, 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MustDefault().Hash(), v.Hash())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
