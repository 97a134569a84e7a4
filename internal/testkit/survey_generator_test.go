package testkit

import (
	"testing"

	"smmh/domain/survey"
)

func TestSurveyGenerator_Basic(t *testing.T) {
	config := DefaultSurveyConfig()
	config.Respondents = 50

	tbl := NewSurveyGenerator(config).Generate()
	if len(tbl.Records) != 50 {
		t.Fatalf("Expected 50 records, got %d (%s)", len(tbl.Records), config.Describe())
	}
	if len(tbl.Headers) != 21 {
		t.Fatalf("Expected 21 headers, got %d", len(tbl.Headers))
	}
	for i, rec := range tbl.Records {
		if len(rec.Fields) != 21 {
			t.Errorf("Record %d has %d fields", i, len(rec.Fields))
		}
		if rec.Line != i+2 {
			t.Errorf("Record %d has line %d", i, rec.Line)
		}
	}
}

func TestSurveyGenerator_Deterministic(t *testing.T) {
	config := DefaultSurveyConfig()
	config.Respondents = 20

	a := CSV(NewSurveyGenerator(config).Generate())
	b := CSV(NewSurveyGenerator(config).Generate())
	if a != b {
		t.Error("Expected identical output for the same seed")
	}
}

func TestSurveyGenerator_PlantedRelation(t *testing.T) {
	config := DefaultSurveyConfig()
	config.Noise = 0
	config.Respondents = 30

	for i, row := range NewSurveyGenerator(config).GenerateCanonical() {
		if row[survey.ColCompareToSuccessful] != row[survey.ColLowMoodFreq] {
			t.Errorf("Row %d: expected identical planted scores without noise", i)
		}
	}
}
