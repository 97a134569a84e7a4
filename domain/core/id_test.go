package core

import (
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 5000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestParseHypothesisID(t *testing.T) {
	tests := []struct {
		input    string
		expected HypothesisID
		hasError bool
	}{
		{"H1", HypothesisID("H1"), false},
		{" h3 ", HypothesisID("H3"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseHypothesisID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestSettingsHashOrderIndependent(t *testing.T) {
	a := ComputeSettingsHash(map[string]interface{}{"min_cell": 10, "alpha": 0.05})
	b := ComputeSettingsHash(map[string]interface{}{"alpha": 0.05, "min_cell": 10})
	c := ComputeSettingsHash(map[string]interface{}{"alpha": 0.05, "min_cell": 5})

	if a != b {
		t.Errorf("Expected equal hashes, got %s and %s", a, b)
	}
	if a == c {
		t.Error("Expected different settings to hash differently")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected 12 char short hash, got %q", a.Short())
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := FixedClock(at)
	if !clock().Equal(at) {
		t.Errorf("Expected %v, got %v", at, clock())
	}
	if NewTimestamp(at).String() != "2024-05-01T12:00:00Z" {
		t.Errorf("Unexpected timestamp format %s", NewTimestamp(at).String())
	}
}
