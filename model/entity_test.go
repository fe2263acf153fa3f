package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeLabel(t *testing.T) {
	tests := []struct {
		label     string
		category  Category
		certainty Certainty
	}{
		{"Observation::definitely present", CategoryObservation, CertaintyPresent},
		{"Observation::definitely absent", CategoryObservation, CertaintyAbsent},
		{"Observation::uncertain", CategoryObservation, CertaintyUncertain},
		{"Anatomy::definitely present", CategoryAnatomy, CertaintyPresent},
		{"Anatomy", CategoryAnatomy, CertaintyPresent},
		{"OBS-DP", CategoryObservation, CertaintyPresent},
		{"OBS-DA", CategoryObservation, CertaintyAbsent},
		{"OBS-U", CategoryObservation, CertaintyUncertain},
		{"ANAT-DP", CategoryAnatomy, CertaintyPresent},
	}

	for _, test := range tests {
		category, certainty, err := ParseTypeLabel(test.label)
		assert.NoError(t, err, "Expected label %q to parse", test.label)
		assert.Equal(t, test.category, category, "Wrong category for %q", test.label)
		assert.Equal(t, test.certainty, certainty, "Wrong certainty for %q", test.label)
	}
}

func TestParseTypeLabelErrors(t *testing.T) {
	invalid := []string{
		"",
		"Observation",
		"Finding::definitely present",
		"Observation::maybe",
		"Observation::definitely present::extra",
		"OBS-XX",
	}

	for _, label := range invalid {
		_, _, err := ParseTypeLabel(label)
		assert.ErrorIs(t, err, ErrUnknownTypeLabel, "Expected label %q to be rejected", label)
	}
}

func TestParseRelationKind(t *testing.T) {
	t.Run("Accept the fixed enumeration", func(t *testing.T) {
		for _, kind := range []string{"suggestive_of", "located_at", "modify"} {
			parsed, err := ParseRelationKind(kind)
			assert.NoError(t, err)
			assert.Equal(t, RelationKind(kind), parsed)
		}
	})

	t.Run("Reject anything else", func(t *testing.T) {
		for _, kind := range []string{"", "associated_with", "LOCATED_AT"} {
			_, err := ParseRelationKind(kind)
			assert.ErrorIs(t, err, ErrUnknownRelationKind, "Expected kind %q to be rejected", kind)
		}
	})
}

func TestEntityIsObservation(t *testing.T) {
	observation := Entity{Category: CategoryObservation}
	anatomy := Entity{Category: CategoryAnatomy}

	assert.True(t, observation.IsObservation())
	assert.False(t, anatomy.IsObservation())
}
