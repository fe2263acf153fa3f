package model

// SuggestivePair is a (finding text, suggested diagnosis text) pair taken
// from a suggestive_of relation whose source matched the pneumonia vocabulary.
type SuggestivePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// PatternBundle aggregates the clinically meaningful patterns of one report,
// keyed by entity text. All slices preserve document order.
type PatternBundle struct {
	// Findings maps a finding's text to the texts it is located at.
	Findings map[string][]string `json:"findings"`
	// Modifiers maps an observation's text to the modifier texts attached
	// to it. The modifier is recorded under the entity it modifies, not
	// under itself.
	Modifiers map[string][]string `json:"modifiers"`
	// Suggestive lists pneumonia-indicative suggestion pairs.
	Suggestive []SuggestivePair `json:"suggestive_patterns"`
}

// NewPatternBundle creates an empty bundle.
func NewPatternBundle() *PatternBundle {
	return &PatternBundle{
		Findings:  make(map[string][]string),
		Modifiers: make(map[string][]string),
	}
}

// CertaintyHistogram counts certainty qualifiers across the entities of one
// report.
type CertaintyHistogram map[Certainty]int

// Total returns the sum of all histogram counts.
func (h CertaintyHistogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// GraphMetrics are the per-report counts over the entity/relation graph.
type GraphMetrics struct {
	NumEntities     int `json:"num_entities"`
	NumRelations    int `json:"num_relations"`
	NumAnatomy      int `json:"num_anatomical_sites"`
	NumObservations int `json:"num_observations"`
	NumLocatedAt    int `json:"num_located_at"`
	NumModify       int `json:"num_modify"`
	NumSuggestiveOf int `json:"num_suggestive_of"`
}
