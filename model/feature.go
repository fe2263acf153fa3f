package model

import (
	"fmt"
	"strconv"
)

// FeatureRecord is the flat numeric feature bundle of one report. It is the
// unit merged against topic probability vectors and cohort labels.
type FeatureRecord struct {
	DocID string `json:"doc_id"`

	// Graph counts
	NumEntities     int `json:"num_entities"`
	NumRelations    int `json:"num_relations"`
	NumAnatomy      int `json:"num_anatomical_sites"`
	NumObservations int `json:"num_observations"`
	NumLocatedAt    int `json:"num_located_at"`
	NumModify       int `json:"num_modify"`
	NumSuggestiveOf int `json:"num_suggestive_of"`

	// Certainty counts
	NumPresent   int `json:"num_definitely_present"`
	NumAbsent    int `json:"num_definitely_absent"`
	NumUncertain int `json:"num_uncertain"`

	// Pattern aggregates
	NumFindingSites int `json:"num_finding_sites"`
	NumModifiers    int `json:"num_modifiers"`
	NumSuggestive   int `json:"num_suggestive_patterns"`

	// Topic probability vector, appended at merge time. May be empty when
	// topic modeling is disabled.
	Topics []float64 `json:"topics,omitempty"`
}

// baseFeatureColumns is the fixed column order of the numeric counts.
var baseFeatureColumns = []string{
	"num_entities",
	"num_relations",
	"num_anatomical_sites",
	"num_observations",
	"num_located_at",
	"num_modify",
	"num_suggestive_of",
	"num_definitely_present",
	"num_definitely_absent",
	"num_uncertain",
	"num_finding_sites",
	"num_modifiers",
	"num_suggestive_patterns",
}

// FeatureColumns returns the CSV header for records carrying numTopics
// topic probabilities. The first column is always doc_id.
func FeatureColumns(numTopics int) []string {
	columns := append([]string{"doc_id"}, baseFeatureColumns...)
	for i := 0; i < numTopics; i++ {
		columns = append(columns, fmt.Sprintf("topic_%d", i))
	}
	return columns
}

// Vector returns the record as a fixed-width numeric vector in column order,
// excluding the doc_id.
func (f *FeatureRecord) Vector() []float64 {
	vector := []float64{
		float64(f.NumEntities),
		float64(f.NumRelations),
		float64(f.NumAnatomy),
		float64(f.NumObservations),
		float64(f.NumLocatedAt),
		float64(f.NumModify),
		float64(f.NumSuggestiveOf),
		float64(f.NumPresent),
		float64(f.NumAbsent),
		float64(f.NumUncertain),
		float64(f.NumFindingSites),
		float64(f.NumModifiers),
		float64(f.NumSuggestive),
	}
	return append(vector, f.Topics...)
}

// Row returns the record as a CSV row matching FeatureColumns.
func (f *FeatureRecord) Row() []string {
	row := []string{f.DocID}
	for _, v := range f.Vector() {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return row
}
