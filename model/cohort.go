package model

// CohortRow is one patient visit of the study cohort: the document/study
// identifier, the outcome label and optional numeric covariates.
type CohortRow struct {
	DocID      string             `json:"doc_id"`
	Label      int                `json:"label"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// Sample is one merged training example: feature vector plus label.
type Sample struct {
	DocID    string    `json:"doc_id"`
	Features []float64 `json:"features"`
	Label    int       `json:"label"`
}
