package model

import (
	"time"

	"github.com/google/uuid"
)

// EvalResult holds the held-out performance of one trained classifier.
// All scores are in [0,1].
type EvalResult struct {
	Accuracy float64 `json:"accuracy"`
	AUC      float64 `json:"auc_roc"`
	F1       float64 `json:"f1"`
	NumTrain int     `json:"num_train"`
	NumTest  int     `json:"num_test"`
}

// RunReport is the audit record of one pipeline run, written alongside the
// feature file.
type RunReport struct {
	RunID            uuid.UUID   `json:"run_id"`
	StartedAt        time.Time   `json:"started_at"`
	FinishedAt       time.Time   `json:"finished_at"`
	NumDocuments     int         `json:"num_documents"`
	NumCohortRows    int         `json:"num_cohort_rows"`
	NumMerged        int         `json:"num_merged"`
	DroppedFeatures  int         `json:"dropped_features"`
	DroppedCohort    int         `json:"dropped_cohort_rows"`
	Classifier       string      `json:"classifier"`
	Result           *EvalResult `json:"result,omitempty"`
	Metadata         Metadata    `json:"metadata,omitempty"`
}
