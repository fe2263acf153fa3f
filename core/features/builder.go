// Package features assembles per-report numeric feature records and merges
// them against topic vectors and cohort labels.
package features

import (
	"log/slog"
	"sort"

	"github.com/lungmap/radpipe/core/pattern"
	"github.com/lungmap/radpipe/model"
)

// Builder turns one report's analysis into a flat feature record.
type Builder struct {
	log *slog.Logger
}

// NewBuilder creates a feature builder.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{log: logger}
}

// Build combines graph counts, pattern aggregates and the certainty
// histogram into one flat record keyed by the report's document id.
func (b *Builder) Build(report *model.Report, analysis *pattern.Analysis) *model.FeatureRecord {
	record := &model.FeatureRecord{
		DocID:           report.ID,
		NumEntities:     analysis.Metrics.NumEntities,
		NumRelations:    analysis.Metrics.NumRelations,
		NumAnatomy:      analysis.Metrics.NumAnatomy,
		NumObservations: analysis.Metrics.NumObservations,
		NumLocatedAt:    analysis.Metrics.NumLocatedAt,
		NumModify:       analysis.Metrics.NumModify,
		NumSuggestiveOf: analysis.Metrics.NumSuggestiveOf,
		NumPresent:      analysis.Histogram[model.CertaintyPresent],
		NumAbsent:       analysis.Histogram[model.CertaintyAbsent],
		NumUncertain:    analysis.Histogram[model.CertaintyUncertain],
		NumSuggestive:   len(analysis.Bundle.Suggestive),
	}

	for _, sites := range analysis.Bundle.Findings {
		record.NumFindingSites += len(sites)
	}
	for _, modifiers := range analysis.Bundle.Modifiers {
		record.NumModifiers += len(modifiers)
	}

	return record
}

// MergeResult is the outcome of joining feature records against cohort
// labels.
type MergeResult struct {
	Samples         []model.Sample
	DroppedFeatures int // records with no matching cohort row
	DroppedCohort   int // cohort rows with no matching record
}

// Merge inner-joins feature records with cohort rows on document id,
// appends topic probability vectors where present, and appends the cohort
// covariates in sorted name order (a row missing a covariate contributes 0,
// so every sample has the same width). Identifier mismatches are a
// filtering step, not an error; drop counts are logged and returned for
// auditability. Sample order follows the record order.
func (b *Builder) Merge(records []*model.FeatureRecord, topics map[string][]float64, cohort []model.CohortRow) *MergeResult {
	rows := make(map[string]model.CohortRow, len(cohort))
	covariateSet := map[string]bool{}
	for _, row := range cohort {
		rows[row.DocID] = row
		for name := range row.Covariates {
			covariateSet[name] = true
		}
	}
	covariates := make([]string, 0, len(covariateSet))
	for name := range covariateSet {
		covariates = append(covariates, name)
	}
	sort.Strings(covariates)

	result := &MergeResult{}
	matched := make(map[string]bool, len(records))

	for _, record := range records {
		row, ok := rows[record.DocID]
		if !ok {
			result.DroppedFeatures++
			continue
		}
		if vector, ok := topics[record.DocID]; ok {
			record.Topics = vector
		}
		features := record.Vector()
		for _, name := range covariates {
			features = append(features, row.Covariates[name])
		}
		matched[record.DocID] = true
		result.Samples = append(result.Samples, model.Sample{
			DocID:    record.DocID,
			Features: features,
			Label:    row.Label,
		})
	}

	for _, row := range cohort {
		if !matched[row.DocID] {
			result.DroppedCohort++
		}
	}

	if result.DroppedFeatures > 0 || result.DroppedCohort > 0 {
		b.log.Warn("Dropped unmatched rows during merge",
			slog.Int("dropped_features", result.DroppedFeatures),
			slog.Int("dropped_cohort_rows", result.DroppedCohort),
			slog.Int("merged", len(result.Samples)))
	}

	return result
}
