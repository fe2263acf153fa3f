// Package pattern aggregates clinically meaningful patterns from a parsed
// report's entity/relation graph.
package pattern

import (
	"strings"

	"github.com/lungmap/radpipe/core/graph"
	"github.com/lungmap/radpipe/model"
)

// Analysis is the full derived output for one report.
type Analysis struct {
	Bundle    *model.PatternBundle
	Histogram model.CertaintyHistogram
	Metrics   model.GraphMetrics
}

// Analyzer walks a report's relations once and aggregates findings,
// modifiers and pneumonia-indicative suggestion chains. All output follows
// document order; nothing depends on map iteration order.
type Analyzer struct {
	vocabulary []string
}

// NewAnalyzer creates an analyzer matching the given pneumonia vocabulary.
// An empty vocabulary falls back to the default terms.
func NewAnalyzer(vocabulary []string) *Analyzer {
	if len(vocabulary) == 0 {
		vocabulary = model.DefaultVocabulary
	}
	lowered := make([]string, len(vocabulary))
	for i, term := range vocabulary {
		lowered[i] = strings.ToLower(term)
	}
	return &Analyzer{vocabulary: lowered}
}

// Analyze builds the pattern bundle, certainty histogram and graph metrics
// for one report, walking each entity's graph neighborhood in document
// order:
//
//   - located_at targets of an observation are recorded under the source
//     finding's location list.
//   - modify sources pointing at an observation are recorded under the
//     entity they modify (the target), not under themselves.
//   - an entity matching the pneumonia vocabulary records a (source,
//     target) pair for every entity its suggestive_of chain reaches, so
//     chained suggestions all attribute back to the matching finding.
func (a *Analyzer) Analyze(report *model.Report) *Analysis {
	g := graph.New(report)

	bundle := model.NewPatternBundle()
	metrics := model.GraphMetrics{
		NumEntities:  len(report.Entities),
		NumRelations: len(report.Relations),
	}

	histogram := model.CertaintyHistogram{}
	for i := range report.Entities {
		entity := &report.Entities[i]
		histogram[entity.Certainty]++
		if entity.IsObservation() {
			metrics.NumObservations++
		} else {
			metrics.NumAnatomy++
		}
	}

	suggestiveKind := []model.RelationKind{model.RelationSuggestiveOf}
	for i := range report.Entities {
		entity := &report.Entities[i]

		sites := g.Targets(entity.ID, model.RelationLocatedAt)
		metrics.NumLocatedAt += len(sites)
		if entity.IsObservation() {
			for _, site := range sites {
				bundle.Findings[entity.Text] = append(bundle.Findings[entity.Text], site.Text)
			}
		}

		modifiers := g.Sources(entity.ID, model.RelationModify)
		metrics.NumModify += len(modifiers)
		if entity.IsObservation() {
			for _, modifier := range modifiers {
				if modifier.IsObservation() {
					bundle.Modifiers[entity.Text] = append(bundle.Modifiers[entity.Text], modifier.Text)
				}
			}
		}

		metrics.NumSuggestiveOf += len(g.Targets(entity.ID, model.RelationSuggestiveOf))
		if a.matchesVocabulary(entity.Text) {
			for _, reached := range g.BFS(entity.ID, len(report.Entities), suggestiveKind) {
				if reached.Distance == 0 {
					continue
				}
				bundle.Suggestive = append(bundle.Suggestive, model.SuggestivePair{
					Source: entity.Text,
					Target: reached.Entity.Text,
				})
			}
		}
	}

	return &Analysis{
		Bundle:    bundle,
		Histogram: histogram,
		Metrics:   metrics,
	}
}

// matchesVocabulary reports whether the text contains any vocabulary term,
// case-insensitively.
func (a *Analyzer) matchesVocabulary(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range a.vocabulary {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
