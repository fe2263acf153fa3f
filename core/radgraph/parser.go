// Package radgraph converts raw RadGraph annotation records into validated
// entity/relation graphs, one per radiology report.
package radgraph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

var (
	// ErrMalformedAnnotation is returned when an entity's token span is
	// inconsistent with the source text.
	ErrMalformedAnnotation = errors.New("malformed annotation")
	// ErrDanglingRelation is returned when a relation references an entity
	// id absent from the entity collection.
	ErrDanglingRelation = errors.New("dangling relation")
)

// Parser turns one RadGraph annotation into a Report. Parsing is stateless
// and idempotent: the same annotation always yields the same entity and
// relation lists.
type Parser struct{}

// NewParser creates a new annotation parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse validates and converts an annotation into a Report. Entities are
// emitted in document order (ascending entity id), relations in the order
// their source entities appear. Every failure mode is an error: bad spans
// (ErrMalformedAnnotation), unknown labels (model.ErrUnknownTypeLabel),
// unknown relation kinds (model.ErrUnknownRelationKind) and references to
// missing entities (ErrDanglingRelation) are never silently dropped.
func (p *Parser) Parse(annotation *model.Annotation) (*model.Report, error) {
	if annotation == nil {
		return nil, helper.NewError("parse annotation", fmt.Errorf("%w: nil annotation", ErrMalformedAnnotation))
	}
	if len(annotation.Entities) == 0 {
		return nil, helper.NewError("parse annotation", fmt.Errorf("%w: document %q has no entities", ErrMalformedAnnotation, annotation.DocID))
	}

	tokens := strings.Fields(annotation.Text)

	ids := orderedIDs(annotation.Entities)

	entities := make([]model.Entity, 0, len(ids))
	for _, id := range ids {
		raw := annotation.Entities[id]

		entity, err := parseEntity(annotation.DocID, id, raw, tokens)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	known := make(map[string]bool, len(entities))
	for i := range entities {
		known[entities[i].ID] = true
	}

	var relations []model.Relation
	for _, id := range ids {
		for _, pair := range annotation.Entities[id].Relations {
			kind, err := model.ParseRelationKind(pair[0])
			if err != nil {
				return nil, helper.NewError("parse relation", fmt.Errorf("document %q entity %q: %w", annotation.DocID, id, err))
			}
			target := pair[1]
			if !known[target] {
				return nil, helper.NewError("parse relation",
					fmt.Errorf("%w: document %q relation %s -> %s references missing entity", ErrDanglingRelation, annotation.DocID, id, target))
			}
			relations = append(relations, model.Relation{
				SourceID: id,
				TargetID: target,
				Kind:     kind,
			})
		}
	}

	return &model.Report{
		ID:        annotation.DocID,
		RID:       uuid.New(),
		Text:      annotation.Text,
		Tokens:    tokens,
		Entities:  entities,
		Relations: relations,
		CreatedAt: time.Now(),
	}, nil
}

// parseEntity validates one raw entity record and reconstructs its text
// from the token span, inclusive of both bounds.
func parseEntity(docID, id string, raw model.AnnotationEntity, tokens []string) (model.Entity, error) {
	if raw.StartIx < 0 || raw.EndIx < raw.StartIx || raw.EndIx >= len(tokens) {
		return model.Entity{}, helper.NewError("parse entity",
			fmt.Errorf("%w: document %q entity %q span [%d,%d] outside %d tokens", ErrMalformedAnnotation, docID, id, raw.StartIx, raw.EndIx, len(tokens)))
	}

	text := strings.Join(tokens[raw.StartIx:raw.EndIx+1], " ")
	if raw.Tokens != "" && !strings.EqualFold(raw.Tokens, text) {
		return model.Entity{}, helper.NewError("parse entity",
			fmt.Errorf("%w: document %q entity %q span text %q does not match annotated tokens %q", ErrMalformedAnnotation, docID, id, text, raw.Tokens))
	}

	category, certainty, err := model.ParseTypeLabel(raw.Label)
	if err != nil {
		return model.Entity{}, helper.NewError("parse entity", fmt.Errorf("document %q entity %q: %w", docID, id, err))
	}

	return model.Entity{
		ID:        id,
		Text:      text,
		StartIx:   raw.StartIx,
		EndIx:     raw.EndIx,
		Category:  category,
		Certainty: certainty,
	}, nil
}

// orderedIDs returns the entity ids in document order. RadGraph numbers
// entities in the order they appear in the text, so numeric ids sort
// numerically; anything else falls back to lexicographic order.
func orderedIDs(entities map[string]model.AnnotationEntity) []string {
	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}
