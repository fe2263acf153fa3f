package model

import (
	"errors"
	"fmt"
)

// RelationKind represents the type of a directed relation between entities.
type RelationKind string

const (
	RelationSuggestiveOf RelationKind = "suggestive_of"
	RelationLocatedAt    RelationKind = "located_at"
	RelationModify       RelationKind = "modify"
)

// ErrUnknownRelationKind is returned when a relation kind falls outside the
// fixed enumeration.
var ErrUnknownRelationKind = errors.New("unknown relation kind")

// Relation is a directed edge between two entities of one report.
type Relation struct {
	SourceID string       `json:"source_id"`
	TargetID string       `json:"target_id"`
	Kind     RelationKind `json:"kind"`
}

// ParseRelationKind validates a raw relation kind string.
func ParseRelationKind(kind string) (RelationKind, error) {
	switch RelationKind(kind) {
	case RelationSuggestiveOf, RelationLocatedAt, RelationModify:
		return RelationKind(kind), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRelationKind, kind)
	}
}
