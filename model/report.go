package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Annotation is one document of a RadGraph export: the token-delimited
// report text plus the entity mapping keyed by entity id.
type Annotation struct {
	DocID    string
	Text     string
	Entities map[string]AnnotationEntity
}

// AnnotationEntity is the raw per-entity record of a RadGraph export.
// Relations are inline pairs of [kind, target entity id].
type AnnotationEntity struct {
	Tokens    string      `json:"tokens"`
	Label     string      `json:"label"`
	StartIx   int         `json:"start_ix"`
	EndIx     int         `json:"end_ix"`
	Relations [][2]string `json:"relations"`
}

// TokenCount returns the number of whitespace-delimited tokens in the
// annotation's source text.
func (a *Annotation) TokenCount() int {
	return len(strings.Fields(a.Text))
}

// Report is one parsed radiology report: its text, tokens and the
// entity/relation graph extracted from its RadGraph annotation.
// Entities and Relations are kept in document order so downstream
// aggregation never depends on map iteration order.
type Report struct {
	ID        string     `json:"id"`
	RID       uuid.UUID  `json:"rid"`
	Text      string     `json:"text"`
	Tokens    []string   `json:"tokens,omitempty"`
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
	CreatedAt time.Time  `json:"created_at"`
}

// Entity returns the entity with the given id, or nil if absent.
func (r *Report) Entity(id string) *Entity {
	for i := range r.Entities {
		if r.Entities[i].ID == id {
			return &r.Entities[i]
		}
	}
	return nil
}
