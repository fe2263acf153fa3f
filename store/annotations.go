package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

// AnnotationStoreFunctions defines the interface for annotation file
// operations.
type AnnotationStoreFunctions interface {
	Load(path string) ([]model.Annotation, error)
}

// AnnotationStore loads a RadGraph export: a JSON object keyed by document
// id, each value holding the report text and the entity mapping.
type AnnotationStore struct {
	log *slog.Logger
}

// NewAnnotationStore creates a new annotation store.
func NewAnnotationStore(logger *slog.Logger) *AnnotationStore {
	logger.Info("Initialized AnnotationStore")
	return &AnnotationStore{log: logger}
}

// rawAnnotation mirrors one document of the export file.
type rawAnnotation struct {
	Text     string                            `json:"text"`
	Entities map[string]model.AnnotationEntity `json:"entities"`
}

// Load reads the export file and returns annotations sorted by document id,
// so repeated runs process documents in the same order.
func (s *AnnotationStore) Load(path string) ([]model.Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("open annotation file", err)
	}

	var export map[string]rawAnnotation
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, helper.NewError("parse annotation file", err)
	}
	if len(export) == 0 {
		return nil, helper.NewError("parse annotation file", fmt.Errorf("%s contains no documents", path))
	}

	docIDs := make([]string, 0, len(export))
	for docID := range export {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	annotations := make([]model.Annotation, 0, len(docIDs))
	for _, docID := range docIDs {
		raw := export[docID]
		annotations = append(annotations, model.Annotation{
			DocID:    docID,
			Text:     raw.Text,
			Entities: raw.Entities,
		})
	}

	s.log.Info("Loaded annotations", slog.String("path", path), slog.Int("num_documents", len(annotations)))

	return annotations, nil
}
