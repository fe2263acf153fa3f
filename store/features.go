package store

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

// FeatureStoreFunctions defines the interface for feature output
// operations.
type FeatureStoreFunctions interface {
	WriteFeatures(path string, records []*model.FeatureRecord, numTopics int) error
	WriteReport(path string, report *model.RunReport) error
}

// FeatureStore writes the merged per-document feature matrix as CSV and
// the run report as JSON.
type FeatureStore struct {
	log *slog.Logger
}

// NewFeatureStore creates a new feature store.
func NewFeatureStore(logger *slog.Logger) *FeatureStore {
	logger.Info("Initialized FeatureStore")
	return &FeatureStore{log: logger}
}

// WriteFeatures writes all records in input order with a fixed-width
// header carrying numTopics topic columns. Records without topic vectors
// are padded with zeros so every row has the same width.
func (s *FeatureStore) WriteFeatures(path string, records []*model.FeatureRecord, numTopics int) error {
	file, err := os.Create(path)
	if err != nil {
		return helper.NewError("create feature file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(model.FeatureColumns(numTopics)); err != nil {
		return helper.NewError("write feature header", err)
	}

	for _, record := range records {
		for len(record.Topics) < numTopics {
			record.Topics = append(record.Topics, 0)
		}
		if err := writer.Write(record.Row()); err != nil {
			return helper.NewError("write feature row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return helper.NewError("flush feature file", err)
	}

	s.log.Info("Wrote features", slog.String("path", path), slog.Int("num_records", len(records)))

	return nil
}

// WriteReport writes the run report as indented JSON.
func (s *FeatureStore) WriteReport(path string, report *model.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return helper.NewError("marshal run report", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return helper.NewError("write run report", err)
	}

	s.log.Info("Wrote run report", slog.String("path", path), slog.String("run_id", report.RunID.String()))

	return nil
}
