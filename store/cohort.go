// Package store reads and writes the flat files of a pipeline run: the
// tabular cohort, the RadGraph annotation export, and the merged feature
// and report outputs.
package store

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

// CohortStoreFunctions defines the interface for cohort file operations.
type CohortStoreFunctions interface {
	Load(path string) ([]model.CohortRow, error)
}

// CohortStore loads the study cohort from a CSV file. The file must carry
// a header with a document id column and a label column; every remaining
// numeric column is kept as a covariate.
type CohortStore struct {
	log *slog.Logger
}

// NewCohortStore creates a new cohort store.
func NewCohortStore(logger *slog.Logger) *CohortStore {
	logger.Info("Initialized CohortStore")
	return &CohortStore{log: logger}
}

// idColumns and labelColumns are the accepted header names, checked
// case-insensitively.
var (
	idColumns    = []string{"doc_id", "study_id", "document_id"}
	labelColumns = []string{"label", "outcome"}
)

// Load reads the cohort file. Rows with an unparsable label are an error;
// non-numeric covariate cells are skipped.
func (s *CohortStore) Load(path string) ([]model.CohortRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, helper.NewError("open cohort file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, helper.NewError("read cohort file", err)
	}
	if len(records) < 2 {
		return nil, helper.NewError("read cohort file", fmt.Errorf("%s has no data rows", path))
	}

	header := records[0]
	idIx := findColumn(header, idColumns)
	labelIx := findColumn(header, labelColumns)
	if idIx < 0 || labelIx < 0 {
		return nil, helper.NewError("read cohort file",
			fmt.Errorf("%s is missing a document id or label column (header %v)", path, header))
	}

	rows := make([]model.CohortRow, 0, len(records)-1)
	for line, record := range records[1:] {
		label, err := strconv.Atoi(strings.TrimSpace(record[labelIx]))
		if err != nil {
			return nil, helper.NewError("parse cohort label",
				fmt.Errorf("line %d: %q is not an integer label", line+2, record[labelIx]))
		}

		row := model.CohortRow{
			DocID: strings.TrimSpace(record[idIx]),
			Label: label,
		}
		for col, cell := range record {
			if col == idIx || col == labelIx {
				continue
			}
			if value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				if row.Covariates == nil {
					row.Covariates = make(map[string]float64)
				}
				row.Covariates[header[col]] = value
			}
		}
		rows = append(rows, row)
	}

	s.log.Info("Loaded cohort", slog.String("path", path), slog.Int("num_rows", len(rows)))

	return rows, nil
}

func findColumn(header []string, names []string) int {
	for i, column := range header {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(column), name) {
				return i
			}
		}
	}
	return -1
}
