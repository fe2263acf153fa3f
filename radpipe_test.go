package radpipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lungmap/radpipe/core/pipeline"
	"github.com/lungmap/radpipe/core/radgraph"
	"github.com/lungmap/radpipe/model"
)

// testEmbedder returns a deterministic embedding function for tests so no
// model download is needed.
func testEmbedder(dimension int) pipeline.EmbedFunc {
	return func(text string) ([]float32, error) {
		embedding := make([]float32, dimension)
		for i, r := range text {
			embedding[i%dimension] += float32(r%13) / 13.0
		}
		return embedding, nil
	}
}

func positiveAnnotation() map[string]any {
	return map[string]any{
		"text": "focal consolidation in the lungs",
		"entities": map[string]any{
			"1": map[string]any{
				"tokens": "focal", "label": "OBS-DP", "start_ix": 0, "end_ix": 0,
				"relations": [][2]string{{"modify", "2"}},
			},
			"2": map[string]any{
				"tokens": "consolidation", "label": "OBS-DP", "start_ix": 1, "end_ix": 1,
				"relations": [][2]string{{"located_at", "3"}, {"suggestive_of", "3"}},
			},
			"3": map[string]any{
				"tokens": "lungs", "label": "ANAT-DP", "start_ix": 4, "end_ix": 4,
				"relations": [][2]string{},
			},
		},
	}
}

func negativeAnnotation() map[string]any {
	return map[string]any{
		"text": "lungs are clear",
		"entities": map[string]any{
			"1": map[string]any{
				"tokens": "lungs", "label": "ANAT-DP", "start_ix": 0, "end_ix": 0,
				"relations": [][2]string{},
			},
			"2": map[string]any{
				"tokens": "clear", "label": "OBS-DA", "start_ix": 2, "end_ix": 2,
				"relations": [][2]string{{"located_at", "1"}},
			},
		},
	}
}

// writeTestCorpus writes a small balanced annotation export and cohort file
// into dir and returns their paths.
func writeTestCorpus(t *testing.T, dir string, numDocs int) (annotationsPath, cohortPath string) {
	t.Helper()

	export := map[string]any{}
	var cohort strings.Builder
	cohort.WriteString("doc_id,age,label\n")
	for i := 0; i < numDocs; i++ {
		docID := fmt.Sprintf("p%02d", i)
		if i%2 == 0 {
			export[docID] = positiveAnnotation()
			fmt.Fprintf(&cohort, "%v,%d,1\n", docID, 50+i)
		} else {
			export[docID] = negativeAnnotation()
			fmt.Fprintf(&cohort, "%v,%d,0\n", docID, 50+i)
		}
	}

	data, err := json.Marshal(export)
	require.NoError(t, err)

	annotationsPath = filepath.Join(dir, "annotations.json")
	cohortPath = filepath.Join(dir, "cohort.csv")
	require.NoError(t, os.WriteFile(annotationsPath, data, 0644))
	require.NoError(t, os.WriteFile(cohortPath, []byte(cohort.String()), 0644))

	return annotationsPath, cohortPath
}

func TestNewPipe(t *testing.T) {
	t.Run("Nil config uses defaults", func(t *testing.T) {
		pipe, err := NewPipe(nil)
		require.NoError(t, err)
		assert.Equal(t, "boosted", pipe.Config.Classifier)
		assert.NotNil(t, pipe.Parser)
		assert.NotNil(t, pipe.Analyzer)
		assert.Nil(t, pipe.Pipeline, "no embedding pipeline until set")
	})

	t.Run("Invalid config", func(t *testing.T) {
		config := model.DefaultConfig()
		config.Classifier = "svm"
		_, err := NewPipe(config)
		assert.Error(t, err)
	})
}

func TestExtractFeatures(t *testing.T) {
	dir := t.TempDir()
	annotationsPath, _ := writeTestCorpus(t, dir, 8)

	config := model.DefaultConfig()
	config.Workers = 4
	pipe, err := NewPipe(config)
	require.NoError(t, err)

	annotations, err := pipe.Annotations.Load(annotationsPath)
	require.NoError(t, err)

	t.Run("Fans out while preserving input order", func(t *testing.T) {
		reports, records, err := pipe.ExtractFeatures(annotations)
		require.NoError(t, err)
		require.Len(t, reports, 8)
		require.Len(t, records, 8)

		for i, annotation := range annotations {
			assert.Equal(t, annotation.DocID, reports[i].ID, "report %d out of order", i)
			assert.Equal(t, annotation.DocID, records[i].DocID, "record %d out of order", i)
		}
	})

	t.Run("Positive documents carry suggestive patterns", func(t *testing.T) {
		_, records, err := pipe.ExtractFeatures(annotations)
		require.NoError(t, err)

		assert.Equal(t, 1, records[0].NumSuggestive)
		assert.Equal(t, 0, records[1].NumSuggestive)
	})

	t.Run("Malformed annotation fails the batch", func(t *testing.T) {
		broken := append([]model.Annotation{}, annotations...)
		broken[3].Entities = map[string]model.AnnotationEntity{
			"1": {Tokens: "lungs", Label: "ANAT-DP", StartIx: 40, EndIx: 40},
		}

		_, _, err := pipe.ExtractFeatures(broken)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, radgraph.ErrMalformedAnnotation))
	})
}

func TestAssignTopics(t *testing.T) {
	config := model.DefaultConfig()
	config.NumTopics = 2
	pipe, err := NewPipe(config)
	require.NoError(t, err)

	reports := []*model.Report{
		{ID: "p00", Text: "focal consolidation in the lungs"},
		{ID: "p01", Text: "lungs are clear"},
	}

	t.Run("Requires a pipeline", func(t *testing.T) {
		_, err := pipe.AssignTopics(reports)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "pipeline with embedder not set")
	})

	t.Run("Returns one probability vector per report", func(t *testing.T) {
		pipe.SetPipeline(pipeline.NewPipeline(nil, testEmbedder(16)))

		assignments, err := pipe.AssignTopics(reports)
		require.NoError(t, err)
		require.Len(t, assignments, 2)

		for docID, vector := range assignments {
			require.Len(t, vector, 2, "document %v", docID)
			sum := 0.0
			for _, p := range vector {
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "document %v probabilities sum to one", docID)
		}
	})
}

func TestRun(t *testing.T) {
	runConfig := func(t *testing.T, classifier string) *model.Config {
		dir := t.TempDir()
		annotationsPath, cohortPath := writeTestCorpus(t, dir, 12)

		config := model.DefaultConfig()
		config.Classifier = classifier
		config.NumTopics = 2
		config.Workers = 2
		config.AnnotationsPath = annotationsPath
		config.CohortPath = cohortPath
		config.FeaturesPath = filepath.Join(dir, "features.csv")
		config.ReportPath = filepath.Join(dir, "run_report.json")
		return config
	}

	for _, classifier := range []string{"logistic", "boosted"} {
		t.Run(fmt.Sprintf("Full run with %v classifier", classifier), func(t *testing.T) {
			config := runConfig(t, classifier)
			pipe, err := NewPipe(config)
			require.NoError(t, err)
			pipe.SetPipeline(pipeline.NewPipeline(nil, testEmbedder(16)))

			runReport, err := pipe.Run()
			require.NoError(t, err)

			assert.Equal(t, 12, runReport.NumDocuments)
			assert.Equal(t, 12, runReport.NumCohortRows)
			assert.Equal(t, 12, runReport.NumMerged)
			assert.Equal(t, 0, runReport.DroppedFeatures)
			assert.Equal(t, 0, runReport.DroppedCohort)
			assert.Equal(t, classifier, runReport.Classifier)

			require.NotNil(t, runReport.Metadata)
			assert.Equal(t, config.Vocabulary, runReport.Metadata["vocabulary"])
			assert.Equal(t, 2, runReport.Metadata["num_topics"])

			require.NotNil(t, runReport.Result)
			assert.Equal(t, 12, runReport.Result.NumTrain+runReport.Result.NumTest)
			assert.InDelta(t, 1.0, runReport.Result.Accuracy, 1e-9,
				"the two document templates are perfectly separable")

			assert.FileExists(t, config.FeaturesPath)
			assert.FileExists(t, config.ReportPath)
		})
	}

	t.Run("Run without a pipeline skips topics", func(t *testing.T) {
		config := runConfig(t, "boosted")
		pipe, err := NewPipe(config)
		require.NoError(t, err)

		runReport, err := pipe.Run()
		require.NoError(t, err)
		assert.Equal(t, 12, runReport.NumMerged)
		assert.Equal(t, 0, runReport.Metadata["num_topics"], "Expected no topic columns recorded")

		data, err := os.ReadFile(config.FeaturesPath)
		require.NoError(t, err)
		header := strings.Split(strings.SplitN(string(data), "\n", 2)[0], ",")
		assert.Equal(t, model.FeatureColumns(0), header, "no topic columns without a pipeline")
	})

	t.Run("Missing cohort file", func(t *testing.T) {
		config := runConfig(t, "boosted")
		config.CohortPath = filepath.Join(t.TempDir(), "nope.csv")
		pipe, err := NewPipe(config)
		require.NoError(t, err)

		_, err = pipe.Run()
		assert.Error(t, err)
	})
}
