package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"

	"github.com/lungmap/radpipe/helper"
)

// defaultEmbeddingModel produces 384-dimensional sentence embeddings, which
// is plenty for clustering short report sections.
const defaultEmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"

// DefaultEmbedder returns an EmbedFunc backed by a local ONNX sentence
// transformer. The model is downloaded on first use.
func DefaultEmbedder() (EmbedFunc, error) {
	modelPath, err := helper.PrepareModel(defaultEmbeddingModel, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, helper.NewError("create embedding session", err)
	}

	embedPipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "report-embedder",
	})
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, helper.NewError("create embedding pipeline",
				fmt.Errorf("%w (cleanup error: %v)", err, destroyErr))
		}
		return nil, helper.NewError("create embedding pipeline", err)
	}

	return func(text string) ([]float32, error) {
		result, err := embedPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, helper.NewError("embed report text", err)
		}
		if len(result.Embeddings) == 0 {
			return nil, helper.NewError("embed report text", fmt.Errorf("model returned no embedding"))
		}
		return result.Embeddings[0], nil
	}, nil
}
