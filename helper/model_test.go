package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModel(t *testing.T) {
	t.Run("Returns existing model path without downloading", func(t *testing.T) {
		modelPath := filepath.Join("./models", "test_mock-model")
		require.NoError(t, os.MkdirAll(modelPath, 0750))
		defer os.RemoveAll(modelPath)

		path, err := PrepareModel("test/mock-model", "")
		assert.NoError(t, err, "Expected no error for a model already on disk")
		assert.Equal(t, modelPath, path)
	})

	t.Run("Sanitizes slashes in the model name", func(t *testing.T) {
		expectedPath := filepath.Join("./models", "sentence-transformers_all-MiniLM-L6-v2")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))
		defer os.RemoveAll(expectedPath)

		path, err := PrepareModel("sentence-transformers/all-MiniLM-L6-v2", "onnx/model.onnx")
		assert.NoError(t, err)
		assert.Equal(t, expectedPath, path, "Expected the path to use the sanitized name")
	})

	t.Run("Model name without slash is used directly", func(t *testing.T) {
		expectedPath := filepath.Join("./models", "simple-model")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))
		defer os.RemoveAll(expectedPath)

		path, err := PrepareModel("simple-model", "")
		assert.NoError(t, err)
		assert.Equal(t, expectedPath, path)
	})

	t.Run("Download is attempted for a missing model", func(t *testing.T) {
		modelPath := filepath.Join("./models", "sentence-transformers_all-MiniLM-L6-v2")
		os.RemoveAll(modelPath)

		// The download depends on network access, so accept either outcome.
		path, err := PrepareModel("sentence-transformers/all-MiniLM-L6-v2", "onnx/model.onnx")
		if err != nil {
			assert.Contains(t, err.Error(), "failed to", "Expected a wrapped download error")
		} else {
			assert.NotEmpty(t, path)
			assert.DirExists(t, path)
		}
	})
}
