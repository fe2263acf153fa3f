package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	t.Run("All correct", func(t *testing.T) {
		assert.Equal(t, 1.0, Accuracy([]int{0, 1, 1}, []int{0, 1, 1}))
	})

	t.Run("Half correct", func(t *testing.T) {
		assert.Equal(t, 0.5, Accuracy([]int{0, 1, 0, 1}, []int{0, 1, 1, 0}))
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Equal(t, 0.0, Accuracy(nil, nil))
	})
}

func TestF1(t *testing.T) {
	t.Run("Perfect predictions", func(t *testing.T) {
		assert.Equal(t, 1.0, F1([]int{1, 0, 1}, []int{1, 0, 1}))
	})

	t.Run("Hand-checked confusion table", func(t *testing.T) {
		// tp=2, fp=1, fn=1: precision=2/3, recall=2/3, f1=2/3
		labels := []int{1, 1, 1, 0, 0}
		predictions := []int{1, 1, 0, 1, 0}
		assert.InDelta(t, 2.0/3.0, F1(labels, predictions), 1e-9)
	})

	t.Run("No true positives", func(t *testing.T) {
		assert.Equal(t, 0.0, F1([]int{1, 1}, []int{0, 0}))
	})
}

func TestAUC(t *testing.T) {
	t.Run("Perfect ranking scores 1", func(t *testing.T) {
		labels := []int{0, 0, 1, 1}
		scores := []float64{0.1, 0.2, 0.8, 0.9}
		assert.InDelta(t, 1.0, AUC(labels, scores), 1e-9)
	})

	t.Run("Reversed ranking scores 0", func(t *testing.T) {
		labels := []int{1, 1, 0, 0}
		scores := []float64{0.1, 0.2, 0.8, 0.9}
		assert.InDelta(t, 0.0, AUC(labels, scores), 1e-9)
	})

	t.Run("Score is within [0,1]", func(t *testing.T) {
		labels := []int{0, 1, 0, 1, 1, 0}
		scores := []float64{0.3, 0.4, 0.5, 0.2, 0.9, 0.6}
		auc := AUC(labels, scores)
		assert.GreaterOrEqual(t, auc, 0.0)
		assert.LessOrEqual(t, auc, 1.0)
	})

	t.Run("Single-class test set scores 0.5", func(t *testing.T) {
		assert.Equal(t, 0.5, AUC([]int{1, 1}, []float64{0.4, 0.6}))
		assert.Equal(t, 0.5, AUC([]int{0, 0}, []float64{0.4, 0.6}))
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("Thresholds scores at one half", func(t *testing.T) {
		labels := []int{0, 1, 1, 0}
		scores := []float64{0.2, 0.7, 0.9, 0.4}

		result := Evaluate(labels, scores)

		assert.Equal(t, 1.0, result.Accuracy)
		assert.Equal(t, 1.0, result.F1)
		assert.InDelta(t, 1.0, result.AUC, 1e-9)
		assert.Equal(t, 4, result.NumTest)
	})

	t.Run("Scores stay in the unit interval", func(t *testing.T) {
		labels := []int{0, 1, 0, 1}
		scores := []float64{0.6, 0.4, 0.2, 0.8}

		result := Evaluate(labels, scores)

		for name, score := range map[string]float64{
			"accuracy": result.Accuracy,
			"auc":      result.AUC,
			"f1":       result.F1,
		} {
			assert.GreaterOrEqual(t, score, 0.0, "%s below 0", name)
			assert.LessOrEqual(t, score, 1.0, "%s above 1", name)
		}
	})
}
