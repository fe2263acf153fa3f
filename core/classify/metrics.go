package classify

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/lungmap/radpipe/model"
)

// Accuracy returns the fraction of correct binary predictions.
func Accuracy(labels, predictions []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	correct := 0
	for i, label := range labels {
		if predictions[i] == label {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}

// F1 returns the F1 score of the positive class (label 1).
func F1(labels, predictions []int) float64 {
	var tp, fp, fn float64
	for i, label := range labels {
		switch {
		case predictions[i] == 1 && label == 1:
			tp++
		case predictions[i] == 1 && label == 0:
			fp++
		case predictions[i] == 0 && label == 1:
			fn++
		}
	}
	if tp == 0 {
		return 0
	}
	precision := tp / (tp + fp)
	recall := tp / (tp + fn)
	return 2 * precision * recall / (precision + recall)
}

// AUC returns the area under the ROC curve for positive-class scores.
// A degenerate test set containing only one class scores 0.5.
func AUC(labels []int, scores []float64) float64 {
	numPositive := 0
	for _, label := range labels {
		if label == 1 {
			numPositive++
		}
	}
	if numPositive == 0 || numPositive == len(labels) {
		return 0.5
	}

	type pair struct {
		score    float64
		positive bool
	}
	pairs := make([]pair, len(labels))
	for i, label := range labels {
		pairs[i] = pair{score: scores[i], positive: label == 1}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	y := make([]float64, len(pairs))
	classes := make([]bool, len(pairs))
	for i, p := range pairs {
		y[i] = p.score
		classes[i] = p.positive
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return math.Abs(integrate.Trapezoidal(fpr, tpr))
}

// Evaluate scores held-out predictions at a 0.5 threshold and reports
// accuracy, AUC-ROC and F1.
func Evaluate(labels []int, scores []float64) *model.EvalResult {
	predictions := make([]int, len(scores))
	for i, score := range scores {
		if score >= 0.5 {
			predictions[i] = 1
		}
	}

	return &model.EvalResult{
		Accuracy: Accuracy(labels, predictions),
		AUC:      AUC(labels, scores),
		F1:       F1(labels, predictions),
		NumTest:  len(labels),
	}
}
