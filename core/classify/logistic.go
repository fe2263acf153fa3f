package classify

import (
	"fmt"
	"math"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

// Logistic is an L2-regularized logistic regression fit with batch
// gradient descent over standardized features.
type Logistic struct {
	learningRate float64
	epochs       int
	l2           float64

	weights []float64
	bias    float64
	means   []float64
	scales  []float64
}

// NewLogistic creates a logistic regression classifier.
func NewLogistic(learningRate float64, epochs int) *Logistic {
	return &Logistic{
		learningRate: learningRate,
		epochs:       epochs,
		l2:           1e-4,
	}
}

// Name implements Classifier.
func (l *Logistic) Name() string { return "logistic" }

// Fit trains the model on the given samples.
func (l *Logistic) Fit(samples []model.Sample) error {
	if len(samples) == 0 {
		return helper.NewError("fit logistic regression", fmt.Errorf("no training samples"))
	}
	dim := len(samples[0].Features)
	for _, sample := range samples {
		if len(sample.Features) != dim {
			return helper.NewError("fit logistic regression",
				fmt.Errorf("sample %q has %d features, want %d", sample.DocID, len(sample.Features), dim))
		}
	}

	l.standardize(samples, dim)

	l.weights = make([]float64, dim)
	l.bias = 0

	n := float64(len(samples))
	for epoch := 0; epoch < l.epochs; epoch++ {
		gradW := make([]float64, dim)
		gradB := 0.0

		for _, sample := range samples {
			p := l.probability(sample.Features)
			residual := p - float64(sample.Label)
			for j, v := range sample.Features {
				gradW[j] += residual * l.scaled(j, v)
			}
			gradB += residual
		}

		for j := range l.weights {
			l.weights[j] -= l.learningRate * (gradW[j]/n + l.l2*l.weights[j])
		}
		l.bias -= l.learningRate * gradB / n
	}

	return nil
}

// Predict returns the positive-class probability for a feature vector.
func (l *Logistic) Predict(features []float64) float64 {
	return l.probability(features)
}

func (l *Logistic) probability(features []float64) float64 {
	z := l.bias
	for j, v := range features {
		if j >= len(l.weights) {
			break
		}
		z += l.weights[j] * l.scaled(j, v)
	}
	return sigmoid(z)
}

// standardize computes per-feature mean and scale on the training set.
// Constant features get scale 1 so they contribute nothing after centering.
func (l *Logistic) standardize(samples []model.Sample, dim int) {
	l.means = make([]float64, dim)
	l.scales = make([]float64, dim)

	n := float64(len(samples))
	for _, sample := range samples {
		for j, v := range sample.Features {
			l.means[j] += v
		}
	}
	for j := range l.means {
		l.means[j] /= n
	}

	for _, sample := range samples {
		for j, v := range sample.Features {
			d := v - l.means[j]
			l.scales[j] += d * d
		}
	}
	for j := range l.scales {
		l.scales[j] = math.Sqrt(l.scales[j] / n)
		if l.scales[j] == 0 {
			l.scales[j] = 1
		}
	}
}

func (l *Logistic) scaled(j int, v float64) float64 {
	return (v - l.means[j]) / l.scales[j]
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
