// Package classify trains binary classifiers on merged report features and
// reports held-out performance.
package classify

import (
	"fmt"
	"log/slog"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

// Classifier fits on training samples and scores the positive-class
// probability of unseen feature vectors.
type Classifier interface {
	Name() string
	Fit(samples []model.Sample) error
	Predict(features []float64) float64
}

const logisticEpochs = 500

// Trainer runs the train/evaluate loop for one configured classifier.
type Trainer struct {
	classifier   Classifier
	testFraction float64
	seed         int64
	log          *slog.Logger
}

// NewTrainer creates a trainer for the classifier named in the config.
func NewTrainer(config *model.Config, logger *slog.Logger) (*Trainer, error) {
	var classifier Classifier
	switch config.Classifier {
	case "logistic":
		classifier = NewLogistic(config.LearningRate, logisticEpochs)
	case "boosted":
		classifier = NewBoostedStumps(config.BoostedRounds, config.LearningRate)
	default:
		return nil, helper.NewError("create trainer", fmt.Errorf("unknown classifier %q", config.Classifier))
	}

	return &Trainer{
		classifier:   classifier,
		testFraction: config.TestFraction,
		seed:         config.SplitSeed,
		log:          logger,
	}, nil
}

// Classifier returns the configured classifier.
func (t *Trainer) Classifier() Classifier {
	return t.classifier
}

// TrainAndEvaluate splits the samples, fits the classifier on the training
// half and reports accuracy, AUC-ROC and F1 on the held-out half.
func (t *Trainer) TrainAndEvaluate(samples []model.Sample) (*model.EvalResult, error) {
	if len(samples) < 4 {
		return nil, helper.NewError("train classifier", fmt.Errorf("need at least 4 samples, got %d", len(samples)))
	}

	train, test := Split(samples, t.testFraction, t.seed)

	t.log.Info("Training classifier",
		slog.String("classifier", t.classifier.Name()),
		slog.Int("num_train", len(train)),
		slog.Int("num_test", len(test)))

	if err := t.classifier.Fit(train); err != nil {
		return nil, err
	}

	labels := make([]int, len(test))
	scores := make([]float64, len(test))
	for i, sample := range test {
		labels[i] = sample.Label
		scores[i] = t.classifier.Predict(sample.Features)
	}

	result := Evaluate(labels, scores)
	result.NumTrain = len(train)

	t.log.Info("Evaluated classifier",
		slog.String("classifier", t.classifier.Name()),
		slog.Float64("accuracy", result.Accuracy),
		slog.Float64("auc_roc", result.AUC),
		slog.Float64("f1", result.F1))

	return result, nil
}
