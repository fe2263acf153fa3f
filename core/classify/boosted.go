package classify

import (
	"fmt"
	"math"
	"sort"

	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
)

// stump is a one-split regression tree on a single feature.
type stump struct {
	feature   int
	threshold float64
	left      float64 // value when feature < threshold
	right     float64
}

func (s *stump) predict(features []float64) float64 {
	if features[s.feature] < s.threshold {
		return s.left
	}
	return s.right
}

// BoostedStumps is a gradient-boosted ensemble of depth-1 regression trees
// minimizing binary log-loss, with Newton leaf updates.
type BoostedStumps struct {
	rounds       int
	learningRate float64

	base   float64
	stumps []stump
}

// NewBoostedStumps creates a boosted-stump classifier.
func NewBoostedStumps(rounds int, learningRate float64) *BoostedStumps {
	return &BoostedStumps{
		rounds:       rounds,
		learningRate: learningRate,
	}
}

// Name implements Classifier.
func (b *BoostedStumps) Name() string { return "boosted" }

// Fit trains the ensemble on the given samples.
func (b *BoostedStumps) Fit(samples []model.Sample) error {
	if len(samples) == 0 {
		return helper.NewError("fit boosted stumps", fmt.Errorf("no training samples"))
	}
	dim := len(samples[0].Features)

	// Base score: log-odds of the positive class.
	positives := 0
	for _, sample := range samples {
		if sample.Label == 1 {
			positives++
		}
	}
	p := (float64(positives) + 0.5) / (float64(len(samples)) + 1)
	b.base = math.Log(p / (1 - p))
	b.stumps = nil

	scores := make([]float64, len(samples))
	for i := range scores {
		scores[i] = b.base
	}

	gradients := make([]float64, len(samples))
	hessians := make([]float64, len(samples))

	for round := 0; round < b.rounds; round++ {
		for i, sample := range samples {
			prob := sigmoid(scores[i])
			gradients[i] = float64(sample.Label) - prob
			hessians[i] = prob * (1 - prob)
		}

		best, ok := bestStump(samples, gradients, hessians, dim)
		if !ok {
			break
		}

		best.left *= b.learningRate
		best.right *= b.learningRate
		b.stumps = append(b.stumps, best)

		for i, sample := range samples {
			scores[i] += best.predict(sample.Features)
		}
	}

	return nil
}

// Predict returns the positive-class probability for a feature vector.
func (b *BoostedStumps) Predict(features []float64) float64 {
	score := b.base
	for i := range b.stumps {
		score += b.stumps[i].predict(features)
	}
	return sigmoid(score)
}

// bestStump greedily picks the (feature, threshold) split maximizing the
// Newton gain, with leaf values grad/hess per side.
func bestStump(samples []model.Sample, gradients, hessians []float64, dim int) (stump, bool) {
	const eps = 1e-9

	var totalGrad, totalHess float64
	for i := range gradients {
		totalGrad += gradients[i]
		totalHess += hessians[i]
	}

	bestGain := eps
	var best stump
	found := false

	order := make([]int, len(samples))
	for feature := 0; feature < dim; feature++ {
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, c int) bool {
			return samples[order[a]].Features[feature] < samples[order[c]].Features[feature]
		})

		var leftGrad, leftHess float64
		for pos := 0; pos < len(order)-1; pos++ {
			i := order[pos]
			leftGrad += gradients[i]
			leftHess += hessians[i]

			current := samples[i].Features[feature]
			next := samples[order[pos+1]].Features[feature]
			if current == next {
				continue
			}

			rightGrad := totalGrad - leftGrad
			rightHess := totalHess - leftHess
			gain := leftGrad*leftGrad/(leftHess+eps) +
				rightGrad*rightGrad/(rightHess+eps) -
				totalGrad*totalGrad/(totalHess+eps)

			if gain > bestGain {
				bestGain = gain
				best = stump{
					feature:   feature,
					threshold: (current + next) / 2,
					left:      leftGrad / (leftHess + eps),
					right:     rightGrad / (rightHess + eps),
				}
				found = true
			}
		}
	}

	return best, found
}
