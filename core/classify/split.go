package classify

import (
	"math"
	"math/rand"

	"github.com/lungmap/radpipe/model"
)

// Split shuffles the samples with a seeded generator and splits off a
// held-out test set. The split is deterministic for a given seed and
// input order. Both halves are guaranteed non-empty for len(samples) >= 2.
func Split(samples []model.Sample, testFraction float64, seed int64) (train, test []model.Sample) {
	rng := rand.New(rand.NewSource(seed))

	shuffled := make([]model.Sample, len(samples))
	for i, j := range rng.Perm(len(samples)) {
		shuffled[i] = samples[j]
	}

	numTest := int(math.Round(testFraction * float64(len(samples))))
	if numTest < 1 {
		numTest = 1
	}
	if numTest >= len(samples) {
		numTest = len(samples) - 1
	}

	return shuffled[numTest:], shuffled[:numTest]
}
