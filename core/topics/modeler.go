// Package topics assigns per-report probability distributions over latent
// topics by clustering report embeddings.
package topics

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/lungmap/radpipe/helper"
)

const defaultMaxIterations = 100

// Modeler clusters report embeddings with k-means and turns centroid
// distances into soft topic assignments. Runs are deterministic for a
// given seed and input order.
type Modeler struct {
	numTopics     int
	seed          int64
	maxIterations int
}

// NewModeler creates a topic modeler with the given number of topics.
func NewModeler(numTopics int, seed int64) *Modeler {
	return &Modeler{
		numTopics:     numTopics,
		seed:          seed,
		maxIterations: defaultMaxIterations,
	}
}

// FitTransform clusters the embeddings and returns, per document id, a
// probability vector over topics. Each vector sums to 1. When fewer
// documents than topics are given, the topic count is lowered to the
// document count.
func (m *Modeler) FitTransform(docIDs []string, embeddings [][]float32) (map[string][]float64, error) {
	if len(docIDs) != len(embeddings) {
		return nil, helper.NewError("assign topics", fmt.Errorf("%d ids for %d embeddings", len(docIDs), len(embeddings)))
	}
	if len(embeddings) == 0 {
		return map[string][]float64{}, nil
	}

	points := make([][]float64, len(embeddings))
	for i, embedding := range embeddings {
		points[i] = make([]float64, len(embedding))
		for j, v := range embedding {
			points[i][j] = float64(v)
		}
		if len(points[i]) != len(points[0]) {
			return nil, helper.NewError("assign topics", fmt.Errorf("embedding %d has dimension %d, want %d", i, len(points[i]), len(points[0])))
		}
	}

	k := m.numTopics
	if k > len(points) {
		k = len(points)
	}

	centroids := m.fit(points, k)

	assignments := make(map[string][]float64, len(docIDs))
	for i, id := range docIDs {
		assignments[id] = softAssign(points[i], centroids)
	}
	return assignments, nil
}

// fit runs Lloyd's algorithm with k-means++ seeding.
func (m *Modeler) fit(points [][]float64, k int) [][]float64 {
	rng := rand.New(rand.NewSource(m.seed))
	centroids := seedCentroids(points, k, rng)
	assignment := make([]int, len(points))

	for iter := 0; iter < m.maxIterations; iter++ {
		changed := false
		for i, point := range points {
			best := nearestCentroid(point, centroids)
			if best != assignment[i] {
				assignment[i] = best
				changed = true
			}
		}

		// Recompute centroids; empty clusters are reseeded to a random point.
		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, len(points[0]))
		}
		for i, point := range points {
			c := assignment[i]
			counts[c]++
			floats.Add(next[c], point)
		}
		for c := range next {
			if counts[c] == 0 {
				copy(next[c], points[rng.Intn(len(points))])
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c])
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	return centroids
}

// seedCentroids picks initial centroids with k-means++ weighting.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := make([]float64, len(points[0]))
	copy(first, points[rng.Intn(len(points))])
	centroids = append(centroids, first)

	for len(centroids) < k {
		weights := make([]float64, len(points))
		total := 0.0
		for i, point := range points {
			d := math.Inf(1)
			for _, centroid := range centroids {
				if dist := floats.Distance(point, centroid, 2); dist < d {
					d = dist
				}
			}
			weights[i] = d * d
			total += weights[i]
		}

		var next []float64
		if total == 0 {
			next = points[rng.Intn(len(points))]
		} else {
			target := rng.Float64() * total
			cumulative := 0.0
			next = points[len(points)-1]
			for i, w := range weights {
				cumulative += w
				if cumulative >= target {
					next = points[i]
					break
				}
			}
		}

		centroid := make([]float64, len(next))
		copy(centroid, next)
		centroids = append(centroids, centroid)
	}

	return centroids
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if dist := floats.Distance(point, centroid, 2); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// softAssign turns centroid distances into a probability vector via a
// softmax over negative distances.
func softAssign(point []float64, centroids [][]float64) []float64 {
	scores := make([]float64, len(centroids))
	maxScore := math.Inf(-1)
	for c, centroid := range centroids {
		scores[c] = -floats.Distance(point, centroid, 2)
		if scores[c] > maxScore {
			maxScore = scores[c]
		}
	}

	total := 0.0
	for c := range scores {
		scores[c] = math.Exp(scores[c] - maxScore)
		total += scores[c]
	}
	for c := range scores {
		scores[c] /= total
	}
	return scores
}
