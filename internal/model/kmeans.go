package model

import (
	"fmt"

	"github.com/kailas-cloud/segmenter/internal/domain"
)

// KMeans assigns points to the nearest of a fixed set of fitted centroids.
type KMeans struct {
	centroids [][]float64
}

// NewKMeans validates fitted centroids: at least one, all the same width.
func NewKMeans(centroids [][]float64) (*KMeans, error) {
	if len(centroids) == 0 {
		return nil, fmt.Errorf("%w: model has no cluster centers", domain.ErrArtifact)
	}
	dim := len(centroids[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: cluster centers are empty", domain.ErrArtifact)
	}

	cs := make([][]float64, len(centroids))
	for k, c := range centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("%w: center %d has %d values, want %d", domain.ErrArtifact, k, len(c), dim)
		}
		cs[k] = append([]float64(nil), c...)
	}
	return &KMeans{centroids: cs}, nil
}

// K returns the number of clusters.
func (m *KMeans) K() int { return len(m.centroids) }

// Dim returns the width of each centroid.
func (m *KMeans) Dim() int { return len(m.centroids[0]) }

// Predict returns the nearest-centroid label for each row.
// Ties go to the lowest cluster index, including rows so far out that every
// distance overflows to +Inf.
func (m *KMeans) Predict(X [][]float64) ([]int, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("%w: no rows to predict", domain.ErrFeatureMismatch)
	}

	labels := make([]int, len(X))
	for i, row := range X {
		if len(row) != m.Dim() {
			return nil, fmt.Errorf("%w: row %d has %d columns, model expects %d",
				domain.ErrFeatureMismatch, i, len(row), m.Dim())
		}
		best, bestDist := 0, euclidSquared(row, m.centroids[0])
		for k := 1; k < len(m.centroids); k++ {
			if d := euclidSquared(row, m.centroids[k]); d < bestDist {
				best, bestDist = k, d
			}
		}
		labels[i] = best
	}
	return labels, nil
}

func euclidSquared(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
