package model

import (
	"fmt"

	"github.com/kailas-cloud/segmenter/internal/domain"
)

// StandardScaler is a fitted zero-mean / unit-variance transform.
type StandardScaler struct {
	names []string
	mean  []float64
	scale []float64
}

// NewStandardScaler validates fitted parameters. A zero scale is treated as 1,
// matching how constant columns are handled at fit time.
func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, fmt.Errorf("%w: scaler has no features", domain.ErrArtifact)
	}
	if len(scale) != len(mean) {
		return nil, fmt.Errorf("%w: scaler mean has %d values, scale has %d", domain.ErrArtifact, len(mean), len(scale))
	}
	if len(names) != 0 && len(names) != len(mean) {
		return nil, fmt.Errorf("%w: scaler names %d features, fitted %d", domain.ErrArtifact, len(names), len(mean))
	}

	s := &StandardScaler{
		names: append([]string(nil), names...),
		mean:  append([]float64(nil), mean...),
		scale: make([]float64, len(scale)),
	}
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// FeatureNames returns the column names the scaler was fitted with.
func (s *StandardScaler) FeatureNames() []string {
	return append([]string(nil), s.names...)
}

// Dim returns the number of input columns.
func (s *StandardScaler) Dim() int { return len(s.mean) }

// Transform scales every row; rows must have Dim columns.
func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(s.mean) {
			return nil, fmt.Errorf("%w: row %d has %d columns, scaler expects %d",
				domain.ErrFeatureMismatch, i, len(row), len(s.mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.mean[j]) / s.scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}
