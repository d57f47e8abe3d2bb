package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/segmenter/internal/domain"
)

// Artifact kinds.
const (
	KindStandardScaler = "standard_scaler"
	KindKMeans         = "kmeans"
)

// ScalerArtifact is the on-disk form of a fitted StandardScaler.
type ScalerArtifact struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// ModelArtifact is the on-disk form of a fitted KMeans model.
type ModelArtifact struct {
	Kind           string      `json:"kind"`
	ClusterCenters [][]float64 `json:"cluster_centers"`
}

// ParseScaler decodes and validates a scaler artifact.
func ParseScaler(data []byte) (*StandardScaler, error) {
	var a ScalerArtifact
	if err := decodeStrict(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode scaler: %w", domain.ErrArtifact, err)
	}
	if a.Kind != KindStandardScaler {
		return nil, fmt.Errorf("%w: unsupported scaler kind %q", domain.ErrArtifact, a.Kind)
	}
	return NewStandardScaler(a.FeatureNames, a.Mean, a.Scale)
}

// ParseModel decodes and validates a cluster model artifact.
func ParseModel(data []byte) (*KMeans, error) {
	var a ModelArtifact
	if err := decodeStrict(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode model: %w", domain.ErrArtifact, err)
	}
	if a.Kind != KindKMeans {
		return nil, fmt.Errorf("%w: unsupported model kind %q", domain.ErrArtifact, a.Kind)
	}
	return NewKMeans(a.ClusterCenters)
}

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrArtifact, path, err)
	}
	return data, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}
