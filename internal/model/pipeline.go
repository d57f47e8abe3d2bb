// Package model loads the fitted scaler and cluster model and chains them
// into a single predictor. Both artifacts are read once and never mutated.
package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kailas-cloud/segmenter/internal/domain"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
)

// Pipeline runs scaler.transform then model.predict on one feature row.
type Pipeline struct {
	scaler      *StandardScaler
	model       *KMeans
	fingerprint string
}

// NewPipeline checks that the scaler declares the expected feature order and
// that both artifacts agree on the vector width.
func NewPipeline(scaler *StandardScaler, km *KMeans, fingerprint string) (*Pipeline, error) {
	if err := feature.CheckOrder(scaler.FeatureNames()); err != nil {
		return nil, fmt.Errorf("scaler features: %w", err)
	}
	if scaler.Dim() != km.Dim() {
		return nil, fmt.Errorf("%w: scaler outputs %d columns, model expects %d",
			domain.ErrArtifact, scaler.Dim(), km.Dim())
	}
	return &Pipeline{scaler: scaler, model: km, fingerprint: fingerprint}, nil
}

// Load reads both artifacts from disk and builds a Pipeline.
func Load(scalerPath, modelPath string) (*Pipeline, error) {
	scalerData, err := readArtifact(scalerPath)
	if err != nil {
		return nil, err
	}
	modelData, err := readArtifact(modelPath)
	if err != nil {
		return nil, err
	}

	scaler, err := ParseScaler(scalerData)
	if err != nil {
		return nil, fmt.Errorf("load scaler %s: %w", scalerPath, err)
	}
	km, err := ParseModel(modelData)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelPath, err)
	}

	return NewPipeline(scaler, km, Fingerprint(scalerData, modelData))
}

// Fingerprint identifies an artifact pair by content.
func Fingerprint(scalerData, modelData []byte) string {
	h := sha256.New()
	h.Write(scalerData)
	h.Write([]byte{0})
	h.Write(modelData)
	return hex.EncodeToString(h.Sum(nil))
}

// Predict scales one feature row and returns the first predicted cluster label.
func (p *Pipeline) Predict(_ context.Context, v feature.Vector) (int, error) {
	scaled, err := p.scaler.Transform([][]float64{v.Values()})
	if err != nil {
		return 0, fmt.Errorf("scale features: %w", err)
	}
	labels, err := p.model.Predict(scaled)
	if err != nil {
		return 0, fmt.Errorf("predict cluster: %w", err)
	}
	return labels[0], nil
}

// Fingerprint returns the content hash of the loaded artifacts.
func (p *Pipeline) Fingerprint() string { return p.fingerprint }

// Clusters returns the number of clusters the model can emit.
func (p *Pipeline) Clusters() int { return p.model.K() }

// HealthCheck always succeeds once the artifacts are loaded.
func (p *Pipeline) HealthCheck(_ context.Context) error {
	if p.scaler == nil || p.model == nil {
		return fmt.Errorf("%w: pipeline not loaded", domain.ErrArtifact)
	}
	return nil
}
