package segment

import (
	"context"

	"github.com/kailas-cloud/segmenter/internal/domain/feature"
)

// Predictor maps a feature row to a cluster label (scaler then model).
type Predictor interface {
	Predict(ctx context.Context, v feature.Vector) (int, error)
}
