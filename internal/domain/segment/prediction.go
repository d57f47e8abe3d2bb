package segment

import (
	"github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
)

// Prediction is the outcome of one predict interaction (immutable value object).
type Prediction struct {
	id         string
	segment    Segment
	features   feature.Vector
	financial  chart.Proportion
	engagement chart.Proportion
}

// NewPrediction assembles a prediction.
func NewPrediction(
	id string, seg Segment, features feature.Vector,
	financial, engagement chart.Proportion,
) Prediction {
	return Prediction{
		id:         id,
		segment:    seg,
		features:   features,
		financial:  financial,
		engagement: engagement,
	}
}

// ID returns the prediction identifier.
func (p Prediction) ID() string { return p.id }

// Segment returns the predicted segment.
func (p Prediction) Segment() Segment { return p.segment }

// Features returns the feature row that was scored.
func (p Prediction) Features() feature.Vector { return p.features }

// Financial returns the income vs spending chart.
func (p Prediction) Financial() chart.Proportion { return p.financial }

// Engagement returns the purchases vs visits chart.
func (p Prediction) Engagement() chart.Proportion { return p.engagement }
