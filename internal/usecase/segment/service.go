package segment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/domain"
	"github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
	domseg "github.com/kailas-cloud/segmenter/internal/domain/segment"
	logpkg "github.com/kailas-cloud/segmenter/internal/logger"
)

// Service turns customer profiles into segment predictions.
type Service struct {
	predictor Predictor
	newID     func() string
	logger    *zap.Logger
}

// New creates a segment service.
func New(predictor Predictor, logger *zap.Logger) *Service {
	return &Service{
		predictor: predictor,
		newID:     uuid.NewString,
		logger:    logger,
	}
}

// WithIDGenerator overrides how prediction ids are generated.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	s.newID = fn
	return s
}

// Predict validates the profile, scores its feature row and looks up the segment.
func (s *Service) Predict(ctx context.Context, p customer.Profile) (domseg.Prediction, error) {
	if err := p.Validate(); err != nil {
		return domseg.Prediction{}, fmt.Errorf("validate profile: %w: %w", domain.ErrInvalidInput, err)
	}

	features := feature.Assemble(p)

	cluster, err := s.predictor.Predict(ctx, features)
	if err != nil {
		return domseg.Prediction{}, fmt.Errorf("predict segment: %w", err)
	}

	seg, err := domseg.Lookup(cluster)
	if err != nil {
		s.log(ctx).Error("Model returned a cluster without a label",
			zap.Int("cluster", cluster),
			zap.Error(err),
		)
		return domseg.Prediction{}, fmt.Errorf("lookup segment: %w", err)
	}

	fin, eng := s.Charts(p)
	pred := domseg.NewPrediction(s.newID(), seg, features, fin, eng)

	s.log(ctx).Debug("Segment predicted",
		zap.String("prediction_id", pred.ID()),
		zap.Int("cluster", seg.Cluster()),
	)
	return pred, nil
}

// Charts builds both proportion charts from raw profile values.
func (s *Service) Charts(p customer.Profile) (financial, engagement chart.Proportion) {
	return chart.Financial(p), chart.Engagement(p)
}

// Segments lists every known segment.
func (s *Service) Segments() []domseg.Segment {
	return domseg.All()
}

func (s *Service) log(ctx context.Context) *zap.Logger {
	return logpkg.FromContextOr(ctx, s.logger)
}
