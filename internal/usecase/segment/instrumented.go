package segment

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/domain/feature"
	domseg "github.com/kailas-cloud/segmenter/internal/domain/segment"
	"github.com/kailas-cloud/segmenter/internal/metrics"
)

// InstrumentedPredictor wraps a Predictor with latency, outcome metrics and logging.
// Cache hit/miss counting belongs to the cache decorator, not here.
type InstrumentedPredictor struct {
	inner    Predictor
	clusters *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration prometheus.Observer
	logger   *zap.Logger
}

// NewInstrumentedPredictor wraps a predictor with the package-level prediction metrics.
func NewInstrumentedPredictor(inner Predictor, logger *zap.Logger) *InstrumentedPredictor {
	return &InstrumentedPredictor{
		inner:    inner,
		clusters: metrics.PredictionsTotal,
		errors:   metrics.PredictionErrorsTotal,
		duration: metrics.PredictionDuration,
		logger:   logger,
	}
}

// Predict delegates to the inner predictor and records the outcome.
// Only labelled clusters are counted; anything else is a lookup error and is
// passed through for the service to reject.
func (p *InstrumentedPredictor) Predict(ctx context.Context, v feature.Vector) (int, error) {
	start := time.Now()
	cluster, err := p.inner.Predict(ctx, v)
	elapsed := time.Since(start)
	p.duration.Observe(elapsed.Seconds())

	if err != nil {
		p.errors.WithLabelValues("predict").Inc()
		p.logger.Error("Prediction failed",
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return 0, err
	}

	if _, err := domseg.Lookup(cluster); err != nil {
		p.errors.WithLabelValues("lookup").Inc()
		p.logger.Error("Prediction returned an unlabelled cluster",
			zap.Int("cluster", cluster),
			zap.Duration("latency", elapsed),
		)
		return cluster, nil
	}

	p.clusters.WithLabelValues(strconv.Itoa(cluster)).Inc()
	p.logger.Debug("Prediction completed",
		zap.Int("cluster", cluster),
		zap.Duration("latency", elapsed),
	)
	return cluster, nil
}
