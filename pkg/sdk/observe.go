package segmenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "segmenter",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "segmenter",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("segmenter: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("segmenter: register metric: %w", err)
	}
	return nil
}

// Operation outcomes recorded in the status label.
const (
	statusOK      = "ok"
	statusInvalid = "invalid"
	statusError   = "error"
)

// outcome separates caller mistakes from failures of the model or cache.
func outcome(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrInvalidInput):
		return statusInvalid
	default:
		return statusError
	}
}

// observer logs and counts SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// withModel tags every log record with the artifact fingerprint.
func (o *observer) withModel(fingerprint string) {
	if o != nil && o.logger != nil {
		o.logger = o.logger.With(slog.String("model_fingerprint", fingerprint))
	}
}

func (o *observer) observe(ctx context.Context, op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.Duration("duration", dur),
	}
	switch status {
	case statusOK:
		o.logger.LogAttrs(ctx, slog.LevelDebug, "operation completed", attrs...)
	case statusInvalid:
		o.logger.LogAttrs(ctx, slog.LevelInfo, "operation rejected", append(attrs, slog.Any("error", err))...)
	default:
		o.logger.LogAttrs(ctx, slog.LevelWarn, "operation failed", append(attrs, slog.Any("error", err))...)
	}
}
