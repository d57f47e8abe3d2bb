package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction Prometheus metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segmenter",
			Name:      "predictions_total",
			Help:      "Total number of segment predictions by cluster",
		},
		[]string{"cluster"},
	)

	PredictionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segmenter",
			Name:      "prediction_errors_total",
			Help:      "Total prediction failures",
		},
		[]string{"stage"}, // "predict" / "lookup"
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segmenter",
			Name:      "prediction_duration_seconds",
			Help:      "Scaler plus model latency in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	PredictionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segmenter",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var predMetricsRegistered bool

// RegisterPredictionMetrics registers Prometheus prediction metrics. Must be called once from main.
func RegisterPredictionMetrics() {
	if predMetricsRegistered {
		return
	}
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(PredictionErrorsTotal)
	prometheus.MustRegister(PredictionDuration)
	prometheus.MustRegister(PredictionCacheTotal)
	predMetricsRegistered = true
}
