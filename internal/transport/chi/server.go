package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/domain"
	domchart "github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	healthuc "github.com/kailas-cloud/segmenter/internal/usecase/health"
	segmentuc "github.com/kailas-cloud/segmenter/internal/usecase/segment"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the segmentation UI, chart images and JSON API.
type Server struct {
	segments      *segmentuc.Service
	health        *healthuc.Service
	charts        ChartOptions
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(
	segments *segmentuc.Service,
	health *healthuc.Service,
	charts ChartOptions,
	logger *zap.Logger,
) *Server {
	s := &Server{
		segments: segments,
		health:   health,
		charts:   charts,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrUnknownSegment, http.StatusInternalServerError, ErrorCodeUnknownSegment),
	}
	return s
}

// Register mounts every route on r. apiKeys guard /api/v1 only.
func (s *Server) Register(r chi.Router, apiKeys []string) {
	r.Get("/", s.Index)
	r.Post("/predict", s.PredictForm)
	r.Get("/charts/financial.svg", s.FinancialChart)
	r.Get("/charts/engagement.svg", s.EngagementChart)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiKeys))
		r.Post("/predict", s.PredictSegment)
		r.Get("/segments", s.ListSegments)
	})
}

// PredictSegment handles POST /api/v1/predict.
func (s *Server) PredictSegment(w http.ResponseWriter, r *http.Request) {
	req := newCustomerRequest(customer.Default())
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	pred, err := s.segments.Predict(r.Context(), req.profile())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionToResponse(pred))
}

// ListSegments handles GET /api/v1/segments.
func (s *Server) ListSegments(w http.ResponseWriter, _ *http.Request) {
	segs := s.segments.Segments()
	items := make([]SegmentResponse, len(segs))
	for i, seg := range segs {
		items[i] = segmentToResponse(seg)
	}
	writeJSON(w, http.StatusOK, SegmentListResponse{Items: items})
}

// FinancialChart handles GET /charts/financial.svg.
func (s *Server) FinancialChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, domchart.Financial)
}

// EngagementChart handles GET /charts/engagement.svg.
func (s *Server) EngagementChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, domchart.Engagement)
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, build func(customer.Profile) domchart.Proportion) {
	p, err := profileFromValues(r.URL.Query())
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := build(p)
	if c.Empty() {
		http.Error(w, c.Placeholder(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := renderChart(&buf, c, s.charts); err != nil {
		s.logger.Error("render chart", zap.String("chart", c.Name()), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
// Validation failures are caused by the caller, so their detail is returned as is.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidInput) {
		s.logger.Debug("validation failed", zap.Error(err))
	} else {
		s.logger.Error("prediction failed", zap.Error(err))
	}

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
