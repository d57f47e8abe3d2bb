package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domchart "github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
	healthuc "github.com/kailas-cloud/segmenter/internal/usecase/health"
	segmentuc "github.com/kailas-cloud/segmenter/internal/usecase/segment"
)

// --- Stubs ---

type stubPredictor struct {
	cluster int
	err     error
	calls   int
}

func (p *stubPredictor) Predict(_ context.Context, _ feature.Vector) (int, error) {
	p.calls++
	return p.cluster, p.err
}

type stubModel struct {
	err error
}

func (m *stubModel) HealthCheck(_ context.Context) error { return m.err }

func newTestServer(t *testing.T, pred *stubPredictor) (*Server, *stubPredictor) {
	t.Helper()
	return newTestServerWithModel(t, pred, &stubModel{}), pred
}

func newTestServerWithModel(t *testing.T, pred *stubPredictor, model *stubModel) *Server {
	t.Helper()
	segments := segmentuc.New(pred, zap.NewNop()).WithIDGenerator(func() string { return "test-id" })
	health := healthuc.New(model, nil)
	return NewServer(segments, health, ChartOptions{Width: 320, Height: 320}, zap.NewNop())
}

func newTestRouter(s *Server, apiKeys []string) http.Handler {
	r := chi.NewRouter()
	s.Register(r, apiKeys)
	return r
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func exampleForm() url.Values {
	return url.Values{
		"income":            {"50000"},
		"age":               {"35"},
		"recency":           {"20"},
		"customer_tenure":   {"400"},
		"total_spending":    {"800"},
		"total_children":    {"1"},
		"deals_purchases":   {"2"},
		"web_purchases":     {"5"},
		"catalog_purchases": {"1"},
		"store_purchases":   {"3"},
		"web_visits_month":  {"10"},
		"education":         {"Postgraduate"},
		"living_with":       {"Alone"},
		"complain":          {"0"},
		"response":          {"1"},
	}
}

// --- UI ---

func TestIndex_RendersDefaults(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	rr := get(newTestRouter(srv, nil), "/")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q", ct)
	}

	body := rr.Body.String()
	for _, want := range []string{
		"SmartCart Customer Segmentation System",
		"Cluster Meaning (Business View)",
		"Premium &amp; High Spending Customers",
		"Why this matters?",
		"Identifies churn-risk customers early",
		domchart.FinancialPlaceholder,
		domchart.EngagementPlaceholder,
		`name="age" min="18" value="18"`,
		`value="Graduate" checked`,
		`value="Partner" checked`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "Predicted Cluster") {
		t.Error("index must not show a result card")
	}
}

func TestPredictForm_Success(t *testing.T) {
	pred := &stubPredictor{cluster: 1}
	srv, _ := newTestServer(t, pred)
	rr := postForm(newTestRouter(srv, nil), exampleForm())

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	body := rr.Body.String()
	for _, want := range []string{
		"Predicted Cluster: <b>1</b>",
		"High Value – Loyal Customers",
		"/charts/financial.svg?income=50000&amp;total_spending=800",
		"/charts/engagement.svg?",
		`value="Postgraduate" checked`,
		`value="Alone" checked`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, domchart.FinancialPlaceholder) {
		t.Error("financial placeholder must not show when income is set")
	}
	if pred.calls != 1 {
		t.Errorf("expected 1 prediction, got %d", pred.calls)
	}
}

func TestPredictForm_ZeroValuesShowPlaceholders(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{cluster: 2})
	form := exampleForm()
	for _, k := range []string{"income", "total_spending", "web_purchases", "store_purchases", "web_visits_month"} {
		form.Set(k, "0")
	}
	rr := postForm(newTestRouter(srv, nil), form)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, domchart.FinancialPlaceholder) {
		t.Error("expected financial placeholder")
	}
	if !strings.Contains(body, domchart.EngagementPlaceholder) {
		t.Error("expected engagement placeholder")
	}
	if !strings.Contains(body, "Low Engagement Customers") {
		t.Error("expected cluster 2 label")
	}
}

func TestPredictForm_InvalidAge(t *testing.T) {
	pred := &stubPredictor{}
	srv, _ := newTestServer(t, pred)
	form := exampleForm()
	form.Set("age", "12")
	rr := postForm(newTestRouter(srv, nil), form)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rr.Body.String(), "age must be at least 18") {
		t.Error("expected age validation message")
	}
	if pred.calls != 0 {
		t.Error("predictor must not run on invalid input")
	}
}

func TestPredictForm_NotANumber(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	form := exampleForm()
	form.Set("income", "lots")
	rr := postForm(newTestRouter(srv, nil), form)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rr.Body.String(), `value="lots"`) {
		t.Error("rejected form should keep what was typed")
	}
}

func TestPredictForm_UnknownCluster(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{cluster: 9})
	rr := postForm(newTestRouter(srv, nil), exampleForm())

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rr.Body.String(), "internal error") {
		t.Error("expected generic error message")
	}
}

// --- JSON API ---

func TestPredictSegment_Success(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{cluster: 3})
	rr := postJSON(newTestRouter(srv, nil), `{"income": 90000, "total_spending": 2500, "web_purchases": 4, "education": "Graduate", "living_with": "Partner"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp PredictionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "test-id" || resp.Cluster != 3 || resp.Label != "Premium & High Spending Customers" {
		t.Errorf("unexpected prediction: %+v", resp)
	}
	if len(resp.Features) != feature.Len {
		t.Fatalf("expected %d features, got %d", feature.Len, len(resp.Features))
	}
	if resp.Features[0].Name != feature.Income || resp.Features[0].Value != 90000 {
		t.Errorf("first feature: got %+v", resp.Features[0])
	}
	if resp.Charts.Financial.Empty || len(resp.Charts.Financial.Slices) != 2 {
		t.Errorf("financial chart: got %+v", resp.Charts.Financial)
	}
	if resp.Charts.Engagement.Slices[0].Percent != 100 {
		t.Errorf("web purchases share: got %v", resp.Charts.Engagement.Slices[0].Percent)
	}
}

func TestPredictSegment_DefaultsAndPlaceholder(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{cluster: 0})
	rr := postJSON(newTestRouter(srv, nil), `{}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp PredictionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Charts.Financial.Empty || resp.Charts.Financial.Placeholder != domchart.FinancialPlaceholder {
		t.Errorf("expected financial placeholder, got %+v", resp.Charts.Financial)
	}
}

func TestPredictSegment_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	rr := postJSON(newTestRouter(srv, nil), `{"income": `)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if code := decodeError(t, rr).Code; code != ErrorCodeBadRequest {
		t.Errorf("code: got %s, want %s", code, ErrorCodeBadRequest)
	}
}

func TestPredictSegment_ValidationFailed(t *testing.T) {
	pred := &stubPredictor{}
	srv, _ := newTestServer(t, pred)
	rr := postJSON(newTestRouter(srv, nil), `{"education": "PhD"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	resp := decodeError(t, rr)
	if resp.Code != ErrorCodeValidationFailed {
		t.Errorf("code: got %s, want %s", resp.Code, ErrorCodeValidationFailed)
	}
	if !strings.Contains(resp.Message, "education") {
		t.Errorf("message should name the field, got %q", resp.Message)
	}
	if pred.calls != 0 {
		t.Error("predictor must not run on invalid input")
	}
}

func TestPredictSegment_UnknownSegment(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{cluster: 4})
	rr := postJSON(newTestRouter(srv, nil), `{}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	resp := decodeError(t, rr)
	if resp.Code != ErrorCodeUnknownSegment || resp.Message != "internal error" {
		t.Errorf("got %+v", resp)
	}
}

func TestPredictSegment_PredictorError(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{err: errors.New("scaler: dimension mismatch")})
	rr := postJSON(newTestRouter(srv, nil), `{}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	resp := decodeError(t, rr)
	if resp.Code != ErrorCodeInternalError {
		t.Errorf("code: got %s, want %s", resp.Code, ErrorCodeInternalError)
	}
	if strings.Contains(resp.Message, "scaler") {
		t.Error("internal details must not leak to the client")
	}
}

func TestPredictSegment_RequiresToken(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	h := newTestRouter(srv, []string{"secret"})

	if rr := postJSON(h, `{}`); rr.Code != http.StatusUnauthorized {
		t.Errorf("without token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest("POST", "/api/v1/predict", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("with token: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestListSegments(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	rr := get(newTestRouter(srv, nil), "/api/v1/segments")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp SegmentListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(resp.Items))
	}
	for i, item := range resp.Items {
		if item.Cluster != i || item.Label == "" {
			t.Errorf("segment %d: got %+v", i, item)
		}
	}
	if resp.Items[0].Label != "Low Value – Price Sensitive" {
		t.Errorf("cluster 0 label: got %q", resp.Items[0].Label)
	}
}

// --- Charts ---

func TestFinancialChart_SVG(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	rr := get(newTestRouter(srv, nil), "/charts/financial.svg?income=50000&total_spending=800")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type: got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Error("expected an SVG document")
	}
}

func TestEngagementChart_SVG(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	rr := get(newTestRouter(srv, nil), "/charts/engagement.svg?web_purchases=5&store_purchases=0&web_visits_month=10")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "<svg") {
		t.Error("expected an SVG document")
	}
}

func TestChart_EmptyReturnsPlaceholder(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	h := newTestRouter(srv, nil)

	cases := map[string]string{
		"/charts/financial.svg":  domchart.FinancialPlaceholder,
		"/charts/engagement.svg": domchart.EngagementPlaceholder,
	}
	for target, placeholder := range cases {
		rr := get(h, target)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: got %d, want %d", target, rr.Code, http.StatusNotFound)
		}
		if !strings.Contains(rr.Body.String(), placeholder) {
			t.Errorf("%s: expected placeholder, got %q", target, rr.Body.String())
		}
	}
}

func TestChart_InvalidQuery(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	h := newTestRouter(srv, nil)

	for _, target := range []string{
		"/charts/financial.svg?income=abc",
		"/charts/financial.svg?income=-1",
	} {
		if rr := get(h, target); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want %d", target, rr.Code, http.StatusBadRequest)
		}
	}
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, &stubPredictor{})
	rr := get(newTestRouter(srv, nil), "/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["model"] != "ok" {
		t.Errorf("got %+v", resp)
	}
}

func TestHealthCheck_ModelDown(t *testing.T) {
	srv := newTestServerWithModel(t, &stubPredictor{}, &stubModel{err: errors.New("not loaded")})
	rr := get(newTestRouter(srv, nil), "/health")

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
