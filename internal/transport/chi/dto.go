package chi

import (
	"github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
	domseg "github.com/kailas-cloud/segmenter/internal/domain/segment"
)

// ErrorCode is a machine-readable API error code.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnknownSegment   ErrorCode = "unknown_segment"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CustomerRequest is the JSON form of a customer profile.
// Omitted fields keep the form defaults.
type CustomerRequest struct {
	Income           float64 `json:"income"`
	Age              int     `json:"age"`
	Recency          int     `json:"recency"`
	Tenure           int     `json:"customer_tenure"`
	TotalSpending    float64 `json:"total_spending"`
	TotalChildren    int     `json:"total_children"`
	DealsPurchases   int     `json:"deals_purchases"`
	WebPurchases     int     `json:"web_purchases"`
	CatalogPurchases int     `json:"catalog_purchases"`
	StorePurchases   int     `json:"store_purchases"`
	WebVisits        int     `json:"web_visits_month"`
	Education        string  `json:"education"`
	LivingWith       string  `json:"living_with"`
	Complain         int     `json:"complain"`
	Response         int     `json:"response"`
}

// FeatureValue is one named column of the scored feature row.
type FeatureValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ChartResponse describes a proportion chart.
type ChartResponse struct {
	Name        string        `json:"name"`
	Kind        string        `json:"kind"`
	Title       string        `json:"title"`
	Empty       bool          `json:"empty"`
	Placeholder string        `json:"placeholder,omitempty"`
	Slices      []chart.Slice `json:"slices"`
}

// ChartsResponse groups both prediction charts.
type ChartsResponse struct {
	Financial  ChartResponse `json:"financial"`
	Engagement ChartResponse `json:"engagement"`
}

// PredictionResponse is the body of a successful prediction.
type PredictionResponse struct {
	ID       string         `json:"id"`
	Cluster  int            `json:"cluster"`
	Label    string         `json:"label"`
	Note     string         `json:"note"`
	Features []FeatureValue `json:"features"`
	Charts   ChartsResponse `json:"charts"`
}

// SegmentResponse describes one customer segment.
type SegmentResponse struct {
	Cluster int    `json:"cluster"`
	Label   string `json:"label"`
	Note    string `json:"note"`
}

// SegmentListResponse lists every segment.
type SegmentListResponse struct {
	Items []SegmentResponse `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func newCustomerRequest(p customer.Profile) CustomerRequest {
	return CustomerRequest{
		Income:           p.Income,
		Age:              p.Age,
		Recency:          p.Recency,
		Tenure:           p.Tenure,
		TotalSpending:    p.TotalSpending,
		TotalChildren:    p.TotalChildren,
		DealsPurchases:   p.DealsPurchases,
		WebPurchases:     p.WebPurchases,
		CatalogPurchases: p.CatalogPurchases,
		StorePurchases:   p.StorePurchases,
		WebVisits:        p.WebVisits,
		Education:        string(p.Education),
		LivingWith:       string(p.Living),
		Complain:         p.Complain,
		Response:         p.Response,
	}
}

func (r CustomerRequest) profile() customer.Profile {
	return customer.Profile{
		Income:           r.Income,
		Age:              r.Age,
		Recency:          r.Recency,
		Tenure:           r.Tenure,
		TotalSpending:    r.TotalSpending,
		TotalChildren:    r.TotalChildren,
		DealsPurchases:   r.DealsPurchases,
		WebPurchases:     r.WebPurchases,
		CatalogPurchases: r.CatalogPurchases,
		StorePurchases:   r.StorePurchases,
		WebVisits:        r.WebVisits,
		Education:        customer.Education(r.Education),
		Living:           customer.LivingStatus(r.LivingWith),
		Complain:         r.Complain,
		Response:         r.Response,
	}
}

func predictionToResponse(p domseg.Prediction) PredictionResponse {
	names := feature.Names()
	values := p.Features().Values()
	features := make([]FeatureValue, len(values))
	for i, v := range values {
		features[i] = FeatureValue{Name: names[i], Value: v}
	}

	return PredictionResponse{
		ID:       p.ID(),
		Cluster:  p.Segment().Cluster(),
		Label:    p.Segment().Label(),
		Note:     p.Segment().Note(),
		Features: features,
		Charts: ChartsResponse{
			Financial:  chartToResponse(p.Financial()),
			Engagement: chartToResponse(p.Engagement()),
		},
	}
}

func chartToResponse(c chart.Proportion) ChartResponse {
	resp := ChartResponse{
		Name:   c.Name(),
		Kind:   string(c.Kind()),
		Title:  c.Title(),
		Empty:  c.Empty(),
		Slices: c.Slices(),
	}
	if c.Empty() {
		resp.Placeholder = c.Placeholder()
	}
	return resp
}

func segmentToResponse(s domseg.Segment) SegmentResponse {
	return SegmentResponse{Cluster: s.Cluster(), Label: s.Label(), Note: s.Note()}
}
