package segmenter

import (
	"github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	"github.com/kailas-cloud/segmenter/internal/domain/feature"
	domseg "github.com/kailas-cloud/segmenter/internal/domain/segment"
)

// Education is a customer's education level.
type Education = customer.Education

// Education levels.
const (
	Graduate      = customer.Graduate
	Postgraduate  = customer.Postgraduate
	Undergraduate = customer.Undergraduate
)

// LivingStatus tells whether a customer lives alone or with a partner.
type LivingStatus = customer.LivingStatus

// Living statuses.
const (
	Partner = customer.Partner
	Alone   = customer.Alone
)

// Customer holds the raw attributes of one customer.
type Customer struct {
	Income           float64
	Age              int
	Recency          int // days since last purchase
	Tenure           int // days as a customer
	TotalSpending    float64
	TotalChildren    int
	DealsPurchases   int
	WebPurchases     int
	CatalogPurchases int
	StorePurchases   int
	WebVisits        int // per month
	Education        Education
	Living           LivingStatus
	Complain         int // 0 or 1
	Response         int // 0 or 1
}

// DefaultCustomer returns the values the input form starts with.
func DefaultCustomer() Customer {
	return customerFromProfile(customer.Default())
}

// Feature is one named column of the scored feature row.
type Feature struct {
	Name  string
	Value float64
}

// Slice is one labelled share of a chart.
type Slice struct {
	Label   string
	Value   float64
	Percent float64
}

// Chart is a proportion chart derived from raw customer values.
type Chart struct {
	Name        string
	Kind        string // "donut" or "pie"
	Title       string
	Empty       bool
	Placeholder string
	Slices      []Slice
}

// Segment is a customer cluster with its business meaning.
type Segment struct {
	Cluster int
	Label   string
	Note    string
}

// Prediction is the result of scoring one customer.
type Prediction struct {
	ID         string
	Segment    Segment
	Features   []Feature
	Financial  Chart
	Engagement Chart
}

func (c Customer) profile() customer.Profile {
	return customer.Profile{
		Income:           c.Income,
		Age:              c.Age,
		Recency:          c.Recency,
		Tenure:           c.Tenure,
		TotalSpending:    c.TotalSpending,
		TotalChildren:    c.TotalChildren,
		DealsPurchases:   c.DealsPurchases,
		WebPurchases:     c.WebPurchases,
		CatalogPurchases: c.CatalogPurchases,
		StorePurchases:   c.StorePurchases,
		WebVisits:        c.WebVisits,
		Education:        c.Education,
		Living:           c.Living,
		Complain:         c.Complain,
		Response:         c.Response,
	}
}

func customerFromProfile(p customer.Profile) Customer {
	return Customer{
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
		Education:        p.Education,
		Living:           p.Living,
		Complain:         p.Complain,
		Response:         p.Response,
	}
}

func segmentFromDomain(s domseg.Segment) Segment {
	return Segment{Cluster: s.Cluster(), Label: s.Label(), Note: s.Note()}
}

func chartFromDomain(c chart.Proportion) Chart {
	out := Chart{
		Name:   c.Name(),
		Kind:   string(c.Kind()),
		Title:  c.Title(),
		Empty:  c.Empty(),
		Slices: make([]Slice, 0, len(c.Slices())),
	}
	if c.Empty() {
		out.Placeholder = c.Placeholder()
	}
	for _, s := range c.Slices() {
		out.Slices = append(out.Slices, Slice{Label: s.Label, Value: s.Value, Percent: s.Percent})
	}
	return out
}

func predictionFromDomain(p domseg.Prediction) Prediction {
	names := feature.Names()
	values := p.Features().Values()
	features := make([]Feature, len(values))
	for i, v := range values {
		features[i] = Feature{Name: names[i], Value: v}
	}
	return Prediction{
		ID:         p.ID(),
		Segment:    segmentFromDomain(p.Segment()),
		Features:   features,
		Financial:  chartFromDomain(p.Financial()),
		Engagement: chartFromDomain(p.Engagement()),
	}
}
