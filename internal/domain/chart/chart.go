// Package chart derives the proportion charts shown next to a prediction.
// Charts are built from raw, unscaled profile values.
package chart

import (
	"fmt"

	"github.com/kailas-cloud/segmenter/internal/domain/customer"
)

// Kind selects how a proportion chart is drawn.
type Kind string

const (
	// Donut is a ring chart.
	Donut Kind = "donut"
	// Pie is a filled pie chart.
	Pie Kind = "pie"
)

// Chart titles and placeholders.
const (
	FinancialTitle        = "Customer Financial Distribution"
	FinancialPlaceholder  = "Enter income or spending to view chart"
	EngagementTitle       = "Customer Engagement Breakdown"
	EngagementPlaceholder = "Enter engagement data to view chart"
)

// Slice is one labelled share of a proportion chart.
type Slice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// PercentText formats the share the way the chart labels it, e.g. "98.4%".
func (s Slice) PercentText() string {
	return fmt.Sprintf("%.1f%%", s.Percent)
}

// Proportion is a render-ready proportion chart.
type Proportion struct {
	name        string
	kind        Kind
	title       string
	placeholder string
	slices      []Slice
}

func newProportion(name string, kind Kind, title, placeholder string, labels []string, values []float64) Proportion {
	total := 0.0
	for _, v := range values {
		total += v
	}

	slices := make([]Slice, len(values))
	for i, v := range values {
		slices[i] = Slice{Label: labels[i], Value: v}
		if total > 0 {
			slices[i].Percent = v / total * 100
		}
	}

	return Proportion{
		name:        name,
		kind:        kind,
		title:       title,
		placeholder: placeholder,
		slices:      slices,
	}
}

// Financial splits income against total spending.
func Financial(p customer.Profile) Proportion {
	return newProportion("financial", Donut, FinancialTitle, FinancialPlaceholder,
		[]string{"Income", "Total Spending"},
		[]float64{p.Income, p.TotalSpending},
	)
}

// Engagement splits web purchases, store purchases and web visits.
func Engagement(p customer.Profile) Proportion {
	return newProportion("engagement", Pie, EngagementTitle, EngagementPlaceholder,
		[]string{"Web Purchases", "Store Purchases", "Web Visits"},
		[]float64{float64(p.WebPurchases), float64(p.StorePurchases), float64(p.WebVisits)},
	)
}

// Name returns the chart's URL-safe identifier.
func (c Proportion) Name() string { return c.name }

// Kind returns how the chart is drawn.
func (c Proportion) Kind() Kind { return c.kind }

// Title returns the chart title.
func (c Proportion) Title() string { return c.title }

// Placeholder returns the text shown instead of an empty chart.
func (c Proportion) Placeholder() string { return c.placeholder }

// Slices returns a copy of the chart slices.
func (c Proportion) Slices() []Slice {
	out := make([]Slice, len(c.slices))
	copy(out, c.slices)
	return out
}

// Total returns the sum of all slice values.
func (c Proportion) Total() float64 {
	total := 0.0
	for _, s := range c.slices {
		total += s.Value
	}
	return total
}

// Empty reports whether the chart has nothing to draw and the placeholder applies.
func (c Proportion) Empty() bool {
	return c.Total() <= 0
}
