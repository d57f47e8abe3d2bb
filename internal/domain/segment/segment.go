package segment

import (
	"fmt"

	"github.com/kailas-cloud/segmenter/internal/domain"
)

// Segment is a customer cluster with its business meaning (immutable value object).
type Segment struct {
	cluster int
	label   string
	note    string
}

var segments = []Segment{
	{0, "Low Value – Price Sensitive", "Responds to discounts and deals; keep offers cheap to serve."},
	{1, "High Value – Loyal Customers", "Frequent, long-standing buyers; reward loyalty to retain them."},
	{2, "Low Engagement Customers", "Rarely visits or buys; churn risk worth an early win-back campaign."},
	{3, "Premium & High Spending Customers", "Highest spend per customer; target with premium assortments."},
}

// Lookup returns the segment for a cluster label.
// Labels outside the known map return ErrUnknownSegment.
func Lookup(cluster int) (Segment, error) {
	if cluster < 0 || cluster >= len(segments) {
		return Segment{}, fmt.Errorf("%w: cluster %d", domain.ErrUnknownSegment, cluster)
	}
	return segments[cluster], nil
}

// All returns every known segment ordered by cluster label.
func All() []Segment {
	out := make([]Segment, len(segments))
	copy(out, segments)
	return out
}

// Cluster returns the integer cluster label.
func (s Segment) Cluster() int { return s.cluster }

// Label returns the display string shown for the cluster.
func (s Segment) Label() string { return s.label }

// Note returns a one-line business interpretation.
func (s Segment) Note() string { return s.note }
