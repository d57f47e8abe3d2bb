// Package feature assembles the model input row from a customer profile.
//
// The column order is fixed and must match the order the scaler was fitted
// with; CheckOrder verifies an artifact's declared names against it.
package feature

import (
	"fmt"

	"github.com/kailas-cloud/segmenter/internal/domain"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
)

// Column names in scaler order.
const (
	Income                 = "Income"
	Recency                = "Recency"
	DealsPurchases         = "NumDealsPurchases"
	WebPurchases           = "NumWebPurchases"
	CatalogPurchases       = "NumCatalogPurchases"
	StorePurchases         = "NumStorePurchases"
	WebVisits              = "NumWebVisitsMonth"
	Complain               = "Complain"
	Response               = "Response"
	Age                    = "Age"
	Tenure                 = "Customer_Tenure"
	TotalSpending          = "Total_Spending"
	TotalChildren          = "Total_Children"
	EducationGraduate      = "Education_Graduate"
	EducationPostgraduate  = "Education_Postgraduate"
	EducationUndergraduate = "Education_Undergraduate"
	LivingAlone            = "Living_With_Alone"
	LivingPartner          = "Living_With_Partner"
)

var names = [...]string{
	Income, Recency, DealsPurchases, WebPurchases, CatalogPurchases,
	StorePurchases, WebVisits, Complain, Response, Age, Tenure,
	TotalSpending, TotalChildren,
	EducationGraduate, EducationPostgraduate, EducationUndergraduate,
	LivingAlone, LivingPartner,
}

// Len is the number of columns in a feature vector.
const Len = len(names)

// Names returns a copy of the column names in scaler order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names[:])
	return out
}

// Vector is one feature row in scaler order (immutable value object).
type Vector struct {
	values []float64
}

// Assemble builds the feature row for a profile.
func Assemble(p customer.Profile) Vector {
	eduGrad, eduPost, eduUnder := p.Education.OneHot()
	alone, partner := p.Living.OneHot()

	return Vector{values: []float64{
		p.Income,
		float64(p.Recency),
		float64(p.DealsPurchases),
		float64(p.WebPurchases),
		float64(p.CatalogPurchases),
		float64(p.StorePurchases),
		float64(p.WebVisits),
		float64(p.Complain),
		float64(p.Response),
		float64(p.Age),
		float64(p.Tenure),
		p.TotalSpending,
		float64(p.TotalChildren),
		eduGrad,
		eduPost,
		eduUnder,
		alone,
		partner,
	}}
}

// Values returns a copy of the row.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// CheckOrder verifies that declared column names match the scaler order exactly.
func CheckOrder(declared []string) error {
	if len(declared) != len(names) {
		return fmt.Errorf("%w: artifact declares %d features, want %d", domain.ErrFeatureMismatch, len(declared), len(names))
	}
	for i, n := range names {
		if declared[i] != n {
			return fmt.Errorf("%w: column %d is %q, want %q", domain.ErrFeatureMismatch, i, declared[i], n)
		}
	}
	return nil
}
