package chi

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/segmenter/internal/domain"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
)

// Form and query parameter names. The JSON API uses the same names.
const (
	fieldIncome           = "income"
	fieldAge              = "age"
	fieldRecency          = "recency"
	fieldTenure           = "customer_tenure"
	fieldTotalSpending    = "total_spending"
	fieldTotalChildren    = "total_children"
	fieldDealsPurchases   = "deals_purchases"
	fieldWebPurchases     = "web_purchases"
	fieldCatalogPurchases = "catalog_purchases"
	fieldStorePurchases   = "store_purchases"
	fieldWebVisits        = "web_visits_month"
	fieldEducation        = "education"
	fieldLiving           = "living_with"
	fieldComplain         = "complain"
	fieldResponse         = "response"
)

// profileFromValues binds form or query values onto the default profile.
// Missing or blank parameters keep their defaults.
func profileFromValues(values url.Values) (customer.Profile, error) {
	p := customer.Default()
	education := string(p.Education)
	living := string(p.Living)

	params := []struct {
		name string
		dest any
	}{
		{fieldIncome, &p.Income},
		{fieldAge, &p.Age},
		{fieldRecency, &p.Recency},
		{fieldTenure, &p.Tenure},
		{fieldTotalSpending, &p.TotalSpending},
		{fieldTotalChildren, &p.TotalChildren},
		{fieldDealsPurchases, &p.DealsPurchases},
		{fieldWebPurchases, &p.WebPurchases},
		{fieldCatalogPurchases, &p.CatalogPurchases},
		{fieldStorePurchases, &p.StorePurchases},
		{fieldWebVisits, &p.WebVisits},
		{fieldEducation, &education},
		{fieldLiving, &living},
		{fieldComplain, &p.Complain},
		{fieldResponse, &p.Response},
	}

	present := nonBlank(values)
	for _, prm := range params {
		if err := runtime.BindQueryParameter("form", true, false, prm.name, present, prm.dest); err != nil {
			return customer.Profile{}, fmt.Errorf("%w: invalid %s: %w", domain.ErrInvalidInput, prm.name, err)
		}
	}

	p.Education = customer.Education(education)
	p.Living = customer.LivingStatus(living)
	return p, nil
}

// profileValues encodes a profile with the same parameter names profileFromValues reads.
func profileValues(p customer.Profile) url.Values {
	v := url.Values{}
	v.Set(fieldIncome, formatFloat(p.Income))
	v.Set(fieldAge, strconv.Itoa(p.Age))
	v.Set(fieldRecency, strconv.Itoa(p.Recency))
	v.Set(fieldTenure, strconv.Itoa(p.Tenure))
	v.Set(fieldTotalSpending, formatFloat(p.TotalSpending))
	v.Set(fieldTotalChildren, strconv.Itoa(p.TotalChildren))
	v.Set(fieldDealsPurchases, strconv.Itoa(p.DealsPurchases))
	v.Set(fieldWebPurchases, strconv.Itoa(p.WebPurchases))
	v.Set(fieldCatalogPurchases, strconv.Itoa(p.CatalogPurchases))
	v.Set(fieldStorePurchases, strconv.Itoa(p.StorePurchases))
	v.Set(fieldWebVisits, strconv.Itoa(p.WebVisits))
	v.Set(fieldEducation, string(p.Education))
	v.Set(fieldLiving, string(p.Living))
	v.Set(fieldComplain, strconv.Itoa(p.Complain))
	v.Set(fieldResponse, strconv.Itoa(p.Response))
	return v
}

// chartQuery keeps only the parameters a chart endpoint draws from.
func chartQuery(p customer.Profile, names ...string) string {
	all := profileValues(p)
	q := url.Values{}
	for _, n := range names {
		q.Set(n, all.Get(n))
	}
	return q.Encode()
}

func nonBlank(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		if len(vs) == 0 || vs[0] == "" {
			continue
		}
		out[k] = vs[:1]
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
