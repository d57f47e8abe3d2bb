package customer

import (
	"fmt"
	"math"
)

// Education is the customer's highest education level.
type Education string

const (
	// Graduate is the default education level.
	Graduate Education = "Graduate"
	// Postgraduate covers master and PhD degrees.
	Postgraduate Education = "Postgraduate"
	// Undergraduate covers basic and 2n cycle education.
	Undergraduate Education = "Undergraduate"
)

// Educations lists the selectable education levels in form order.
func Educations() []Education {
	return []Education{Graduate, Postgraduate, Undergraduate}
}

// IsValid checks if the education level is one of the form options.
func (e Education) IsValid() bool {
	return e == Graduate || e == Postgraduate || e == Undergraduate
}

// OneHot returns the (graduate, postgraduate, undergraduate) indicator flags.
func (e Education) OneHot() (graduate, postgraduate, undergraduate float64) {
	return flag(e == Graduate), flag(e == Postgraduate), flag(e == Undergraduate)
}

// LivingStatus tells whether the customer lives with a partner.
type LivingStatus string

const (
	// Partner is the default living status.
	Partner LivingStatus = "Partner"
	// Alone covers single, divorced and widowed customers.
	Alone LivingStatus = "Alone"
)

// LivingStatuses lists the selectable living statuses in form order.
func LivingStatuses() []LivingStatus {
	return []LivingStatus{Partner, Alone}
}

// IsValid checks if the living status is one of the form options.
func (l LivingStatus) IsValid() bool {
	return l == Partner || l == Alone
}

// OneHot returns the (alone, partner) indicator flags.
func (l LivingStatus) OneHot() (alone, partner float64) {
	return flag(l == Alone), flag(l == Partner)
}

// MinAge is the youngest age the form accepts.
const MinAge = 18

// Profile holds the raw attributes entered for one customer.
type Profile struct {
	Income           float64
	Age              int
	Recency          int
	Tenure           int
	TotalSpending    float64
	TotalChildren    int
	DealsPurchases   int
	WebPurchases     int
	CatalogPurchases int
	StorePurchases   int
	WebVisits        int
	Education        Education
	Living           LivingStatus
	Complain         int
	Response         int
}

// Default returns the profile the form starts with.
func Default() Profile {
	return Profile{
		Age:       MinAge,
		Education: Graduate,
		Living:    Partner,
	}
}

// Validate applies the form constraints: non-negative numbers, age at least
// MinAge, binary flags and known categories. There are no upper bounds.
func (p Profile) Validate() error {
	if math.IsNaN(p.Income) || math.IsInf(p.Income, 0) || p.Income < 0 {
		return fmt.Errorf("income must be a non-negative number")
	}
	if math.IsNaN(p.TotalSpending) || math.IsInf(p.TotalSpending, 0) || p.TotalSpending < 0 {
		return fmt.Errorf("total spending must be a non-negative number")
	}
	if p.Age < MinAge {
		return fmt.Errorf("age must be at least %d", MinAge)
	}

	counts := []struct {
		name  string
		value int
	}{
		{"recency", p.Recency},
		{"tenure", p.Tenure},
		{"total children", p.TotalChildren},
		{"deals purchases", p.DealsPurchases},
		{"web purchases", p.WebPurchases},
		{"catalog purchases", p.CatalogPurchases},
		{"store purchases", p.StorePurchases},
		{"web visits", p.WebVisits},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%s must be non-negative", c.name)
		}
	}

	if p.Complain != 0 && p.Complain != 1 {
		return fmt.Errorf("complain must be 0 or 1")
	}
	if p.Response != 0 && p.Response != 1 {
		return fmt.Errorf("response must be 0 or 1")
	}
	if !p.Education.IsValid() {
		return fmt.Errorf("invalid education level: %q", p.Education)
	}
	if !p.Living.IsValid() {
		return fmt.Errorf("invalid living status: %q", p.Living)
	}
	return nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
