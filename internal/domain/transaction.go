package domain

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. It serializes as
// ISO 8601 (YYYY-MM-DD) in API payloads.
type Date struct {
	time.Time
}

// NewDate builds a Date from its calendar parts, normalized to UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDate(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SalesTransaction is one normalized row of the sales table. Records are
// immutable once loaded; the surrogate ID orders rows for pagination
// tie-breaking and never leaves the service.
type SalesTransaction struct {
	ID              int64    `json:"-"`
	TransactionID   string   `json:"transaction_id"`
	Date            Date     `json:"date"`
	CustomerID      string   `json:"customer_id"`
	CustomerName    string   `json:"customer_name"`
	PhoneNumber     string   `json:"phone_number"`
	Gender          string   `json:"gender"`
	Age             int      `json:"age"`
	CustomerRegion  string   `json:"customer_region"`
	ProductCategory string   `json:"product_category"`
	Quantity        int      `json:"quantity"`
	PricePerUnit    float64  `json:"price_per_unit"`
	TotalAmount     float64  `json:"total_amount"`
	Discount        float64  `json:"discount"`
	PaymentMethod   string   `json:"payment_method"`
	Tags            []string `json:"tags"`
}

// Statistics aggregates the whole filtered set, never a single page.
type Statistics struct {
	TotalUnits    int64   `json:"total_units"`
	TotalAmount   float64 `json:"total_amount"`
	TotalDiscount float64 `json:"total_discount"`
	MatchingCount int64   `json:"matching_count"`
}

// FilterOptions lists the distinct values available per filterable category,
// for populating multi-select controls. Every slice may be empty.
type FilterOptions struct {
	Region          []string `json:"region"`
	Gender          []string `json:"gender"`
	AgeRange        []string `json:"age_range"`
	ProductCategory []string `json:"product_category"`
	Tags            []string `json:"tags"`
	PaymentMethod   []string `json:"payment_method"`
}
