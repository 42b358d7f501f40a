package domain

import "strings"

// TransactionFilter captures one request's filter criteria. Selected values
// within a category combine with OR; active categories combine with AND. An
// empty selection places no constraint on its category.
type TransactionFilter struct {
	Regions        []string
	Genders        []string
	AgeRanges      []string
	Categories     []string
	Tags           []string
	PaymentMethods []string
	StartDate      *Date
	EndDate        *Date
	Search         string

	SortBy    SortField
	SortOrder SortDirection
	Limit     int
	Offset    int
}

// Validate checks the parts of the filter that come from closed enumerations.
// Pagination bounds are checked separately by ValidatePagination.
func (f TransactionFilter) Validate() error {
	for _, label := range f.AgeRanges {
		if _, ok := AgeBinByLabel(label); !ok {
			return &InvalidFilterError{Field: "age_ranges", Reason: "unknown age range " + label}
		}
	}
	if f.SortBy != "" {
		if _, err := ParseSortField(string(f.SortBy)); err != nil {
			return err
		}
	}
	if f.SortOrder != "" {
		if _, err := ParseSortDirection(string(f.SortOrder)); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePagination checks the page window every store requires: a positive
// limit and a non-negative offset. The configured soft cap on limit is applied
// where the cap is known, before the filter reaches a store.
func (f TransactionFilter) ValidatePagination() error {
	if f.Limit <= 0 {
		return &InvalidPaginationError{Reason: "limit must be positive"}
	}
	if f.Offset < 0 {
		return &InvalidPaginationError{Reason: "offset must not be negative"}
	}
	return nil
}

// Matches is the filter's predicate: true iff the record satisfies every
// active category. It is pure, ignores sort/pagination, and is the single
// definition of matching shared by listing and aggregation.
func (f TransactionFilter) Matches(tx SalesTransaction) bool {
	if !matchesAny(f.Regions, tx.CustomerRegion) {
		return false
	}
	if !matchesAny(f.Genders, tx.Gender) {
		return false
	}
	if !matchesAny(f.Categories, tx.ProductCategory) {
		return false
	}
	if !matchesAny(f.PaymentMethods, tx.PaymentMethod) {
		return false
	}
	if len(f.AgeRanges) > 0 && !matchesAny(f.AgeRanges, AgeBinFor(tx.Age)) {
		return false
	}
	if len(f.Tags) > 0 && !intersects(f.Tags, tx.Tags) {
		return false
	}
	if f.StartDate != nil && tx.Date.Before(f.StartDate.Time) {
		return false
	}
	if f.EndDate != nil && tx.Date.After(f.EndDate.Time) {
		return false
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(tx.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(tx.PhoneNumber), needle) {
			return false
		}
	}
	return true
}

func matchesAny(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

// intersects reports set intersection, not substring containment.
func intersects(selected, tags []string) bool {
	for _, s := range selected {
		for _, t := range tags {
			if s == t {
				return true
			}
		}
	}
	return false
}
