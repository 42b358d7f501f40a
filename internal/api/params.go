package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/vamsiche/retail-sales-api/internal/domain"
)

var filterParams = map[string]struct{}{
	"customer_regions":   {},
	"genders":            {},
	"age_ranges":         {},
	"product_categories": {},
	"tags":               {},
	"payment_methods":    {},
	"start_date":         {},
	"end_date":           {},
	"search":             {},
}

var listParams = map[string]struct{}{
	"sort_by":    {},
	"sort_order": {},
	"limit":      {},
	"offset":     {},
}

// checkUnknownParams rejects parameter keys outside the closed sets instead
// of silently passing them through.
func checkUnknownParams(query url.Values, allowed ...map[string]struct{}) error {
	for key := range query {
		name := strings.TrimSuffix(key, "[]")
		known := false
		for _, set := range allowed {
			if _, ok := set[name]; ok {
				known = true
				break
			}
		}
		if !known {
			return &domain.InvalidFilterError{Field: key, Reason: "unknown parameter"}
		}
	}
	return nil
}

// multiValues collects a repeatable query parameter. Both the bare name and
// the []-suffixed spelling are accepted; blank entries are dropped.
func multiValues(query url.Values, name string) []string {
	raw := append([]string{}, query[name]...)
	raw = append(raw, query[name+"[]"]...)

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// parseFilter decodes the shared filter parameters used by both the
// transactions and statistics endpoints.
func parseFilter(query url.Values) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{
		Regions:        multiValues(query, "customer_regions"),
		Genders:        multiValues(query, "genders"),
		AgeRanges:      multiValues(query, "age_ranges"),
		Categories:     multiValues(query, "product_categories"),
		Tags:           multiValues(query, "tags"),
		PaymentMethods: multiValues(query, "payment_methods"),
		Search:         query.Get("search"),
	}

	if raw := strings.TrimSpace(query.Get("start_date")); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			return domain.TransactionFilter{}, &domain.InvalidFilterError{Field: "start_date", Reason: err.Error()}
		}
		filter.StartDate = &date
	}
	if raw := strings.TrimSpace(query.Get("end_date")); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			return domain.TransactionFilter{}, &domain.InvalidFilterError{Field: "end_date", Reason: err.Error()}
		}
		filter.EndDate = &date
	}

	if err := filter.Validate(); err != nil {
		return domain.TransactionFilter{}, err
	}
	return filter, nil
}

// parseListParams decodes sort and pagination on top of a parsed filter.
// Limits above maxLimit are clamped (documented soft cap); non-positive
// limits and negative offsets are rejected.
func parseListParams(query url.Values, filter *domain.TransactionFilter, defaultLimit, maxLimit int) error {
	filter.SortBy = domain.SortFieldCustomerName
	if raw := query.Get("sort_by"); raw != "" {
		field, err := domain.ParseSortField(raw)
		if err != nil {
			return err
		}
		filter.SortBy = field
	}

	filter.SortOrder = domain.SortDirectionAsc
	if raw := query.Get("sort_order"); raw != "" {
		direction, err := domain.ParseSortDirection(raw)
		if err != nil {
			return err
		}
		filter.SortOrder = direction
	}

	filter.Limit = defaultLimit
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return &domain.InvalidPaginationError{Reason: "limit must be an integer"}
		}
		if limit <= 0 {
			return &domain.InvalidPaginationError{Reason: "limit must be positive"}
		}
		filter.Limit = limit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	filter.Offset = 0
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return &domain.InvalidPaginationError{Reason: "offset must be an integer"}
		}
		if offset < 0 {
			return &domain.InvalidPaginationError{Reason: "offset must not be negative"}
		}
		filter.Offset = offset
	}

	return nil
}
