package repository

import (
	"fmt"
	"strings"

	"github.com/vamsiche/retail-sales-api/internal/domain"
)

type sqlBuilder struct {
	args []any
}

func newSQLBuilder() *sqlBuilder {
	return &sqlBuilder{args: make([]any, 0)}
}

func (b *sqlBuilder) addArg(value any) int {
	b.args = append(b.args, value)
	return len(b.args)
}

func (b *sqlBuilder) placeholder(idx int) string {
	return fmt.Sprintf("$%d", idx)
}

// buildPredicate translates a filter into one parameterized WHERE clause.
// Both the listing and the statistics queries run against this exact clause,
// which is what keeps pages and aggregates consistent for a request.
// Returns "" when no category is active.
func buildPredicate(filter domain.TransactionFilter, builder *sqlBuilder) (string, error) {
	var clauses []string

	appendMembership := func(column string, selected []string) {
		if len(selected) == 0 {
			return
		}
		idx := builder.addArg(selected)
		clauses = append(clauses, fmt.Sprintf("%s = ANY(%s)", column, builder.placeholder(idx)))
	}

	appendMembership("customer_region", filter.Regions)
	appendMembership("gender", filter.Genders)
	appendMembership("product_category", filter.Categories)
	appendMembership("payment_method", filter.PaymentMethods)

	if len(filter.AgeRanges) > 0 {
		ranges := make([]string, 0, len(filter.AgeRanges))
		for _, label := range filter.AgeRanges {
			bin, ok := domain.AgeBinByLabel(label)
			if !ok {
				return "", &domain.InvalidFilterError{Field: "age_ranges", Reason: "unknown age range " + label}
			}
			minIdx := builder.addArg(bin.Min)
			if bin.Max < 0 {
				ranges = append(ranges, fmt.Sprintf("age >= %s", builder.placeholder(minIdx)))
			} else {
				maxIdx := builder.addArg(bin.Max)
				ranges = append(ranges, fmt.Sprintf("(age >= %s AND age <= %s)",
					builder.placeholder(minIdx), builder.placeholder(maxIdx)))
			}
		}
		clauses = append(clauses, "("+strings.Join(ranges, " OR ")+")")
	}

	if len(filter.Tags) > 0 {
		// Array overlap: the record's tag set must intersect the selection.
		idx := builder.addArg(filter.Tags)
		clauses = append(clauses, fmt.Sprintf("tags && %s::text[]", builder.placeholder(idx)))
	}

	if filter.StartDate != nil {
		idx := builder.addArg(filter.StartDate.Time)
		clauses = append(clauses, fmt.Sprintf("date >= %s", builder.placeholder(idx)))
	}
	if filter.EndDate != nil {
		idx := builder.addArg(filter.EndDate.Time)
		clauses = append(clauses, fmt.Sprintf("date <= %s", builder.placeholder(idx)))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		idx := builder.addArg("%" + escapeLike(search) + "%")
		clauses = append(clauses, fmt.Sprintf("(customer_name ILIKE %s OR phone_number ILIKE %s)",
			builder.placeholder(idx), builder.placeholder(idx)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), nil
}

var sortColumns = map[domain.SortField]string{
	domain.SortFieldDate:            "date",
	domain.SortFieldCustomerName:    "customer_name",
	domain.SortFieldAge:             "age",
	domain.SortFieldQuantity:        "quantity",
	domain.SortFieldPricePerUnit:    "price_per_unit",
	domain.SortFieldTotalAmount:     "total_amount",
	domain.SortFieldDiscount:        "discount",
	domain.SortFieldTransactionID:   "transaction_id",
	domain.SortFieldProductCategory: "product_category",
}

// buildOrderClause maps the closed sort enumeration onto column names. The
// surrogate id breaks ties so repeated identical queries paginate identically
// even when the sort field has duplicate values.
func buildOrderClause(filter domain.TransactionFilter) (string, error) {
	field := filter.SortBy
	if field == "" {
		field = domain.SortFieldCustomerName
	}
	column, ok := sortColumns[field]
	if !ok {
		return "", &domain.InvalidFilterError{Field: "sort_by", Reason: "unknown sort field " + string(field)}
	}

	direction := "ASC"
	if filter.SortOrder == domain.SortDirectionDesc {
		direction = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction), nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
