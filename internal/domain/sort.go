package domain

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// ParseSortDirection validates a sort_order value.
func ParseSortDirection(value string) (SortDirection, error) {
	switch SortDirection(value) {
	case SortDirectionAsc, SortDirectionDesc:
		return SortDirection(value), nil
	}
	return "", &InvalidFilterError{Field: "sort_order", Reason: "must be asc or desc"}
}

// SortField enumerates the fields a transaction listing can be ordered by.
// The set is closed; unknown values are rejected, never passed through.
type SortField string

const (
	SortFieldDate            SortField = "date"
	SortFieldCustomerName    SortField = "customer_name"
	SortFieldAge             SortField = "age"
	SortFieldQuantity        SortField = "quantity"
	SortFieldPricePerUnit    SortField = "price_per_unit"
	SortFieldTotalAmount     SortField = "total_amount"
	SortFieldDiscount        SortField = "discount"
	SortFieldTransactionID   SortField = "transaction_id"
	SortFieldProductCategory SortField = "product_category"
)

var sortFields = map[SortField]struct{}{
	SortFieldDate:            {},
	SortFieldCustomerName:    {},
	SortFieldAge:             {},
	SortFieldQuantity:        {},
	SortFieldPricePerUnit:    {},
	SortFieldTotalAmount:     {},
	SortFieldDiscount:        {},
	SortFieldTransactionID:   {},
	SortFieldProductCategory: {},
}

// ParseSortField validates a sort_by value.
func ParseSortField(value string) (SortField, error) {
	if _, ok := sortFields[SortField(value)]; ok {
		return SortField(value), nil
	}
	return "", &InvalidFilterError{Field: "sort_by", Reason: "unknown sort field " + value}
}
