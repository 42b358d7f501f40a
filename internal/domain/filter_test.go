package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() SalesTransaction {
	return SalesTransaction{
		ID:              1,
		TransactionID:   "TXN-001",
		Date:            NewDate(2024, time.January, 15),
		CustomerName:    "Anita Desai",
		PhoneNumber:     "555-0101",
		Gender:          "Female",
		Age:             30,
		CustomerRegion:  "North",
		ProductCategory: "Electronics",
		Quantity:        2,
		TotalAmount:     100,
		Tags:            []string{"Premium"},
	}
}

func TestMatchesEmptyFilterMatchesEverything(t *testing.T) {
	assert.True(t, TransactionFilter{}.Matches(sampleTransaction()))
}

func TestMatchesOrWithinCategory(t *testing.T) {
	filter := TransactionFilter{Regions: []string{"South", "North"}}
	assert.True(t, filter.Matches(sampleTransaction()))

	filter = TransactionFilter{Regions: []string{"South", "East"}}
	assert.False(t, filter.Matches(sampleTransaction()))
}

func TestMatchesAndAcrossCategories(t *testing.T) {
	filter := TransactionFilter{
		Regions:    []string{"North"},
		Categories: []string{"Clothing"},
	}
	assert.False(t, filter.Matches(sampleTransaction()), "region matches but category does not")

	filter.Categories = []string{"Electronics"}
	assert.True(t, filter.Matches(sampleTransaction()))
}

func TestMatchesTagIntersection(t *testing.T) {
	filter := TransactionFilter{Tags: []string{"Premium", "VIP"}}

	record := sampleTransaction()
	record.Tags = []string{"VIP", "Loyal"}
	assert.True(t, filter.Matches(record), "non-empty intersection must match")

	record.Tags = []string{"Gold"}
	assert.False(t, filter.Matches(record), "disjoint tag sets must not match")

	record.Tags = []string{"Premiumish"}
	assert.False(t, filter.Matches(record), "tag matching is set membership, not substring")
}

// The worked example: A(North, Electronics, {Premium}, 100),
// B(South, Electronics, {VIP}, 50), C(North, Clothing, {Premium}, 30).
// Filter {regions:[North], tags:[Premium,VIP]} matches A and C only.
func TestMatchesWorkedExample(t *testing.T) {
	a := SalesTransaction{TransactionID: "A", CustomerRegion: "North", ProductCategory: "Electronics", Tags: []string{"Premium"}, TotalAmount: 100}
	b := SalesTransaction{TransactionID: "B", CustomerRegion: "South", ProductCategory: "Electronics", Tags: []string{"VIP"}, TotalAmount: 50}
	c := SalesTransaction{TransactionID: "C", CustomerRegion: "North", ProductCategory: "Clothing", Tags: []string{"Premium"}, TotalAmount: 30}

	filter := TransactionFilter{Regions: []string{"North"}, Tags: []string{"Premium", "VIP"}}

	assert.True(t, filter.Matches(a))
	assert.False(t, filter.Matches(b))
	assert.True(t, filter.Matches(c))
}

func TestMatchesAgeRanges(t *testing.T) {
	filter := TransactionFilter{AgeRanges: []string{"18-25", "26-35"}}
	record := sampleTransaction()

	record.Age = 30
	assert.True(t, filter.Matches(record))

	record.Age = 25
	assert.True(t, filter.Matches(record))

	record.Age = 40
	assert.False(t, filter.Matches(record))
}

func TestMatchesDateRangeInclusive(t *testing.T) {
	start := NewDate(2024, time.January, 1)
	end := NewDate(2024, time.January, 31)
	filter := TransactionFilter{StartDate: &start, EndDate: &end}

	record := sampleTransaction()

	record.Date = NewDate(2024, time.January, 31)
	assert.True(t, filter.Matches(record), "upper bound is inclusive")

	record.Date = NewDate(2024, time.January, 1)
	assert.True(t, filter.Matches(record), "lower bound is inclusive")

	record.Date = NewDate(2024, time.February, 1)
	assert.False(t, filter.Matches(record))
}

func TestMatchesSearch(t *testing.T) {
	record := sampleTransaction()

	assert.True(t, TransactionFilter{Search: "anita"}.Matches(record), "case-insensitive name substring")
	assert.True(t, TransactionFilter{Search: "0101"}.Matches(record), "phone substring")
	assert.True(t, TransactionFilter{Search: "   "}.Matches(record), "blank search imposes no constraint")
	assert.False(t, TransactionFilter{Search: "bhavna"}.Matches(record))
}

func TestValidateRejectsUnknownAgeRange(t *testing.T) {
	err := TransactionFilter{AgeRanges: []string{"20-30"}}.Validate()
	require.Error(t, err)

	var filterErr *InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "age_ranges", filterErr.Field)
}

func TestValidateRejectsUnknownSortField(t *testing.T) {
	err := TransactionFilter{SortBy: SortField("customer_mood")}.Validate()
	require.Error(t, err)

	var filterErr *InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "sort_by", filterErr.Field)
}

func TestValidatePagination(t *testing.T) {
	require.NoError(t, TransactionFilter{Limit: 50}.ValidatePagination())
	require.NoError(t, TransactionFilter{Limit: 1, Offset: 0}.ValidatePagination())

	var pageErr *InvalidPaginationError
	require.ErrorAs(t, TransactionFilter{Limit: 0}.ValidatePagination(), &pageErr)
	require.ErrorAs(t, TransactionFilter{Limit: -1}.ValidatePagination(), &pageErr)
	require.ErrorAs(t, TransactionFilter{Limit: 10, Offset: -1}.ValidatePagination(), &pageErr)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.March, 5)
	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(raw))

	var parsed Date
	require.NoError(t, parsed.UnmarshalJSON(raw))
	assert.True(t, parsed.Equal(d.Time))
}
