package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vamsiche/retail-sales-api/internal/domain"
)

func TestBuildPredicateEmptyFilter(t *testing.T) {
	builder := newSQLBuilder()
	where, err := buildPredicate(domain.TransactionFilter{}, builder)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, builder.args)
}

func TestBuildPredicateCombinesCategoriesWithAnd(t *testing.T) {
	builder := newSQLBuilder()
	where, err := buildPredicate(domain.TransactionFilter{
		Regions:    []string{"North"},
		Categories: []string{"Electronics"},
	}, builder)
	require.NoError(t, err)

	assert.Equal(t, "WHERE customer_region = ANY($1) AND product_category = ANY($2)", where)
	require.Len(t, builder.args, 2)
	assert.Equal(t, []string{"North"}, builder.args[0])
	assert.Equal(t, []string{"Electronics"}, builder.args[1])
}

func TestBuildPredicateTagsUseArrayOverlap(t *testing.T) {
	builder := newSQLBuilder()
	where, err := buildPredicate(domain.TransactionFilter{
		Tags: []string{"Premium", "VIP"},
	}, builder)
	require.NoError(t, err)

	assert.Equal(t, "WHERE tags && $1::text[]", where)
	assert.Equal(t, []any{[]string{"Premium", "VIP"}}, builder.args)
}

func TestBuildPredicateAgeRanges(t *testing.T) {
	builder := newSQLBuilder()
	where, err := buildPredicate(domain.TransactionFilter{
		AgeRanges: []string{"18-25", "66+"},
	}, builder)
	require.NoError(t, err)

	assert.Equal(t, "WHERE ((age >= $1 AND age <= $2) OR age >= $3)", where)
	assert.Equal(t, []any{18, 25, 66}, builder.args)
}

func TestBuildPredicateUnknownAgeRange(t *testing.T) {
	builder := newSQLBuilder()
	_, err := buildPredicate(domain.TransactionFilter{AgeRanges: []string{"18-24"}}, builder)

	var filterErr *domain.InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "age_ranges", filterErr.Field)
}

func TestBuildPredicateDateBounds(t *testing.T) {
	start := domain.NewDate(2024, time.January, 1)
	end := domain.NewDate(2024, time.January, 31)

	builder := newSQLBuilder()
	where, err := buildPredicate(domain.TransactionFilter{
		StartDate: &start,
		EndDate:   &end,
	}, builder)
	require.NoError(t, err)

	assert.Equal(t, "WHERE date >= $1 AND date <= $2", where)
	require.Len(t, builder.args, 2)
}

func TestBuildPredicateSearchReusesOneArg(t *testing.T) {
	builder := newSQLBuilder()
	where, err := buildPredicate(domain.TransactionFilter{Search: "  anita  "}, builder)
	require.NoError(t, err)

	assert.Equal(t, "WHERE (customer_name ILIKE $1 OR phone_number ILIKE $1)", where)
	assert.Equal(t, []any{"%anita%"}, builder.args)
}

func TestBuildPredicateEscapesLikeWildcards(t *testing.T) {
	builder := newSQLBuilder()
	_, err := buildPredicate(domain.TransactionFilter{Search: "50%_off"}, builder)
	require.NoError(t, err)

	assert.Equal(t, []any{`%50\%\_off%`}, builder.args)
}

func TestBuildOrderClauseDefaultsAndTieBreak(t *testing.T) {
	order, err := buildOrderClause(domain.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY customer_name ASC, id ASC", order)

	order, err = buildOrderClause(domain.TransactionFilter{
		SortBy:    domain.SortFieldTotalAmount,
		SortOrder: domain.SortDirectionDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY total_amount DESC, id ASC", order)
}

func TestBuildOrderClauseRejectsUnknownField(t *testing.T) {
	_, err := buildOrderClause(domain.TransactionFilter{SortBy: domain.SortField("properties")})

	var filterErr *domain.InvalidFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "sort_by", filterErr.Field)
}

// Every sortable field must resolve to a column; a field added to the enum
// without a column mapping would otherwise fail at request time.
func TestSortColumnsCoverEnum(t *testing.T) {
	for field := range sortColumns {
		parsed, err := domain.ParseSortField(string(field))
		require.NoError(t, err)
		assert.Equal(t, field, parsed)
	}

	for _, field := range []domain.SortField{
		domain.SortFieldDate, domain.SortFieldCustomerName, domain.SortFieldAge,
		domain.SortFieldQuantity, domain.SortFieldPricePerUnit, domain.SortFieldTotalAmount,
		domain.SortFieldDiscount, domain.SortFieldTransactionID, domain.SortFieldProductCategory,
	} {
		_, ok := sortColumns[field]
		assert.True(t, ok, "no column mapping for %s", field)
	}
}

func TestAgeBinCaseSQLCoversAllBins(t *testing.T) {
	caseSQL := ageBinCaseSQL()
	for _, bin := range domain.AgeBins {
		assert.Contains(t, caseSQL, "'"+bin.Label+"'")
	}
}
