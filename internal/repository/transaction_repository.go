package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vamsiche/retail-sales-api/internal/domain"
)

const transactionColumns = `id, transaction_id, date, customer_id, customer_name, phone_number,
	gender, age, customer_region, product_category, quantity, price_per_unit,
	total_amount, discount, payment_method, tags`

// transactionRepository implements TransactionStore over Postgres.
type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a Postgres-backed transaction store.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionStore {
	return &transactionRepository{pool: pool}
}

// List fetches one page of matching rows plus the total match count. The
// count rides along as a window function so rows and total come from the
// same statement and cannot skew.
func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.SalesTransaction, int, error) {
	if err := filter.ValidatePagination(); err != nil {
		return nil, 0, err
	}

	builder := newSQLBuilder()

	where, err := buildPredicate(filter, builder)
	if err != nil {
		return nil, 0, err
	}
	order, err := buildOrderClause(filter)
	if err != nil {
		return nil, 0, err
	}

	limitIdx := builder.addArg(filter.Limit)
	offsetIdx := builder.addArg(filter.Offset)

	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) OVER() AS total_count FROM sales_transactions %s %s LIMIT %s OFFSET %s",
		transactionColumns, where, order,
		builder.placeholder(limitIdx), builder.placeholder(offsetIdx),
	)

	rows, err := r.pool.Query(ctx, query, builder.args...)
	if err != nil {
		return nil, 0, domain.StoreError(fmt.Errorf("list transactions: %w", err))
	}
	defer rows.Close()

	transactions := make([]domain.SalesTransaction, 0)
	totalCount := 0
	for rows.Next() {
		var (
			tx   domain.SalesTransaction
			date time.Time
		)
		if err := rows.Scan(
			&tx.ID, &tx.TransactionID, &date, &tx.CustomerID, &tx.CustomerName,
			&tx.PhoneNumber, &tx.Gender, &tx.Age, &tx.CustomerRegion,
			&tx.ProductCategory, &tx.Quantity, &tx.PricePerUnit, &tx.TotalAmount,
			&tx.Discount, &tx.PaymentMethod, &tx.Tags, &totalCount,
		); err != nil {
			return nil, 0, domain.StoreError(fmt.Errorf("scan transaction: %w", err))
		}
		tx.Date = domain.Date{Time: date}
		if tx.Tags == nil {
			tx.Tags = []string{}
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, domain.StoreError(fmt.Errorf("list transactions: %w", err))
	}

	// An offset past the last match returns no rows, and with them no
	// window count. Fetch the count separately so callers still see the
	// real total.
	if len(transactions) == 0 {
		stats, err := r.Aggregate(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		totalCount = int(stats.MatchingCount)
	}

	return transactions, totalCount, nil
}

// Aggregate sums the whole filtered set in a single pass, independent of any
// pagination the caller requested.
func (r *transactionRepository) Aggregate(ctx context.Context, filter domain.TransactionFilter) (domain.Statistics, error) {
	builder := newSQLBuilder()

	where, err := buildPredicate(filter, builder)
	if err != nil {
		return domain.Statistics{}, err
	}

	query := fmt.Sprintf(
		`SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(discount), 0), COUNT(*)
		FROM sales_transactions %s`, where,
	)

	var stats domain.Statistics
	err = r.pool.QueryRow(ctx, query, builder.args...).Scan(
		&stats.TotalUnits, &stats.TotalAmount, &stats.TotalDiscount, &stats.MatchingCount,
	)
	if err != nil {
		return domain.Statistics{}, domain.StoreError(fmt.Errorf("aggregate transactions: %w", err))
	}

	return stats, nil
}

// FilterOptions reports the distinct values present in the store for every
// filterable category, unaffected by any request's filter.
func (r *transactionRepository) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	options := domain.FilterOptions{
		Region:          []string{},
		Gender:          []string{},
		AgeRange:        []string{},
		ProductCategory: []string{},
		Tags:            []string{},
		PaymentMethod:   []string{},
	}

	columns := []struct {
		name   string
		target *[]string
	}{
		{"customer_region", &options.Region},
		{"gender", &options.Gender},
		{"product_category", &options.ProductCategory},
		{"payment_method", &options.PaymentMethod},
	}
	for _, col := range columns {
		values, err := r.distinctValues(ctx, fmt.Sprintf(
			"SELECT DISTINCT %s FROM sales_transactions WHERE %s <> '' ORDER BY %s",
			col.name, col.name, col.name,
		))
		if err != nil {
			return domain.FilterOptions{}, err
		}
		*col.target = values
	}

	tags, err := r.distinctValues(ctx,
		"SELECT DISTINCT unnest(tags) AS tag FROM sales_transactions ORDER BY tag")
	if err != nil {
		return domain.FilterOptions{}, err
	}
	options.Tags = tags

	bins, err := r.presentAgeBins(ctx)
	if err != nil {
		return domain.FilterOptions{}, err
	}
	options.AgeRange = bins

	return options, nil
}

func (r *transactionRepository) distinctValues(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.StoreError(fmt.Errorf("distinct values: %w", err))
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, domain.StoreError(fmt.Errorf("scan distinct value: %w", err))
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError(fmt.Errorf("distinct values: %w", err))
	}
	return values, nil
}

// presentAgeBins returns the fixed bin labels that have at least one record,
// in domain order rather than lexicographic.
func (r *transactionRepository) presentAgeBins(ctx context.Context) ([]string, error) {
	labels, err := r.distinctValues(ctx,
		"SELECT DISTINCT "+ageBinCaseSQL()+" AS age_bin FROM sales_transactions")
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		present[label] = struct{}{}
	}

	ordered := make([]string, 0, len(present))
	for _, bin := range domain.AgeBins {
		if _, ok := present[bin.Label]; ok {
			ordered = append(ordered, bin.Label)
		}
	}
	return ordered, nil
}

// ageBinCaseSQL renders the age-to-bin mapping as a CASE expression so the
// store and domain.AgeBinFor can never disagree on bin membership.
func ageBinCaseSQL() string {
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, bin := range domain.AgeBins {
		if bin.Max < 0 {
			fmt.Fprintf(&sb, " WHEN age >= %d THEN '%s'", bin.Min, bin.Label)
		} else {
			fmt.Fprintf(&sb, " WHEN age BETWEEN %d AND %d THEN '%s'", bin.Min, bin.Max, bin.Label)
		}
	}
	sb.WriteString(" END")
	return sb.String()
}

const upsertTransactionSQL = `INSERT INTO sales_transactions (
	transaction_id, date, customer_id, customer_name, phone_number, gender, age,
	customer_region, product_category, quantity, price_per_unit, total_amount,
	discount, payment_method, tags
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (transaction_id) DO UPDATE SET
	date = EXCLUDED.date,
	customer_id = EXCLUDED.customer_id,
	customer_name = EXCLUDED.customer_name,
	phone_number = EXCLUDED.phone_number,
	gender = EXCLUDED.gender,
	age = EXCLUDED.age,
	customer_region = EXCLUDED.customer_region,
	product_category = EXCLUDED.product_category,
	quantity = EXCLUDED.quantity,
	price_per_unit = EXCLUDED.price_per_unit,
	total_amount = EXCLUDED.total_amount,
	discount = EXCLUDED.discount,
	payment_method = EXCLUDED.payment_method,
	tags = EXCLUDED.tags`

// InsertBatch upserts a chunk of normalized records atomically.
func (r *transactionRepository) InsertBatch(ctx context.Context, records []domain.SalesTransaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	pgBatch := &pgx.Batch{}
	for _, tx := range records {
		tags := tx.Tags
		if tags == nil {
			tags = []string{}
		}
		pgBatch.Queue(upsertTransactionSQL,
			tx.TransactionID, tx.Date.Time, tx.CustomerID, tx.CustomerName,
			tx.PhoneNumber, tx.Gender, tx.Age, tx.CustomerRegion,
			tx.ProductCategory, tx.Quantity, tx.PricePerUnit, tx.TotalAmount,
			tx.Discount, tx.PaymentMethod, tags,
		)
	}

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, domain.StoreError(fmt.Errorf("begin insert batch: %w", err))
	}
	defer dbTx.Rollback(ctx)

	results := dbTx.SendBatch(ctx, pgBatch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, domain.StoreError(fmt.Errorf("insert transaction: %w", err))
		}
	}
	if err := results.Close(); err != nil {
		return 0, domain.StoreError(fmt.Errorf("close insert batch: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, domain.StoreError(fmt.Errorf("commit insert batch: %w", err))
	}

	return len(records), nil
}

// Ping reports whether the backing store is reachable.
func (r *transactionRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return domain.StoreError(err)
	}
	return nil
}
