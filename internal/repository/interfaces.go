package repository

import (
	"context"

	"github.com/vamsiche/retail-sales-api/internal/domain"
)

// TransactionStore is the read/load contract over the sales table. List and
// Aggregate must evaluate the same predicate for a given filter so pages and
// statistics can never diverge.
type TransactionStore interface {
	// List returns one page of matching records in a deterministic order,
	// plus the total match count independent of pagination.
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.SalesTransaction, int, error)

	// Aggregate computes statistics over the whole filtered set, ignoring
	// the filter's pagination fields.
	Aggregate(ctx context.Context, filter domain.TransactionFilter) (domain.Statistics, error)

	// FilterOptions returns the distinct values present anywhere in the
	// store for each filterable category.
	FilterOptions(ctx context.Context) (domain.FilterOptions, error)

	// InsertBatch upserts normalized records by transaction_id and returns
	// the number written.
	InsertBatch(ctx context.Context, records []domain.SalesTransaction) (int, error)

	// Ping reports store reachability for the health endpoint.
	Ping(ctx context.Context) error
}
