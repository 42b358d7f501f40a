package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vamsiche/retail-sales-api/internal/domain"
)

// MemoryStore is an in-memory TransactionStore. It evaluates the same
// domain predicate the SQL translation mirrors, which makes it both the test
// double for the handlers and a semantic cross-check for the Postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.SalesTransaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.SalesTransaction, int, error) {
	if _, err := buildOrderClause(filter); err != nil {
		return nil, 0, err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	if err := filter.ValidatePagination(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matched := make([]domain.SalesTransaction, 0)
	for _, tx := range s.records {
		if filter.Matches(tx) {
			matched = append(matched, tx)
		}
	}
	s.mu.RUnlock()

	sortTransactions(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	page := make([]domain.SalesTransaction, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (s *MemoryStore) Aggregate(ctx context.Context, filter domain.TransactionFilter) (domain.Statistics, error) {
	if err := filter.Validate(); err != nil {
		return domain.Statistics{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.Statistics
	for _, tx := range s.records {
		if !filter.Matches(tx) {
			continue
		}
		stats.TotalUnits += int64(tx.Quantity)
		stats.TotalAmount += tx.TotalAmount
		stats.TotalDiscount += tx.Discount
		stats.MatchingCount++
	}
	return stats, nil
}

func (s *MemoryStore) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regions := map[string]struct{}{}
	genders := map[string]struct{}{}
	categories := map[string]struct{}{}
	payments := map[string]struct{}{}
	tags := map[string]struct{}{}
	bins := map[string]struct{}{}

	for _, tx := range s.records {
		addNonEmpty(regions, tx.CustomerRegion)
		addNonEmpty(genders, tx.Gender)
		addNonEmpty(categories, tx.ProductCategory)
		addNonEmpty(payments, tx.PaymentMethod)
		for _, tag := range tx.Tags {
			addNonEmpty(tags, tag)
		}
		bins[domain.AgeBinFor(tx.Age)] = struct{}{}
	}

	orderedBins := make([]string, 0, len(bins))
	for _, bin := range domain.AgeBins {
		if _, ok := bins[bin.Label]; ok {
			orderedBins = append(orderedBins, bin.Label)
		}
	}

	return domain.FilterOptions{
		Region:          sortedKeys(regions),
		Gender:          sortedKeys(genders),
		AgeRange:        orderedBins,
		ProductCategory: sortedKeys(categories),
		Tags:            sortedKeys(tags),
		PaymentMethod:   sortedKeys(payments),
	}, nil
}

func (s *MemoryStore) InsertBatch(ctx context.Context, records []domain.SalesTransaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		if record.Tags == nil {
			record.Tags = []string{}
		}
		if idx, ok := s.indexOf(record.TransactionID); ok {
			record.ID = s.records[idx].ID
			s.records[idx] = record
			continue
		}
		record.ID = s.nextID
		s.nextID++
		s.records = append(s.records, record)
	}
	return len(records), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) indexOf(transactionID string) (int, bool) {
	for i, tx := range s.records {
		if tx.TransactionID == transactionID {
			return i, true
		}
	}
	return 0, false
}

func addNonEmpty(set map[string]struct{}, value string) {
	if value != "" {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// sortTransactions orders records by the requested field, breaking ties on
// the surrogate ID ascending so pagination stays reproducible.
func sortTransactions(records []domain.SalesTransaction, field domain.SortField, direction domain.SortDirection) {
	if field == "" {
		field = domain.SortFieldCustomerName
	}
	desc := direction == domain.SortDirectionDesc

	sort.Slice(records, func(i, j int) bool {
		cmp := compareByField(records[i], records[j], field)
		if cmp == 0 {
			return records[i].ID < records[j].ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareByField(a, b domain.SalesTransaction, field domain.SortField) int {
	switch field {
	case domain.SortFieldDate:
		switch {
		case a.Date.Before(b.Date.Time):
			return -1
		case a.Date.After(b.Date.Time):
			return 1
		}
		return 0
	case domain.SortFieldCustomerName:
		return strings.Compare(a.CustomerName, b.CustomerName)
	case domain.SortFieldAge:
		return compareInt(a.Age, b.Age)
	case domain.SortFieldQuantity:
		return compareInt(a.Quantity, b.Quantity)
	case domain.SortFieldPricePerUnit:
		return compareFloat(a.PricePerUnit, b.PricePerUnit)
	case domain.SortFieldTotalAmount:
		return compareFloat(a.TotalAmount, b.TotalAmount)
	case domain.SortFieldDiscount:
		return compareFloat(a.Discount, b.Discount)
	case domain.SortFieldTransactionID:
		return strings.Compare(a.TransactionID, b.TransactionID)
	case domain.SortFieldProductCategory:
		return strings.Compare(a.ProductCategory, b.ProductCategory)
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
