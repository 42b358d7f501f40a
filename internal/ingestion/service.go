package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/vamsiche/retail-sales-api/internal/domain"
	"github.com/vamsiche/retail-sales-api/internal/repository"
)

var (
	// ErrUnsupportedFormat is returned when an input file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

	dateLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02/01/2006",
	}
)

const (
	defaultBatchSize = 500
	maxRowErrors     = 50
)

// Service normalizes tabular sales exports (CSV or XLSX) into transaction
// records and bulk-upserts them into the store. This is the offline load
// path; the API itself never writes.
type Service struct {
	store     repository.TransactionStore
	batchSize int
}

// NewService creates a load service.
func NewService(store repository.TransactionStore) *Service {
	return &Service{store: store, batchSize: defaultBatchSize}
}

// Request describes one load input.
type Request struct {
	FileName string
	Data     io.Reader
}

// RowError reports why a data row was skipped. Row numbers are 1-based and
// include the header row.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Summary reports load-run metrics.
type Summary struct {
	RunID     uuid.UUID  `json:"run_id"`
	TotalRows int        `json:"total_rows"`
	Loaded    int        `json:"loaded"`
	Skipped   int        `json:"skipped"`
	Errors    []RowError `json:"errors,omitempty"`
}

// Load reads every row, skipping and counting rows that cannot be
// normalized, and upserts the rest in batches keyed by transaction_id.
func (s *Service) Load(ctx context.Context, req Request) (Summary, error) {
	rows, err := readRows(req.FileName, req.Data)
	if err != nil {
		return Summary{}, err
	}
	if len(rows) == 0 {
		return Summary{}, fmt.Errorf("file %s has no header row", req.FileName)
	}

	columns := columnIndex(rows[0])
	for _, required := range []string{"transaction_id", "date"} {
		if _, ok := columns[required]; !ok {
			return Summary{}, fmt.Errorf("missing required column %q in %s", required, req.FileName)
		}
	}

	summary := Summary{RunID: uuid.New(), TotalRows: len(rows) - 1}
	batch := make([]domain.SalesTransaction, 0, s.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		loaded, err := s.store.InsertBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		summary.Loaded += loaded
		batch = batch[:0]
		return nil
	}

	for i, row := range rows[1:] {
		tx, err := parseRow(columns, row)
		if err != nil {
			summary.Skipped++
			if len(summary.Errors) < maxRowErrors {
				summary.Errors = append(summary.Errors, RowError{Row: i + 2, Reason: err.Error()})
			}
			continue
		}
		batch = append(batch, tx)
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return Summary{}, err
			}
		}
	}
	if err := flush(); err != nil {
		return Summary{}, err
	}

	return summary, nil
}

func readRows(fileName string, data io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return readCSV(data)
	case ".xlsx":
		return readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
}

func readCSV(data io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(data io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(data)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("xlsx file has no sheets")
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rows, nil
}

// columnIndex maps normalized header labels to their positions, so both
// "Transaction ID" and "transaction_id" headers resolve.
func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, label := range header {
		normalized := strings.ToLower(strings.TrimSpace(label))
		normalized = strings.ReplaceAll(normalized, " ", "_")
		if normalized != "" {
			columns[normalized] = i
		}
	}
	return columns
}

func parseRow(columns map[string]int, row []string) (domain.SalesTransaction, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	transactionID := field("transaction_id")
	if transactionID == "" {
		return domain.SalesTransaction{}, errors.New("missing transaction_id")
	}

	date, err := parseAnyDate(field("date"))
	if err != nil {
		return domain.SalesTransaction{}, err
	}

	age, err := parseNonNegativeInt("age", field("age"))
	if err != nil {
		return domain.SalesTransaction{}, err
	}
	quantity, err := parseNonNegativeInt("quantity", field("quantity"))
	if err != nil {
		return domain.SalesTransaction{}, err
	}
	price, err := parseNonNegativeFloat("price_per_unit", field("price_per_unit"))
	if err != nil {
		return domain.SalesTransaction{}, err
	}
	amount, err := parseNonNegativeFloat("total_amount", field("total_amount"))
	if err != nil {
		return domain.SalesTransaction{}, err
	}
	discount, err := parseNonNegativeFloat("discount", field("discount"))
	if err != nil {
		return domain.SalesTransaction{}, err
	}

	return domain.SalesTransaction{
		TransactionID:   transactionID,
		Date:            date,
		CustomerID:      field("customer_id"),
		CustomerName:    field("customer_name"),
		PhoneNumber:     field("phone_number"),
		Gender:          field("gender"),
		Age:             age,
		CustomerRegion:  field("customer_region"),
		ProductCategory: field("product_category"),
		Quantity:        quantity,
		PricePerUnit:    price,
		TotalAmount:     amount,
		Discount:        discount,
		PaymentMethod:   field("payment_method"),
		Tags:            parseTags(field("tags")),
	}, nil
}

func parseAnyDate(value string) (domain.Date, error) {
	if value == "" {
		return domain.Date{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return domain.Date{}, fmt.Errorf("unparseable date %q", value)
}

// Absent numerics normalize to zero; negative values mark the row invalid.
func parseNonNegativeInt(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s %d", name, n)
	}
	return n, nil
}

func parseNonNegativeFloat(name, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative %s %v", name, f)
	}
	return f, nil
}

// parseTags accepts the array spellings seen in exports: {a,b}, [a,b],
// a,b and a;b, with optional quoting. Duplicates collapse; order of first
// appearance is kept.
func parseTags(value string) []string {
	trimmed := strings.Trim(strings.TrimSpace(value), "{}[]")
	if trimmed == "" {
		return []string{}
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ';'
	})

	seen := make(map[string]struct{}, len(parts))
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.Trim(strings.TrimSpace(part), `"'`)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
