package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/vamsiche/retail-sales-api/internal/config"
	"github.com/vamsiche/retail-sales-api/internal/domain"
	"github.com/vamsiche/retail-sales-api/internal/repository"
)

const healthTimeout = 2 * time.Second

// Handler serves the read-side API over a transaction store.
type Handler struct {
	store  repository.TransactionStore
	server config.ServerConfig
}

// NewHandler creates the API handler.
func NewHandler(store repository.TransactionStore, server config.ServerConfig) *Handler {
	return &Handler{store: store, server: server}
}

// Routes mounts the API endpoints on a fresh mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/filters/options", h.handleFilterOptions)
	mux.HandleFunc("/api/transactions", h.handleTransactions)
	mux.HandleFunc("/api/statistics", h.handleStatistics)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

type transactionsResponse struct {
	Total   int                       `json:"total"`
	Limit   int                       `json:"limit"`
	Offset  int                       `json:"offset"`
	Results []domain.SalesTransaction `json:"results"`
}

func (h *Handler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	if err := checkUnknownParams(query, filterParams, listParams); err != nil {
		h.writeError(w, err)
		return
	}
	filter, err := parseFilter(query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := parseListParams(query, &filter, h.server.DefaultPageSize, h.server.MaxPageSize); err != nil {
		h.writeError(w, err)
		return
	}

	results, total, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.SalesTransaction{}
	}

	writeJSON(w, http.StatusOK, transactionsResponse{
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Results: results,
	})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Same filter surface as the listing; sort and pagination are not part
	// of the statistics contract and are ignored if supplied.
	query := r.URL.Query()
	if err := checkUnknownParams(query, filterParams, listParams); err != nil {
		h.writeError(w, err)
		return
	}
	filter, err := parseFilter(query)
	if err != nil {
		h.writeError(w, err)
		return
	}

	stats, err := h.store.Aggregate(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	options, err := h.store.FilterOptions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("[API] health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var filterErr *domain.InvalidFilterError
	var pageErr *domain.InvalidPaginationError

	switch {
	case errors.As(err, &filterErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: filterErr.Error(), Field: filterErr.Field})
	case errors.As(err, &pageErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: pageErr.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("[API] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store unavailable"})
	default:
		log.Printf("[API] unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
