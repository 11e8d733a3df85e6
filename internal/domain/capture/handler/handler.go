// Package handler exposes the capture service over JSON/HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/batch"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/service"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
	"github.com/FACorreiaa/echo-capture/pkg/interceptors"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Route paths that don't need a bearer token.
const (
	ParsePath   = "/v1/capture/parse"
	SuggestPath = "/v1/capture/suggest"
	BatchPath   = "/v1/capture/batch"
)

// ParseRequest is the body of POST /v1/capture/parse.
type ParseRequest struct {
	Text       string            `json:"text"`
	Categories []common.Category `json:"categories,omitempty"`
}

// SuggestRequest is the body of POST /v1/capture/suggest.
type SuggestRequest struct {
	Text       string            `json:"text"`
	Direction  common.Direction  `json:"direction"`
	Categories []common.Category `json:"categories,omitempty"`
}

// SuggestResponse carries the suggested category id.
type SuggestResponse struct {
	CategoryID string `json:"category_id"`
}

// CommitRequest is the body of POST /v1/capture/commit. Categories should be
// the list the transactions were parsed against; when empty the server
// catalog is used.
type CommitRequest struct {
	RawText      string                     `json:"raw_text"`
	Transactions []common.ParsedTransaction `json:"transactions"`
	Categories   []common.Category          `json:"categories,omitempty"`
}

// TransactionResponse is a stored transaction as returned to clients.
type TransactionResponse struct {
	ID         uuid.UUID        `json:"id"`
	Direction  common.Direction `json:"direction"`
	Amount     decimal.Decimal  `json:"amount"`
	Currency   string           `json:"currency"`
	CategoryID string           `json:"category_id"`
	Note       string           `json:"note,omitempty"`
	RawText    string           `json:"raw_text,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// TransactionsResponse wraps a list of stored transactions.
type TransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CaptureHandler serves the capture endpoints.
type CaptureHandler struct {
	svc    service.CaptureService
	logger *slog.Logger
}

// NewCaptureHandler constructs a new handler.
func NewCaptureHandler(svc service.CaptureService, logger *slog.Logger) *CaptureHandler {
	return &CaptureHandler{svc: svc, logger: logger}
}

// Register mounts the capture routes on mux.
func (h *CaptureHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+ParsePath, h.Parse)
	mux.HandleFunc("POST "+SuggestPath, h.Suggest)
	mux.HandleFunc("POST "+BatchPath, h.Batch)
	mux.HandleFunc("POST /v1/capture/commit", h.Commit)
	mux.HandleFunc("GET /v1/transactions", h.List)
	mux.HandleFunc("GET /v1/transactions/{id}", h.Get)
}

// Parse extracts transactions from the posted text. Authentication is
// optional; when present the user id is only used for logging.
func (h *CaptureHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	userID, _ := userFromContext(r)
	result := h.svc.Parse(r.Context(), userID, req.Text, req.Categories)
	h.writeJSON(w, r, http.StatusOK, result)
}

// Batch parses an exported notes file sent as the raw request body.
// ?tz= names the zone for dates without one.
func (h *CaptureHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var opts batch.Options
	if tz := r.URL.Query().Get("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: unknown time zone %q", common.ErrBadRequest, tz))
			return
		}
		opts.Location = loc
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: reading body: %w", common.ErrBadRequest, err))
		return
	}

	userID, _ := userFromContext(r)
	res, err := h.svc.ParseBatch(r.Context(), userID, data, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, res)
}

// Suggest returns the best category for the posted text and direction.
func (h *CaptureHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.svc.Suggest(r.Context(), req.Text, req.Direction, req.Categories)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, SuggestResponse{CategoryID: id})
}

// Commit stores the transactions the user confirmed.
func (h *CaptureHandler) Commit(w http.ResponseWriter, r *http.Request) {
	userID, err := userFromContext(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req CommitRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	rows, err := h.svc.Commit(r.Context(), userID, req.RawText, req.Transactions, req.Categories)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, toResponses(rows))
}

// Get returns one stored transaction owned by the caller.
func (h *CaptureHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userFromContext(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid transaction id", common.ErrBadRequest))
		return
	}

	tx, err := h.svc.GetTransaction(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, toResponse(tx))
}

// List returns the caller's latest transactions. ?limit= caps the count.
func (h *CaptureHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userFromContext(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, r, fmt.Errorf("%w: invalid limit", common.ErrBadRequest))
			return
		}
		limit = min(n, maxListLimit)
	}

	rows, err := h.svc.ListTransactions(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, toResponses(rows))
}

func userFromContext(r *http.Request) (uuid.UUID, error) {
	raw, ok := interceptors.GetUserIDFromContext(r.Context())
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("%w: authentication required", common.ErrUnauthenticated)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user id in context", common.ErrUnauthenticated)
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", common.ErrBadRequest, err)
	}
	return nil
}

func toResponse(tx *repository.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         tx.ID,
		Direction:  tx.Direction,
		Amount:     repository.FromMinor(tx.AmountMinor),
		Currency:   tx.CurrencyCode,
		CategoryID: tx.CategoryID,
		Note:       tx.Note,
		RawText:    tx.RawText,
		CreatedAt:  tx.CreatedAt,
	}
}

func toResponses(rows []*repository.Transaction) TransactionsResponse {
	out := TransactionsResponse{Transactions: make([]TransactionResponse, 0, len(rows))}
	for _, tx := range rows {
		out.Transactions = append(out.Transactions, toResponse(tx))
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrBadRequest),
		errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *CaptureHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "capture request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		msg = http.StatusText(status)
	}
	h.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (h *CaptureHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", slog.Any("error", err))
	}
}
