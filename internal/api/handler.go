package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/govalues/decimal"

	"github.com/eugenenazirov/denominator/internal/denom"
	"github.com/eugenenazirov/denominator/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires converter and storage dependencies into HTTP handlers.
type Handler struct {
	converter denom.Converter
	storage   storage.Storage

	clock func() time.Time

	mu             sync.RWMutex
	unitsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(conv denom.Converter, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		converter: conv,
		storage:   store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.unitsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetUnits(w http.ResponseWriter, r *http.Request) {
	_ = r
	units, err := h.storage.GetValueMap()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := unitsResponse{
		Units:     units,
		UpdatedAt: h.currentUnitsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutUnits(w http.ResponseWriter, r *http.Request) {
	var req unitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Units) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid units", "units must contain at least one entry")
		return
	}

	if err := h.storage.SetValueMap(req.Units); err != nil {
		if errors.Is(err, storage.ErrInvalidValueMap) {
			writeError(w, http.StatusBadRequest, "Invalid units", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markUnitsUpdated()

	units, err := h.storage.GetValueMap()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := unitsResponse{
		Units:     units,
		UpdatedAt: h.currentUnitsUpdatedAt(),
		Message:   "Units updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req decomposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	units, err := h.storage.GetValueMap()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	start := time.Now()
	result, convErr := h.converter.Decompose(units, req.Total)
	elapsed := time.Since(start)

	if convErr != nil {
		switch {
		case errors.Is(convErr, denom.ErrNegativeTotal):
			writeError(w, http.StatusBadRequest, "Invalid request", convErr.Error())
		default:
			writeInternalError(w, convErr)
		}
		return
	}

	breakdown := make(map[string]int64, len(result.Counts)+1)
	for name, count := range result.Counts {
		breakdown[name] = count
	}
	if result.HasRemainder() {
		breakdown[denom.RemainderKey] = result.Remainder
	}

	resp := decomposeResponse{
		Total:             req.Total,
		Counts:            result.Counts,
		Remainder:         result.Remainder,
		Breakdown:         breakdown,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleTotal(w http.ResponseWriter, r *http.Request) {
	var req totalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	counts := make(denom.CountSet, len(req.Counts))
	for name, raw := range req.Counts {
		count, err := decimal.Parse(raw.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid count", fmt.Sprintf("count for %q is not a valid number", name))
			return
		}
		counts[name] = count
	}

	units, err := h.storage.GetValueMap()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	start := time.Now()
	total, convErr := h.converter.Total(units, counts)
	elapsed := time.Since(start)

	if convErr != nil {
		var unknown *denom.UnknownUnitError
		switch {
		case errors.As(convErr, &unknown):
			suggestion := fmt.Sprintf("Add %q to the unit table via PUT /api/units or remove it from the counts", unknown.Unit)
			writeError(w, http.StatusUnprocessableEntity, "Unknown unit", convErr.Error(), suggestion)
		default:
			writeInternalError(w, convErr)
		}
		return
	}

	resp := totalResponse{
		Total:             total,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentUnitsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.unitsUpdatedAt
}

func (h *Handler) markUnitsUpdated() {
	h.mu.Lock()
	h.unitsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type unitsRequest struct {
	Units denom.ValueMap `json:"units"`
}

type decomposeRequest struct {
	Total int64 `json:"total"`
}

type totalRequest struct {
	Counts map[string]json.Number `json:"counts"`
}

type decomposeResponse struct {
	Total             int64            `json:"total"`
	Counts            map[string]int64 `json:"counts"`
	Remainder         int64            `json:"remainder"`
	Breakdown         map[string]int64 `json:"breakdown"`
	CalculationTimeMs int64            `json:"calculationTimeMs"`
}

type totalResponse struct {
	Total             decimal.Decimal `json:"total"`
	CalculationTimeMs int64           `json:"calculationTimeMs"`
}

type unitsResponse struct {
	Units     denom.ValueMap `json:"units"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Message   string         `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
