package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blockchainintegration/nft-ledger/internal/core/domain"
	"github.com/blockchainintegration/nft-ledger/internal/core/service"
)

// Capabilities reports which optional backends were reachable at startup.
type Capabilities struct {
	Store string `json:"store"`
	Cache string `json:"cache"`
	Chain string `json:"chain"`
}

type HTTPHandler struct {
	ledger   *service.LedgerService
	activity *service.ActivityService
	caps     Capabilities
}

type RecordMintRequest struct {
	Recipient       string `json:"recipient"`
	TokenID         *int64 `json:"tokenId"`
	TransactionHash string `json:"transactionHash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(ledger *service.LedgerService, activity *service.ActivityService, caps Capabilities) *HTTPHandler {
	return &HTTPHandler{ledger: ledger, activity: activity, caps: caps}
}

// Routes mounts every endpoint on a fresh chi router.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/collections", h.ListCollections)
		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Post("/mints", h.RecordMint)
			r.Get("/mints/{recipient}", h.GetMints)
			r.Get("/next-token", h.NextTokenID)
			r.Get("/tokens/{id}/metadata", h.TokenMetadata)
		})
		r.Get("/accounts/{address}/transfers", h.Transfers)
	})
	return r
}

func (h *HTTPHandler) RecordMint(w http.ResponseWriter, r *http.Request) {
	var req RecordMintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.TokenID == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tokenId is required"})
		return
	}

	rec, err := h.ledger.RecordMint(r.Context(), chi.URLParam(r, "collection"), req.Recipient, *req.TokenID, req.TransactionHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *HTTPHandler) GetMints(w http.ResponseWriter, r *http.Request) {
	recs, err := h.ledger.GetMints(r.Context(), chi.URLParam(r, "collection"), chi.URLParam(r, "recipient"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *HTTPHandler) NextTokenID(w http.ResponseWriter, r *http.Request) {
	next, err := h.ledger.NextTokenID(r.Context(), chi.URLParam(r, "collection"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (h *HTTPHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ledger.Collections())
}

func (h *HTTPHandler) TokenMetadata(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "token id must be an integer"})
		return
	}
	meta, err := h.ledger.Metadata(chi.URLParam(r, "collection"), tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (h *HTTPHandler) Transfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.activity.Transfers(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "explorer unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"capabilities": h.caps,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateToken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrStorage):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
