package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	tag language.Tag
}

func NewHandler(svc *transaction.Service, tag language.Tag) *Handler {
	return &Handler{svc: svc, tag: tag}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/{id}", h.delete)
}

// CreateRequest is the body accepted when recording a transaction. Amount is in
// rials. Date and Time default to now.
type CreateRequest struct {
	Amount int64             `json:"amount"`
	Title  string            `json:"title"`
	Type   transaction.Type  `json:"type"`
	Date   *jalali.Date      `json:"date,omitempty"`
	Time   *jalali.TimeOfDay `json:"time,omitempty"`
}

// Params converts the request into service parameters.
func (req CreateRequest) Params() transaction.CreateParams {
	p := transaction.CreateParams{
		Amount: req.Amount,
		Title:  req.Title,
		Type:   req.Type,
		Time:   req.Time,
	}

	if req.Date != nil {
		p.Date = *req.Date
	}

	return p
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), req.Params())
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx, h.tag)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Groups(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toGroupResponseList(groups, h.tag)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// WriteError maps domain errors to HTTP status codes.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, transaction.ErrAlreadySetUp):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, currency.ErrInvalidAmount),
		errors.Is(err, transaction.ErrEmptyTitle),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidDate),
		errors.Is(err, transaction.ErrMalformedLedger):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
